// Package state maps filter state to and from the shareable query-string
// representation. The query string is the only durable state this system
// emits: one parameter per filter dimension plus two deep-link slots.
package state

import (
	"net/url"
	"strings"

	"github.com/halloway/timeline-companion/internal/filter"
	"github.com/halloway/timeline-companion/internal/normalize"
	"github.com/halloway/timeline-companion/internal/record"
)

// Query parameter names. Multi-valued parameters are pipe-joined on encode;
// decode also accepts repeated parameters.
const (
	ParamQuery      = "q"
	ParamLocation   = "loc"
	ParamPerson     = "person"
	ParamTag        = "tag"
	ParamMedia      = "media"
	ParamEvent      = "event"
	ParamRecordKind = "rkind"
	ParamRecordName = "rname"
)

const multiValueSeparator = "|"

// DeepLink addresses an open event or an open record panel.
type DeepLink struct {
	Event      string
	RecordKind record.Kind
	RecordName string
}

// IsZero reports whether no panel is open.
func (d DeepLink) IsZero() bool {
	return d.Event == "" && d.RecordName == ""
}

// Resolver resolves identifier-shaped deep-link values through the record
// graph before use. *graph.Graph satisfies it.
type Resolver interface {
	ResolveEventName(value string) string
	ResolveName(kind record.Kind, value string) string
}

// Encode renders filter state and deep links as query parameters. Inactive
// dimensions are omitted so the encoding is canonical.
func Encode(s filter.State, d DeepLink) url.Values {
	v := url.Values{}
	if q := strings.TrimSpace(s.Query); q != "" {
		v.Set(ParamQuery, q)
	}
	setMulti(v, ParamLocation, s.Locations)
	setMulti(v, ParamPerson, s.People)
	setMulti(v, ParamTag, s.Tags)
	if s.MediaOnly {
		v.Set(ParamMedia, "1")
	}
	if d.Event != "" {
		v.Set(ParamEvent, d.Event)
	}
	if d.RecordName != "" && d.RecordKind != "" {
		v.Set(ParamRecordKind, string(d.RecordKind))
		v.Set(ParamRecordName, d.RecordName)
	}
	return v
}

// EncodeQuery renders the canonical query string (keys sorted, joined with
// '&') for the address bar.
func EncodeQuery(s filter.State, d DeepLink) string {
	return Encode(s, d).Encode()
}

// Decode parses query parameters back into filter state and deep links.
// Identifier-shaped deep-link values are resolved through the graph; a nil
// resolver leaves them as-is. Unknown parameters are ignored.
func Decode(v url.Values, r Resolver) (filter.State, DeepLink) {
	s := filter.State{
		Query:     strings.TrimSpace(v.Get(ParamQuery)),
		Locations: getMulti(v, ParamLocation),
		People:    getMulti(v, ParamPerson),
		Tags:      getMulti(v, ParamTag),
		MediaOnly: isTruthy(v.Get(ParamMedia)),
	}

	var d DeepLink
	if ev := strings.TrimSpace(v.Get(ParamEvent)); ev != "" {
		d.Event = resolveEvent(r, ev)
	}
	kind, kindOK := record.ParseKind(strings.TrimSpace(v.Get(ParamRecordKind)))
	if name := strings.TrimSpace(v.Get(ParamRecordName)); name != "" && kindOK {
		d.RecordKind = kind
		d.RecordName = resolveRecord(r, kind, name)
	}

	return s, d
}

// DecodeQuery parses a raw query string. Malformed escapes yield the empty
// state rather than an error: a shared link should degrade, not break.
func DecodeQuery(raw string, r Resolver) (filter.State, DeepLink) {
	v, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return filter.State{}, DeepLink{}
	}
	return Decode(v, r)
}

func resolveEvent(r Resolver, value string) string {
	if r != nil && normalize.IsRecordID(value) {
		return r.ResolveEventName(value)
	}
	return value
}

func resolveRecord(r Resolver, kind record.Kind, value string) string {
	if r != nil && normalize.IsRecordID(value) {
		return r.ResolveName(kind, value)
	}
	return value
}

func setMulti(v url.Values, key string, values []string) {
	var kept []string
	for _, val := range values {
		if val = strings.TrimSpace(val); val != "" {
			kept = append(kept, val)
		}
	}
	if len(kept) > 0 {
		v.Set(key, strings.Join(kept, multiValueSeparator))
	}
}

func getMulti(v url.Values, key string) []string {
	var out []string
	for _, raw := range v[key] {
		for _, part := range strings.Split(raw, multiValueSeparator) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
