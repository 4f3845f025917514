package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/halloway/timeline-companion/internal/record"
)

// Extension sets used to classify attachments. Mirrors the refresh job's
// classification, minus the raster formats browsers cannot render.
var (
	imageExtensions = map[string]struct{}{
		"jpg": {}, "jpeg": {}, "png": {}, "webp": {}, "gif": {},
		"bmp": {}, "svg": {}, "avif": {},
	}
	pdfExtensions = map[string]struct{}{"pdf": {}}

	// blockedExtensions are discarded outright.
	blockedExtensions = map[string]struct{}{"tif": {}, "tiff": {}, "heic": {}}
)

// transientHosts are the upstream table store's expiring attachment hosts.
// URLs under them go stale within hours and are never surfaced.
var transientHosts = []string{"dl.airtable.com", "airtableusercontent.com"}

var (
	labeledAttachment = regexp.MustCompile(`([^,()]+?)\s*\((https?://[^()\s]+)\)`)
	extensionPattern  = regexp.MustCompile(`\.([a-z0-9]+)(?:$|[?#)\s])`)
)

// ParseAttachments decodes one attachment field. Two encodings exist: a
// repeating "label (url)" pattern written by the refresh job, and a bare URL
// list, which gets synthesized ordinal labels. Entries are deduplicated by
// URL. Transient-host and blocked-format entries are discarded. The hint
// names the owning column's media kind and is both the classification
// fallback and the ordinal label stem.
func ParseAttachments(field, hint string) []record.Attachment {
	field = Sanitize(field)
	if field == "" || IsFormulaError(field) {
		return nil
	}

	var out []record.Attachment
	seen := map[string]struct{}{}

	add := func(label, url string) {
		if _, dup := seen[url]; dup {
			return
		}
		seen[url] = struct{}{}
		if isTransientURL(url) {
			return
		}
		kind, blocked := classifyAttachment(label, url, hint)
		if blocked {
			return
		}
		out = append(out, record.Attachment{Label: label, URL: url, Kind: kind})
	}

	if matches := labeledAttachment.FindAllStringSubmatch(field, -1); matches != nil {
		for _, m := range matches {
			add(strings.TrimSpace(m[1]), m[2])
		}
		return out
	}

	for i, url := range ExtractURLs(field) {
		add(fmt.Sprintf("%s %d", ordinalStem(hint), i+1), url)
	}
	return out
}

// ordinalStem picks the synthesized label stem for bare-URL attachments.
func ordinalStem(hint string) string {
	switch hint {
	case record.MediaImage:
		return "Image"
	case record.MediaPDF:
		return "PDF"
	default:
		return "File"
	}
}

// classifyAttachment infers the media kind from the label+URL file
// extension, falling back to the column hint when no extension is found.
func classifyAttachment(label, url, hint string) (kind string, blocked bool) {
	m := extensionPattern.FindStringSubmatch(strings.ToLower(label + " " + url))
	if m == nil {
		return hint, false
	}
	ext := m[1]
	if _, ok := blockedExtensions[ext]; ok {
		return "", true
	}
	if _, ok := imageExtensions[ext]; ok {
		return record.MediaImage, false
	}
	if _, ok := pdfExtensions[ext]; ok {
		return record.MediaPDF, false
	}
	return hint, false
}

// isTransientURL reports whether the URL points at the table store's
// expiring attachment hosting.
func isTransientURL(url string) bool {
	host := hostOf(url)
	for _, t := range transientHosts {
		if host == t || strings.HasSuffix(host, "."+t) {
			return true
		}
	}
	return false
}

func hostOf(url string) string {
	s := url
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	for _, sep := range []byte{'/', '?', '#'} {
		if i := strings.IndexByte(s, sep); i >= 0 {
			s = s[:i]
		}
	}
	if i := strings.IndexByte(s, ':'); i >= 0 {
		s = s[:i]
	}
	return strings.ToLower(s)
}
