package record

import "time"

// SiteNote is one row of the supplementary site-content table: a keyed
// piece of page copy (navigation entry, footer slot, about text).
type SiteNote struct {
	Key       string `json:"key"`
	Type      string `json:"type,omitempty"`
	Label     string `json:"label,omitempty"`
	Body      string `json:"body,omitempty"`
	Link      string `json:"link,omitempty"`
	Order     int    `json:"order"`
	Published bool   `json:"published"`
	Locale    string `json:"locale,omitempty"`
}

// RefreshInfo describes the freshness of the upstream data exports, parsed
// from the refresh metadata document. Absence of the document is non-fatal;
// a zero RefreshInfo means "unknown".
type RefreshInfo struct {
	GeneratedAt time.Time `json:"generated_at,omitzero"`
	SyncMode    string    `json:"sync_mode,omitempty"`
	RecordCount int       `json:"record_count,omitempty"`
}
