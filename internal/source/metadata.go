package source

import (
	"encoding/json"
	"time"

	"github.com/halloway/timeline-companion/internal/record"
)

// refreshDocument mirrors the metadata JSON the refresh job writes.
type refreshDocument struct {
	GeneratedAtUTC string `json:"generated_at_utc"`
	RecordCount    int    `json:"record_count"`
	MediaCached    *bool  `json:"media_cached"`
	SyncMode       string `json:"sync_mode"`
}

// ParseRefreshInfo decodes the refresh metadata document. It never fails:
// a malformed or absent document yields a zero RefreshInfo, shown as an
// unknown freshness indicator.
func ParseRefreshInfo(data []byte) record.RefreshInfo {
	var doc refreshDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return record.RefreshInfo{}
	}

	generated, err := time.Parse(time.RFC3339, doc.GeneratedAtUTC)
	if err != nil {
		return record.RefreshInfo{}
	}

	mode := doc.SyncMode
	if mode == "" && doc.MediaCached != nil {
		if *doc.MediaCached {
			mode = "cached media"
		} else {
			mode = "linked media"
		}
	}

	return record.RefreshInfo{
		GeneratedAt: generated.UTC(),
		SyncMode:    mode,
		RecordCount: doc.RecordCount,
	}
}
