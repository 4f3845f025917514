package graph

import (
	"strconv"
	"strings"

	"github.com/halloway/timeline-companion/internal/normalize"
	"github.com/halloway/timeline-companion/internal/record"
	"github.com/halloway/timeline-companion/internal/tabular"
)

var (
	siteKeyCols       = []string{"Key", "Slot", "Name"}
	siteTypeCols      = []string{"Type"}
	siteLabelCols     = []string{"Label", "Title"}
	siteBodyCols      = []string{"Body", "Content", "Text"}
	siteLinkCols      = []string{"Link", "URL"}
	siteOrderCols     = []string{"Order", "Sort Order", "Sort"}
	sitePublishedCols = []string{"Published", "Live"}
	siteLocaleCols    = []string{"Locale", "Language"}
)

// ParseSiteNotes decodes the supplementary site-content table. Rows without
// a key are dropped. A nil table yields no notes; the caller treats that as a
// degraded source.
func ParseSiteNotes(tbl *tabular.Table) []record.SiteNote {
	if tbl == nil {
		return nil
	}

	var notes []record.SiteNote
	for _, row := range tbl.Rows {
		key := normalize.Sanitize(tbl.Field(row, siteKeyCols...))
		if key == "" {
			continue
		}
		order, _ := strconv.Atoi(strings.TrimSpace(tbl.Field(row, siteOrderCols...)))
		notes = append(notes, record.SiteNote{
			Key:       key,
			Type:      normalize.Sanitize(tbl.Field(row, siteTypeCols...)),
			Label:     normalize.Sanitize(tbl.Field(row, siteLabelCols...)),
			Body:      normalize.Sanitize(tbl.Field(row, siteBodyCols...)),
			Link:      strings.TrimSpace(tbl.Field(row, siteLinkCols...)),
			Order:     order,
			Published: isChecked(tbl.Field(row, sitePublishedCols...)),
			Locale:    normalize.Sanitize(tbl.Field(row, siteLocaleCols...)),
		})
	}
	return notes
}

// isChecked interprets the export's checkbox/boolean spellings.
func isChecked(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "checked", "true", "1", "yes", "y":
		return true
	}
	return false
}
