// Package tabular decodes the delimited text exports the upstream refresh
// job produces. It is deliberately forgiving: the exports are machine-written
// but pass through spreadsheet tooling, so the decoder recovers from malformed
// quoting instead of rejecting the file.
package tabular

import "strings"

// Table is a decoded export: a trimmed header row and the data rows below it.
// Rows may have fewer or more fields than the header.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Decode parses raw delimited text into a Table. The first row is always the
// header; its names are trimmed and a UTF-8 byte-order mark is stripped.
// Rows whose fields are uniformly empty are never emitted. Decode never
// fails: an unterminated quote consumes the remaining input as quoted
// content (best-effort recovery, matching the upstream viewer's behavior).
func Decode(raw string) *Table {
	raw = strings.TrimPrefix(raw, "\ufeff")
	rows := decodeRows(raw)
	if len(rows) == 0 {
		return &Table{}
	}

	headers := rows[0]
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}
	return &Table{Headers: headers, Rows: rows[1:]}
}

// decodeRows scans the whole input once, honoring double-quoted fields that
// may embed delimiters, newlines, and escaped quotes ("" -> ").
func decodeRows(raw string) [][]string {
	var (
		rows     [][]string
		fields   []string
		field    strings.Builder
		inQuotes bool
	)

	endField := func() {
		fields = append(fields, field.String())
		field.Reset()
	}
	endRow := func() {
		endField()
		if !allEmpty(fields) {
			rows = append(rows, fields)
		}
		fields = nil
	}

	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		c := runes[i]

		if inQuotes {
			if c != '"' {
				field.WriteRune(c)
				continue
			}
			if i+1 < len(runes) && runes[i+1] == '"' {
				field.WriteRune('"')
				i++
				continue
			}
			inQuotes = false
			continue
		}

		switch c {
		case '"':
			// Opening quote anywhere in a bare field starts a quoted span.
			inQuotes = true
		case ',':
			endField()
		case '\r':
			if i+1 < len(runes) && runes[i+1] == '\n' {
				i++
			}
			endRow()
		case '\n':
			endRow()
		default:
			field.WriteRune(c)
		}
	}

	// Trailing line without a terminator.
	if field.Len() > 0 || len(fields) > 0 {
		endRow()
	}

	return rows
}

// Encode renders rows back to delimited text. Fields containing delimiters,
// quotes, or newlines are quoted with "" escaping. Used by tests and by the
// snapshot cache's diagnostic dump.
func Encode(rows [][]string) string {
	var sb strings.Builder
	for _, row := range rows {
		for i, f := range row {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(encodeField(f))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func encodeField(f string) string {
	if !strings.ContainsAny(f, ",\"\n\r") {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}

// allEmpty reports whether every field in the row is the empty string.
func allEmpty(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}

// Column returns the index of the first header matching any of the given
// names (trim- and case-insensitive), or -1 when none match. Callers pass
// alias spellings in priority order.
func (t *Table) Column(names ...string) int {
	for _, name := range names {
		for i, h := range t.Headers {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
	}
	return -1
}

// Field returns the value of the named column (first matching alias) in the
// given row, or "" when the column is absent or the row is short.
func (t *Table) Field(row []string, names ...string) string {
	idx := t.Column(names...)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// SplitQuoted splits s on commas outside double-quoted spans, using the same
// quoting rules as Decode. Tokens are trimmed; empty tokens are dropped.
// Order is preserved and no deduplication happens at this stage.
func SplitQuoted(s string) []string {
	var (
		tokens   []string
		tok      strings.Builder
		inQuotes bool
	)

	flush := func() {
		t := strings.TrimSpace(tok.String())
		if t != "" {
			tokens = append(tokens, t)
		}
		tok.Reset()
	}

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if inQuotes {
			if c != '"' {
				tok.WriteRune(c)
				continue
			}
			if i+1 < len(runes) && runes[i+1] == '"' {
				tok.WriteRune('"')
				i++
				continue
			}
			inQuotes = false
			continue
		}
		switch c {
		case '"':
			inQuotes = true
		case ',':
			flush()
		default:
			tok.WriteRune(c)
		}
	}
	flush()
	return tokens
}
