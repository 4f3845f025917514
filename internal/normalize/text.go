package normalize

import (
	"strings"
	"unicode"
)

// Sanitize trims a raw field value, strips enclosing matched quote layers,
// and collapses doubled internal quotes left over from export escaping.
// The transform runs to a fixpoint, so Sanitize is idempotent.
func Sanitize(s string) string {
	for {
		next := sanitizeOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func sanitizeOnce(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	s = strings.ReplaceAll(s, `""`, `"`)
	return strings.TrimSpace(s)
}

// IsFormulaError reports whether a value is an upstream formula-evaluation
// failure: a known error token or a JSON-shaped error envelope. Such values
// are suppressed rather than displayed.
func IsFormulaError(s string) bool {
	s = strings.TrimSpace(s)
	switch s {
	case "#ERROR", "#ERROR!", "NaN", "Infinity", "-Infinity":
		return true
	}
	if strings.HasPrefix(s, "{") &&
		(strings.Contains(s, `"error"`) || strings.Contains(s, `"specialValue"`)) {
		return true
	}
	return false
}

// HasWordChar reports whether s contains at least one letter or digit.
// Tokens without any are upstream formula noise and are dropped from
// resolved lists.
func HasWordChar(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
