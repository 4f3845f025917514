package graph

import (
	"strings"

	"github.com/halloway/timeline-companion/internal/normalize"
)

// resolveToken resolves one raw token against an identifier lookup.
// Identifier-shaped tokens are substituted with their display name and
// silently dropped when no mapping exists. Plain text passes through
// sanitized. Empty, formula-error, and letterless noise tokens are dropped.
// Re-resolving an already-resolved name is a no-op: a display name is not
// identifier-shaped, so the rewrite step is idempotent.
func resolveToken(tok string, ids map[string]string) (string, bool) {
	tok = normalize.Sanitize(tok)
	if tok == "" || normalize.IsFormulaError(tok) {
		return "", false
	}
	if normalize.IsRecordID(tok) {
		display, ok := ids[tok]
		if !ok {
			return "", false
		}
		tok = strings.TrimSpace(display)
	}
	if tok == "" || !normalize.HasWordChar(tok) {
		return "", false
	}
	return tok, true
}

// resolveList resolves every token and deduplicates case-insensitively,
// preserving first-seen order.
func resolveList(tokens []string, ids map[string]string) []string {
	var (
		out  []string
		seen = map[string]struct{}{}
	)
	for _, tok := range tokens {
		name, ok := resolveToken(tok, ids)
		if !ok {
			continue
		}
		key := nameKey(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// dropSelf removes a record's own name from a related-name list.
func dropSelf(names []string, self string) []string {
	selfKey := nameKey(self)
	out := names[:0]
	for _, n := range names {
		if nameKey(n) != selfKey {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
