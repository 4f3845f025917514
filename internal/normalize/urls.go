package normalize

import "strings"

// trailingPunctuation is stripped from the end of extracted URL tokens.
const trailingPunctuation = ".,;):"

// ExtractURLs scans free text for http(s) URLs. Each token runs to the next
// whitespace or control separator; trailing punctuation is stripped.
// Duplicates (exact string) are dropped, first-seen order is preserved.
func ExtractURLs(text string) []string {
	var (
		urls []string
		seen = map[string]struct{}{}
	)

	for i := 0; i < len(text); {
		idx := indexURLStart(text[i:])
		if idx < 0 {
			break
		}
		start := i + idx
		end := start
		for end < len(text) && !isURLSeparator(text[end]) {
			end++
		}

		u := strings.TrimRight(text[start:end], trailingPunctuation)
		if u != "" {
			if _, dup := seen[u]; !dup {
				seen[u] = struct{}{}
				urls = append(urls, u)
			}
		}
		i = end
	}

	return urls
}

func indexURLStart(s string) int {
	h := strings.Index(s, "http://")
	hs := strings.Index(s, "https://")
	switch {
	case h < 0:
		return hs
	case hs < 0:
		return h
	case hs < h:
		return hs
	default:
		return h
	}
}

func isURLSeparator(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c < 0x20
}
