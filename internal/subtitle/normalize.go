package subtitle

import (
	"strings"
)

// full-width punctuation that should sit flush against CJK text
const cjkPunct = "，。！？；：、（）【】「」《》…—"

// NormalizeText collapses whitespace runs to a single space, trims the ends,
// and removes spaces around full-width CJK punctuation.
func NormalizeText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}

	runes := []rune(s)
	var sb strings.Builder
	sb.Grow(len(s))
	for i, r := range runes {
		if r == ' ' {
			if i > 0 && isCJKPunct(runes[i-1]) {
				continue
			}
			if i+1 < len(runes) && isCJKPunct(runes[i+1]) {
				continue
			}
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func isCJKPunct(r rune) bool {
	return strings.ContainsRune(cjkPunct, r)
}
