package timeline

import (
	"strings"
	"unicode/utf8"
)

const ellipsis = "…"

// WrapText packs text into at most maxLines lines of at most maxCharsPerLine
// characters each, counting by Unicode code point. Whitespace-separated
// languages wrap on word boundaries; text without whitespace (CJK) wraps per
// rune. When content remains after the last allowed line, the line is
// truncated and a single ellipsis appended.
func WrapText(text string, maxCharsPerLine, maxLines int) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if maxCharsPerLine <= 0 {
		maxCharsPerLine = 1
	}
	if maxLines <= 0 {
		maxLines = 1
	}

	tokens := tokenize(text)
	joiner := " "
	if !strings.ContainsAny(text, " \t\n") {
		joiner = ""
	}

	var lines []string
	var line strings.Builder
	lineLen := 0
	overflow := false

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		tokLen := utf8.RuneCountInString(tok)

		sepLen := 0
		if lineLen > 0 && joiner != "" {
			sepLen = 1
		}

		if lineLen > 0 && lineLen+sepLen+tokLen > maxCharsPerLine {
			lines = append(lines, line.String())
			if len(lines) == maxLines {
				overflow = true
				break
			}
			line.Reset()
			lineLen = 0
			sepLen = 0
		}

		if lineLen > 0 && sepLen > 0 {
			line.WriteString(joiner)
			lineLen++
		}

		// a single token longer than the budget is hard-cut per rune
		if tokLen > maxCharsPerLine && lineLen == 0 {
			runes := []rune(tok)
			line.WriteString(string(runes[:maxCharsPerLine]))
			lineLen = maxCharsPerLine
			rest := string(runes[maxCharsPerLine:])
			if rest != "" {
				tokens = append(tokens[:i+1], append([]string{rest}, tokens[i+1:]...)...)
			}
			continue
		}

		line.WriteString(tok)
		lineLen += tokLen
	}

	if !overflow && line.Len() > 0 {
		lines = append(lines, line.String())
	}

	if overflow {
		last := lines[len(lines)-1]
		if utf8.RuneCountInString(last)+1 > maxCharsPerLine {
			last = truncateWithEllipsis(last, maxCharsPerLine)
		} else {
			last += ellipsis
		}
		lines[len(lines)-1] = last
	}

	return strings.Join(lines, "\n")
}

// TruncateWithEllipsis cuts text to at most maxChars code points, replacing
// the tail with a single ellipsis when anything was removed.
func TruncateWithEllipsis(text string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= maxChars {
		return text
	}
	return truncateWithEllipsis(text, maxChars)
}

func truncateWithEllipsis(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		if len(runes) == maxChars {
			// make room for the ellipsis marker
			return strings.TrimRight(string(runes[:maxChars-1]), " ") + ellipsis
		}
		return text
	}
	keep := maxChars - 1
	if keep < 0 {
		keep = 0
	}
	return strings.TrimRight(string(runes[:keep]), " ") + ellipsis
}

func tokenize(text string) []string {
	if strings.ContainsAny(text, " \t\n") {
		return strings.Fields(text)
	}
	runes := []rune(text)
	out := make([]string, 0, len(runes))
	for _, r := range runes {
		out = append(out, string(r))
	}
	return out
}
