package subtitle

import (
	"sort"
	"strings"
)

// Word is one token of word-level speech recognition output. Times are
// integer milliseconds from the start of the recording.
type Word struct {
	Text       string  `json:"text"`
	StartMs    int64   `json:"startMs"`
	EndMs      int64   `json:"endMs"`
	Confidence float64 `json:"confidence,omitempty"`
}

func (w Word) Valid() bool {
	return strings.TrimSpace(w.Text) != "" && w.StartMs >= 0 && w.EndMs > w.StartMs
}

// CueSource tells where a cue's text came from.
type CueSource string

const (
	SourceASR    CueSource = "asr"
	SourceManual CueSource = "manual"
	SourceAgent  CueSource = "agent"
)

// Cue is one subtitle display unit. Cues produced by the segmenter are
// ordered by StartMs and never overlap.
type Cue struct {
	ID         int       `json:"id"`
	StartMs    int64     `json:"startMs"`
	EndMs      int64     `json:"endMs"`
	Text       string    `json:"text"`
	Source     CueSource `json:"source"`
	Confidence float64   `json:"confidence,omitempty"`
}

// NormalizeWords drops malformed words and returns the rest sorted by start
// time. Bad entries are discarded silently so one broken token never aborts
// an analysis.
func NormalizeWords(words []Word) []Word {
	out := make([]Word, 0, len(words))
	for _, w := range words {
		if !w.Valid() {
			continue
		}
		w.Text = strings.TrimSpace(w.Text)
		if w.Confidence < 0 {
			w.Confidence = 0
		}
		if w.Confidence > 1 {
			w.Confidence = 1
		}
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartMs < out[j].StartMs
	})
	return out
}

// JoinWords concatenates word texts, inserting spaces only between tokens
// that need them. CJK tokens join without separators.
func JoinWords(words []Word) string {
	var sb strings.Builder
	for i, w := range words {
		if i > 0 && needsSpace(words[i-1].Text, w.Text) {
			sb.WriteByte(' ')
		}
		sb.WriteString(w.Text)
	}
	return sb.String()
}

func needsSpace(prev, next string) bool {
	if prev == "" || next == "" {
		return false
	}
	pr := []rune(prev)
	nr := []rune(next)
	return !isCJK(pr[len(pr)-1]) && !isCJK(nr[0])
}

func isCJK(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF: // CJK unified ideographs
		return true
	case r >= 0x3400 && r <= 0x4DBF: // extension A
		return true
	case r >= 0x3000 && r <= 0x303F: // CJK punctuation
		return true
	case r >= 0xFF00 && r <= 0xFFEF: // full-width forms
		return true
	case r >= 0x3040 && r <= 0x30FF: // kana
		return true
	}
	return false
}
