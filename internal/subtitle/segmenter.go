package subtitle

import (
	"unicode/utf8"

	"github.com/blueberrycongee/cursorlens/internal/timeline"
)

// SegmenterConfig controls how transcript words are grouped into cues.
type SegmenterConfig struct {
	MinCueDurationMs int64
	MaxCueDurationMs int64
	SplitOnSilenceMs int64
	MaxCharsPerLine  int
	MaxLines         int
	MaxCPS           float64 // characters per second ceiling
}

func DefaultSegmenterConfig() SegmenterConfig {
	return SegmenterConfig{
		MinCueDurationMs: 600,
		MaxCueDurationMs: 5000,
		SplitOnSilenceMs: 800,
		MaxCharsPerLine:  42,
		MaxLines:         2,
		MaxCPS:           17,
	}
}

// DefaultSubtitleWidthRatio is the share of the video width subtitles may
// occupy when rendered.
const DefaultSubtitleWidthRatio = 0.82

// EstimateMaxCharsPerLine derives a per-line character budget from the
// rendering width, assuming the editor's default subtitle font metrics.
func EstimateMaxCharsPerLine(videoWidth int, widthRatio float64) int {
	if videoWidth <= 0 {
		return 42
	}
	if widthRatio <= 0 || widthRatio > 1 {
		widthRatio = DefaultSubtitleWidthRatio
	}
	// approximate glyph advance of the default subtitle font in pixels
	const glyphPx = 28.0
	chars := int(float64(videoWidth) * widthRatio / glyphPx)
	if chars < 20 {
		chars = 20
	}
	if chars > 42 {
		chars = 42
	}
	return chars
}

// Segment groups normalized words into display cues. A new cue starts when
// the silence gap to the next word reaches SplitOnSilenceMs or when adding
// the word would push the cue past MaxCueDurationMs. Emitted cues carry
// monotonically increasing ids, satisfy the min/max duration bounds, and
// never overlap.
func Segment(words []Word, cfg SegmenterConfig) []Cue {
	words = NormalizeWords(words)
	if len(words) == 0 {
		return nil
	}
	cfg = cfg.withDefaults()

	var groups [][]Word
	current := []Word{words[0]}
	for _, w := range words[1:] {
		prev := current[len(current)-1]
		gap := w.StartMs - prev.EndMs
		tooLong := w.EndMs-current[0].StartMs > cfg.MaxCueDurationMs
		if gap >= cfg.SplitOnSilenceMs || tooLong {
			groups = append(groups, current)
			current = []Word{w}
			continue
		}
		current = append(current, w)
	}
	groups = append(groups, current)

	cues := make([]Cue, 0, len(groups))
	for i, group := range groups {
		start := group[0].StartMs
		end := group[len(group)-1].EndMs

		if end-start > cfg.MaxCueDurationMs {
			end = start + cfg.MaxCueDurationMs
		}
		if end-start < cfg.MinCueDurationMs {
			// extend forward only, never the start
			end = start + cfg.MinCueDurationMs
		}
		if i+1 < len(groups) && end > groups[i+1][0].StartMs {
			end = groups[i+1][0].StartMs
		}
		if end <= start {
			continue
		}

		text := fitText(NormalizeText(JoinWords(group)), start, end, cfg)
		if text == "" {
			continue
		}

		cues = append(cues, Cue{
			ID:         len(cues) + 1,
			StartMs:    start,
			EndMs:      end,
			Text:       text,
			Source:     SourceASR,
			Confidence: groupConfidence(group),
		})
	}
	return cues
}

// fitText applies the line budget and the characters-per-second ceiling.
// When the text is too dense for the cue's duration the character budget
// shrinks and the text is ellipsis-truncated rather than the cue stretched.
func fitText(text string, startMs, endMs int64, cfg SegmenterConfig) string {
	budget := cfg.MaxCharsPerLine * cfg.MaxLines

	durationSec := float64(endMs-startMs) / 1000
	if durationSec < 0.001 {
		durationSec = 0.001
	}
	if cpsBudget := int(cfg.MaxCPS * durationSec); cpsBudget < budget {
		budget = cpsBudget
	}
	if budget < 1 {
		budget = 1
	}

	if utf8.RuneCountInString(text) > budget {
		text = timeline.TruncateWithEllipsis(text, budget)
	}

	perLine := cfg.MaxCharsPerLine
	if perLine > budget {
		perLine = budget
	}
	return timeline.WrapText(text, perLine, cfg.MaxLines)
}

func groupConfidence(group []Word) float64 {
	var sum float64
	n := 0
	for _, w := range group {
		if w.Confidence > 0 {
			sum += w.Confidence
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func (c SegmenterConfig) withDefaults() SegmenterConfig {
	d := DefaultSegmenterConfig()
	if c.MinCueDurationMs <= 0 {
		c.MinCueDurationMs = d.MinCueDurationMs
	}
	if c.MaxCueDurationMs <= 0 {
		c.MaxCueDurationMs = d.MaxCueDurationMs
	}
	if c.SplitOnSilenceMs <= 0 {
		c.SplitOnSilenceMs = d.SplitOnSilenceMs
	}
	if c.MaxCharsPerLine <= 0 {
		c.MaxCharsPerLine = d.MaxCharsPerLine
	}
	if c.MaxLines <= 0 {
		c.MaxLines = d.MaxLines
	}
	if c.MaxCPS <= 0 {
		c.MaxCPS = d.MaxCPS
	}
	return c
}
