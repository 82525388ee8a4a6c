// Package roughcut detects silence gaps and filler-word runs in a transcript
// and turns them into candidate deletion intervals for the editor.
package roughcut

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/blueberrycongee/cursorlens/internal/subtitle"
	"github.com/blueberrycongee/cursorlens/internal/timeline"
)

// Reason classifies why an interval was suggested for removal.
type Reason string

const (
	ReasonSilence Reason = "silence"
	ReasonFiller  Reason = "filler"
)

// Suggestion is one candidate deletion interval.
type Suggestion struct {
	ID         int     `json:"id"`
	StartMs    int64   `json:"startMs"`
	EndMs      int64   `json:"endMs"`
	Reason     Reason  `json:"reason"`
	Confidence float64 `json:"confidence"`
	Label      string  `json:"label"`
}

// Config controls detection thresholds.
type Config struct {
	MinSilenceMs        int64
	MinFillerDurationMs int64
	FillerWords         []string
}

// maximum gap between words that still counts as one filler run
const fillerRunGapMs = 200

// gap tolerance when merging adjacent suggestions
const mergeGapMs = 40

var fillerWordsEN = []string{
	"um", "uh", "er", "ah", "hmm", "like", "you know", "actually", "basically",
}

var fillerWordsZH = []string{
	"嗯", "呃", "啊", "那个", "就是", "然后", "这个",
}

// DefaultConfig returns detection thresholds with a locale-appropriate
// filler-word set. Locale tags like "zh-CN" select the Chinese set; anything
// else falls back to English.
func DefaultConfig(locale string) Config {
	fillers := fillerWordsEN
	if strings.HasPrefix(strings.ToLower(locale), "zh") {
		fillers = fillerWordsZH
	}
	return Config{
		MinSilenceMs:        700,
		MinFillerDurationMs: 260,
		FillerWords:         fillers,
	}
}

// Detect finds silence and filler suggestions across the transcript. The
// result is normalized: clamped into [0, durationMs], sorted by start, and
// near-adjacent suggestions merged.
func Detect(words []subtitle.Word, durationMs int64, cfg Config) []Suggestion {
	words = subtitle.NormalizeWords(words)

	var raw []Suggestion
	raw = append(raw, detectSilences(words, cfg)...)
	raw = append(raw, detectFillerRuns(words, cfg)...)

	return NormalizeSuggestions(raw, durationMs)
}

func detectSilences(words []subtitle.Word, cfg Config) []Suggestion {
	if cfg.MinSilenceMs <= 0 {
		return nil
	}
	var out []Suggestion
	for i := 1; i < len(words); i++ {
		gap := words[i].StartMs - words[i-1].EndMs
		if gap < cfg.MinSilenceMs {
			continue
		}
		conf := 0.55 + float64(gap)/3000
		if conf > 0.98 {
			conf = 0.98
		}
		out = append(out, Suggestion{
			StartMs:    words[i-1].EndMs,
			EndMs:      words[i].StartMs,
			Reason:     ReasonSilence,
			Confidence: conf,
			Label:      fmt.Sprintf("%.1fs silence", float64(gap)/1000),
		})
	}
	return out
}

func detectFillerRuns(words []subtitle.Word, cfg Config) []Suggestion {
	if len(cfg.FillerWords) == 0 {
		return nil
	}
	fillers := make(map[string]struct{}, len(cfg.FillerWords))
	for _, f := range cfg.FillerWords {
		fillers[strings.ToLower(f)] = struct{}{}
	}

	var out []Suggestion
	runStart := int64(-1)
	runEnd := int64(0)
	runLabel := ""

	flush := func() {
		if runStart < 0 {
			return
		}
		dur := runEnd - runStart
		if dur >= cfg.MinFillerDurationMs {
			conf := 0.62 + float64(dur)/2000
			if conf > 0.96 {
				conf = 0.96
			}
			out = append(out, Suggestion{
				StartMs:    runStart,
				EndMs:      runEnd,
				Reason:     ReasonFiller,
				Confidence: conf,
				Label:      fmt.Sprintf("filler %q", runLabel),
			})
		}
		runStart = -1
	}

	for _, w := range words {
		token := normalizeToken(w.Text)
		_, isFiller := fillers[token]
		if !isFiller {
			flush()
			continue
		}
		if runStart >= 0 && w.StartMs-runEnd <= fillerRunGapMs {
			runEnd = w.EndMs
			continue
		}
		flush()
		runStart = w.StartMs
		runEnd = w.EndMs
		runLabel = token
	}
	flush()
	return out
}

// normalizeToken lowercases a word and strips leading/trailing characters
// that are neither letters nor digits, so "Um," matches "um".
func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// NormalizeSuggestions clamps suggestions into [0, durationMs], drops the
// invalid ones, sorts by start, merges any pair closer than the gap
// tolerance, and re-issues sequential ids. When two suggestions merge, the
// reason and label of the higher-confidence one win (the earlier one wins
// ties) and the merged confidence is the max of the two.
func NormalizeSuggestions(list []Suggestion, durationMs int64) []Suggestion {
	clamped := make([]Suggestion, 0, len(list))
	for _, s := range list {
		iv, ok := timeline.Normalize(float64(s.StartMs), float64(s.EndMs), durationMs)
		if !ok {
			continue
		}
		s.StartMs = iv.StartMs
		s.EndMs = iv.EndMs
		if s.Confidence < 0 {
			s.Confidence = 0
		}
		if s.Confidence > 1 {
			s.Confidence = 1
		}
		clamped = append(clamped, s)
	}
	if len(clamped) == 0 {
		return nil
	}

	sort.SliceStable(clamped, func(i, j int) bool {
		return clamped[i].StartMs < clamped[j].StartMs
	})

	merged := make([]Suggestion, 0, len(clamped))
	current := clamped[0]
	for _, s := range clamped[1:] {
		if s.StartMs <= current.EndMs+mergeGapMs {
			current = mergePair(current, s)
			continue
		}
		merged = append(merged, current)
		current = s
	}
	merged = append(merged, current)

	for i := range merged {
		merged[i].ID = i + 1
	}
	return merged
}

func mergePair(a, b Suggestion) Suggestion {
	out := a
	if b.EndMs > out.EndMs {
		out.EndMs = b.EndMs
	}
	// higher confidence wins the reason and label; the earlier suggestion
	// wins ties
	if b.Confidence > a.Confidence {
		out.Reason = b.Reason
		out.Label = b.Label
		out.Confidence = b.Confidence
	}
	return out
}
