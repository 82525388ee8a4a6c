package roughcut

import (
	"testing"

	"github.com/blueberrycongee/cursorlens/internal/subtitle"
)

func TestDetectFindsSilenceGap(t *testing.T) {
	words := []subtitle.Word{
		{Text: "hello", StartMs: 0, EndMs: 150},
		{Text: "world", StartMs: 200, EndMs: 350},
		{Text: "again", StartMs: 2000, EndMs: 2220},
	}
	cfg := DefaultConfig("en-US")
	cfg.MinSilenceMs = 700

	got := Detect(words, 2800, cfg)
	var silence *Suggestion
	for i := range got {
		if got[i].Reason == ReasonSilence {
			silence = &got[i]
			break
		}
	}
	if silence == nil {
		t.Fatalf("expected a silence suggestion, got %v", got)
	}
	if silence.StartMs != 350 || silence.EndMs != 2000 {
		t.Errorf("expected silence spanning 350-2000, got %d-%d", silence.StartMs, silence.EndMs)
	}
	if silence.Confidence <= 0 || silence.Confidence > 0.98 {
		t.Errorf("confidence out of range: %f", silence.Confidence)
	}
}

func TestDetectIgnoresShortGaps(t *testing.T) {
	words := []subtitle.Word{
		{Text: "a", StartMs: 0, EndMs: 100},
		{Text: "b", StartMs: 500, EndMs: 600},
	}
	cfg := DefaultConfig("en-US")
	cfg.MinSilenceMs = 700
	if got := Detect(words, 1000, cfg); len(got) != 0 {
		t.Errorf("expected no suggestions for 400ms gap, got %v", got)
	}
}

func TestDetectFindsFillerRun(t *testing.T) {
	words := []subtitle.Word{
		{Text: "Um,", StartMs: 0, EndMs: 200},
		{Text: "uh", StartMs: 300, EndMs: 500},
		{Text: "right", StartMs: 600, EndMs: 900},
	}
	cfg := DefaultConfig("en-US")
	cfg.MinFillerDurationMs = 260

	got := Detect(words, 1000, cfg)
	if len(got) != 1 {
		t.Fatalf("expected one filler suggestion, got %v", got)
	}
	s := got[0]
	if s.Reason != ReasonFiller {
		t.Errorf("expected filler reason, got %q", s.Reason)
	}
	if s.StartMs != 0 || s.EndMs != 500 {
		t.Errorf("expected run spanning 0-500, got %d-%d", s.StartMs, s.EndMs)
	}
}

func TestDetectBreaksFillerRunOnLargeGap(t *testing.T) {
	words := []subtitle.Word{
		{Text: "um", StartMs: 0, EndMs: 100},
		{Text: "um", StartMs: 600, EndMs: 700}, // 500ms gap ends the run
	}
	cfg := DefaultConfig("en-US")
	cfg.MinFillerDurationMs = 90
	got := Detect(words, 1000, cfg)
	for _, s := range got {
		if s.Reason == ReasonFiller && s.EndMs-s.StartMs > 200 {
			t.Errorf("run should have been split at the gap: %v", s)
		}
	}
}

func TestDetectChineseFillers(t *testing.T) {
	words := []subtitle.Word{
		{Text: "嗯", StartMs: 0, EndMs: 250},
		{Text: "那个", StartMs: 300, EndMs: 600},
		{Text: "好", StartMs: 800, EndMs: 1000},
	}
	got := Detect(words, 1200, DefaultConfig("zh-CN"))
	if len(got) != 1 || got[0].Reason != ReasonFiller {
		t.Fatalf("expected one Chinese filler run, got %v", got)
	}
}

func TestNormalizeSuggestionsMergesAndReissuesIDs(t *testing.T) {
	in := []Suggestion{
		{StartMs: 100, EndMs: 400, Reason: ReasonFiller, Confidence: 0.7, Label: "filler"},
		{StartMs: 390, EndMs: 600, Reason: ReasonSilence, Confidence: 0.6, Label: "silence"},
		{StartMs: 900, EndMs: 1200, Reason: ReasonSilence, Confidence: 0.8, Label: "silence"},
	}
	got := NormalizeSuggestions(in, 2000)
	if len(got) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(got))
	}
	first := got[0]
	if first.StartMs != 100 || first.EndMs != 600 {
		t.Errorf("expected merged span 100-600, got %d-%d", first.StartMs, first.EndMs)
	}
	if first.Reason != ReasonFiller {
		t.Errorf("higher-confidence reason should win, got %q", first.Reason)
	}
	if first.Confidence != 0.7 {
		t.Errorf("expected max confidence 0.7, got %f", first.Confidence)
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("expected sequential ids, got %d and %d", got[0].ID, got[1].ID)
	}
}

func TestNormalizeSuggestionsTieFavorsEarlier(t *testing.T) {
	in := []Suggestion{
		{StartMs: 0, EndMs: 200, Reason: ReasonFiller, Confidence: 0.5, Label: "first"},
		{StartMs: 210, EndMs: 400, Reason: ReasonSilence, Confidence: 0.5, Label: "second"},
	}
	got := NormalizeSuggestions(in, 1000)
	if len(got) != 1 {
		t.Fatalf("expected merge within 40ms tolerance, got %v", got)
	}
	if got[0].Reason != ReasonFiller || got[0].Label != "first" {
		t.Errorf("equal confidence must keep the earlier reason/label, got %v", got[0])
	}
}

func TestNormalizeSuggestionsClampsAndDrops(t *testing.T) {
	in := []Suggestion{
		{StartMs: -200, EndMs: 300, Reason: ReasonSilence, Confidence: 0.6},
		{StartMs: 500, EndMs: 500, Reason: ReasonSilence, Confidence: 0.6}, // empty
		{StartMs: 1800, EndMs: 2600, Reason: ReasonSilence, Confidence: 0.6},
	}
	got := NormalizeSuggestions(in, 2000)
	if len(got) != 2 {
		t.Fatalf("expected 2 surviving suggestions, got %v", got)
	}
	if got[0].StartMs != 0 {
		t.Errorf("expected start clamped to 0, got %d", got[0].StartMs)
	}
	if got[1].EndMs != 2000 {
		t.Errorf("expected end clamped to duration, got %d", got[1].EndMs)
	}
}
