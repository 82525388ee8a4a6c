// Package analysis runs one end-to-end analysis of a screen recording:
// transcription, subtitle segmentation, and rough-cut detection, tracked as
// an asynchronous job and persisted as a sidecar file next to the video.
package analysis

import (
	"github.com/blueberrycongee/cursorlens/internal/roughcut"
	"github.com/blueberrycongee/cursorlens/internal/subtitle"
	"github.com/blueberrycongee/cursorlens/internal/transcribe"
)

// Result is the unit persisted to the sidecar and served to callers.
type Result struct {
	Transcript          transcribe.Result     `json:"transcript"`
	SubtitleCues        []subtitle.Cue        `json:"subtitleCues"`
	RoughCutSuggestions []roughcut.Suggestion `json:"roughCutSuggestions"`
}
