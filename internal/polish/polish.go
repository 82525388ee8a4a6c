// Package polish refines machine-generated subtitle cues with a language
// model: fixing recognition artifacts, casing, and punctuation without
// changing timing. Polished cues are marked with the agent source.
package polish

import (
	"context"

	"github.com/blueberrycongee/cursorlens/internal/subtitle"
)

// Polisher rewrites cue text. Implementations must return the same number of
// cues with timing untouched; cues they cannot improve come back unchanged.
type Polisher interface {
	Polish(ctx context.Context, cues []subtitle.Cue) ([]subtitle.Cue, error)
}

// Options configures polishing.
type Options struct {
	Model     string
	BatchSize int
	Locale    string
}

const DefaultBatchSize = 50
