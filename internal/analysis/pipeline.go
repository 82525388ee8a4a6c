package analysis

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/blueberrycongee/cursorlens/internal/logging"
	"github.com/blueberrycongee/cursorlens/internal/media"
	"github.com/blueberrycongee/cursorlens/internal/roughcut"
	"github.com/blueberrycongee/cursorlens/internal/subtitle"
	"github.com/blueberrycongee/cursorlens/internal/transcribe"
)

// Input describes one analysis request.
type Input struct {
	VideoPath  string
	Locale     string
	DurationMs int64 // 0 means probe the file
	VideoWidth int   // rendering width for the subtitle character budget
}

// Pipeline composes transcription and the analysis engines into tracked
// jobs. The transcription backend is injected so tests can substitute a
// fake.
type Pipeline struct {
	queue   *Queue
	backend transcribe.Backend
	prober  media.Prober
	logger  *logging.Logger
}

func NewPipeline(backend transcribe.Backend, prober media.Prober, logger *logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		queue:   NewQueue(),
		backend: backend,
		prober:  prober,
		logger:  logger,
	}
}

// Start validates the input and enqueues one analysis job. Validation
// failures are returned synchronously; no job is created for them. A second
// Start with the same input creates an independent job with a fresh id.
func (p *Pipeline) Start(ctx context.Context, in Input) (string, error) {
	if strings.TrimSpace(in.VideoPath) == "" {
		return "", fmt.Errorf("video path is empty")
	}
	if _, err := os.Stat(in.VideoPath); err != nil {
		return "", fmt.Errorf("stat video: %w", err)
	}
	if strings.TrimSpace(in.Locale) == "" {
		return "", fmt.Errorf("locale is empty")
	}
	if in.DurationMs < 0 {
		return "", fmt.Errorf("duration must not be negative")
	}

	// The job outlives the caller: an HTTP start request's context dies as
	// soon as the response is written, so the work must not inherit its
	// cancellation.
	jobCtx := context.WithoutCancel(ctx)
	id := p.queue.Enqueue(func() (*Result, error) {
		return p.analyze(jobCtx, in)
	})
	p.logger.Infow("analysis job enqueued",
		"job", id,
		"video", in.VideoPath,
		"locale", in.Locale,
	)
	return id, nil
}

// Status returns a job snapshot, nil for unknown ids.
func (p *Pipeline) Status(id string) *Job {
	return p.queue.Status(id)
}

// Result returns a completed job's result, nil otherwise.
func (p *Pipeline) Result(id string) *Result {
	return p.queue.ResultFor(id)
}

func (p *Pipeline) analyze(ctx context.Context, in Input) (*Result, error) {
	durationMs := in.DurationMs
	if durationMs == 0 && p.prober != nil {
		probed, err := p.prober.ProbeDurationMs(in.VideoPath)
		if err != nil {
			p.logger.Debugw("duration probe failed, continuing unclamped",
				"video", in.VideoPath,
				"error", err,
			)
		} else {
			durationMs = probed
		}
	}

	transcript, err := p.backend.Transcribe(ctx, in.VideoPath, in.Locale)
	if err != nil {
		return nil, fmt.Errorf("%s", failureMessage(err))
	}
	if len(transcript.Words) == 0 {
		// an empty transcript is a failed analysis, not an empty success
		return nil, fmt.Errorf("%s", transcribe.CodeNoSpeechDetected.Message())
	}

	segCfg := subtitle.DefaultSegmenterConfig()
	if in.VideoWidth > 0 {
		segCfg.MaxCharsPerLine = subtitle.EstimateMaxCharsPerLine(
			in.VideoWidth, subtitle.DefaultSubtitleWidthRatio)
	}
	cues := subtitle.Segment(transcript.Words, segCfg)

	suggestions := roughcut.Detect(
		transcript.Words, durationMs, roughcut.DefaultConfig(in.Locale))

	result := &Result{
		Transcript:          *transcript,
		SubtitleCues:        cues,
		RoughCutSuggestions: suggestions,
	}

	sidecarPath, err := WriteSidecar(in.VideoPath, result)
	if err != nil {
		return nil, fmt.Errorf("persist analysis: %v", err)
	}

	p.logger.Infow("analysis complete",
		"video", in.VideoPath,
		"cues", len(cues),
		"suggestions", len(suggestions),
		"sidecar", sidecarPath,
	)
	return result, nil
}

// failureMessage maps a transcription error to the user-facing string stored
// on the failed job.
func failureMessage(err error) string {
	if te, ok := transcribe.AsError(err); ok {
		return te.Error()
	}
	return transcribe.FailureCode("").Message()
}
