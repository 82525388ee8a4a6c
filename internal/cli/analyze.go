package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blueberrycongee/cursorlens/internal/analysis"
	"github.com/blueberrycongee/cursorlens/internal/media"
	"github.com/blueberrycongee/cursorlens/internal/polish"
	"github.com/blueberrycongee/cursorlens/internal/transcribe"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [video_file]",
	Short: "Analyze a screen recording",
	Long: `Analyze a screen recording: transcribe the audio, build subtitle cues,
and suggest rough-cut trims for silences and filler words. The result is
written as a sidecar file next to the video (<name>.analysis.json).

The native backend runs the platform transcription helper; the openai and
gemini backends upload the exported audio track to a cloud API.

Examples:
  cursorlens analyze recording.mov
  cursorlens analyze recording.mov --locale zh-CN --width 1280
  cursorlens analyze recording.mov --backend openai --polish`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().
		String("backend", "native", "Transcription backend (native, openai, gemini)")
	analyzeCmd.Flags().
		Int64("duration-ms", 0, "Recording duration in milliseconds (0 = probe the file)")
	analyzeCmd.Flags().
		Int("width", 1920, "Rendering width used for the subtitle character budget")
	analyzeCmd.Flags().
		Duration("timeout", 5*time.Minute, "Wall-clock transcription timeout")
	analyzeCmd.Flags().
		String("model", "", "Model override for cloud backends")
	analyzeCmd.Flags().
		Bool("polish", false, "Refine cue text with Claude after analysis")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	ctx := context.Background()

	backendName, _ := cmd.Flags().GetString("backend")
	durationMs, _ := cmd.Flags().GetInt64("duration-ms")
	width, _ := cmd.Flags().GetInt("width")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	model, _ := cmd.Flags().GetString("model")
	doPolish, _ := cmd.Flags().GetBool("polish")
	locale, _ := cmd.Flags().GetString("locale")

	backend, err := newBackend(ctx, backendName, timeout, model)
	if err != nil {
		return err
	}

	pipeline := analysis.NewPipeline(backend, media.NewProcessor(), logger)
	jobID, err := pipeline.Start(ctx, analysis.Input{
		VideoPath:  videoPath,
		Locale:     locale,
		DurationMs: durationMs,
		VideoWidth: width,
	})
	if err != nil {
		return err
	}

	logger.Infow("analysis started",
		"job", jobID,
		"video", videoPath,
		"backend", backendName,
	)

	job := waitForJob(pipeline, jobID)
	if job.Status != analysis.StatusCompleted {
		return fmt.Errorf("analysis failed: %s", job.Error)
	}
	result := pipeline.Result(jobID)

	if doPolish {
		if err := polishCues(ctx, locale, videoPath, result); err != nil {
			logger.Errorw("cue polish failed, keeping original cues", "error", err)
		}
	}

	fmt.Printf("Analysis complete: %s\n", analysis.SidecarPath(videoPath))
	fmt.Printf("  Cues: %d\n", len(result.SubtitleCues))
	fmt.Printf("  Rough cuts: %d\n", len(result.RoughCutSuggestions))
	return nil
}

func newBackend(ctx context.Context, name string, timeout time.Duration, model string) (transcribe.Backend, error) {
	opts := transcribe.Options{Timeout: timeout, Model: model}
	switch transcribe.Provider(name) {
	case transcribe.ProviderNative:
		return transcribe.Factory(ctx, transcribe.ProviderNative, opts)
	case transcribe.ProviderOpenAI:
		opts.APIKey = os.Getenv("OPENAI_API_KEY")
		if opts.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai backend")
		}
		return transcribe.Factory(ctx, transcribe.ProviderOpenAI, opts)
	case transcribe.ProviderGemini:
		opts.APIKey = os.Getenv("GEMINI_API_KEY")
		if opts.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini backend")
		}
		return transcribe.Factory(ctx, transcribe.ProviderGemini, opts)
	default:
		return nil, fmt.Errorf("unsupported backend %q: use native, openai, or gemini", name)
	}
}

func waitForJob(pipeline *analysis.Pipeline, jobID string) *analysis.Job {
	for {
		job := pipeline.Status(jobID)
		if job.Status == analysis.StatusCompleted || job.Status == analysis.StatusFailed {
			return job
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// polishCues rewrites cue text with Claude and refreshes the sidecar.
func polishCues(ctx context.Context, locale, videoPath string, result *analysis.Result) error {
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required for --polish")
	}

	polisher, err := polish.NewAnthropicPolisher(apiKey, polish.Options{Locale: locale})
	if err != nil {
		return err
	}
	cues, err := polisher.Polish(ctx, result.SubtitleCues)
	if err != nil {
		return err
	}
	result.SubtitleCues = cues
	_, err = analysis.WriteSidecar(videoPath, result)
	return err
}
