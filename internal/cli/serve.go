package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blueberrycongee/cursorlens/internal/analysis"
	"github.com/blueberrycongee/cursorlens/internal/media"
	"github.com/blueberrycongee/cursorlens/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the analysis HTTP server",
	Long: `Run an HTTP server exposing the analysis pipeline: submit recordings,
poll job status, fetch results, and derive zoom regions over JSON.

Examples:
  cursorlens serve
  cursorlens serve --addr :9090 --backend openai`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().
		String("addr", ":8080", "Listen address")
	serveCmd.Flags().
		StringP("backend", "b", "native", "Transcription backend: native, openai, or gemini")
	serveCmd.Flags().
		Duration("timeout", 5*time.Minute, "Per-transcription timeout")
	serveCmd.Flags().
		StringP("model", "m", "", "Model override for cloud backends")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	backendName, _ := cmd.Flags().GetString("backend")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	model, _ := cmd.Flags().GetString("model")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := newBackend(ctx, backendName, timeout, model)
	if err != nil {
		return err
	}
	pipeline := analysis.NewPipeline(backend, media.NewProcessor(), logger)

	srv := server.New(server.Config{Addr: addr}, pipeline, logger)
	logger.Infow("server starting", "addr", addr, "backend", backendName)
	return srv.Run(ctx)
}
