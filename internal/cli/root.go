package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/blueberrycongee/cursorlens/internal/logging"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cursorlens",
	Short: "Screen-recording analysis engine for the editor",
	Long: `CursorLens analyzes screen recordings for a video editor.

It transcribes speech, segments it into subtitle cues, suggests rough-cut
trims for silences and filler words, and derives auto-zoom regions from
cursor telemetry.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; flags and real env vars win
		_ = godotenv.Load()
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if logger != nil {
		logger.Sync()
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("locale", "l", "en-US", "Speech locale tag (e.g., en-US, zh-CN)")
}
