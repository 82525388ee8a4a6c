package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blueberrycongee/cursorlens/internal/autozoom"
)

var zoomCmd = &cobra.Command{
	Use:   "zoom [cursor_track.json]",
	Short: "Derive auto-zoom regions from a cursor track",
	Long: `Derive auto-zoom regions from cursor telemetry recorded alongside a
screen capture. Clicks, text selections, and fast cursor movement become
ranked zoom drafts with a target depth and focal point.

Examples:
  cursorlens zoom recording.cursor.json --duration-ms 93000
  cursorlens zoom recording.cursor.json --duration-ms 93000 --max-regions 16 -o drafts.json`,
	Args: cobra.ExactArgs(1),
	RunE: runZoom,
}

func init() {
	rootCmd.AddCommand(zoomCmd)

	zoomCmd.Flags().
		Int64("duration-ms", 0, "Recording duration in milliseconds (required)")
	zoomCmd.Flags().
		Int("max-regions", 0, "Cap on emitted zoom regions (default 64)")
}

func runZoom(cmd *cobra.Command, args []string) error {
	trackPath := args[0]
	durationMs, _ := cmd.Flags().GetInt64("duration-ms")
	maxRegions, _ := cmd.Flags().GetInt("max-regions")
	outputPath, _ := cmd.Flags().GetString("output")

	if durationMs <= 0 {
		return fmt.Errorf("--duration-ms is required and must be positive")
	}

	track, err := autozoom.LoadTrack(trackPath)
	if err != nil {
		return err
	}

	drafts := autozoom.GenerateDrafts(track, autozoom.Options{
		DurationMs: durationMs,
		MaxRegions: maxRegions,
	})
	logger.Infow("zoom drafts generated",
		"track", trackPath,
		"samples", len(track.Samples),
		"events", len(track.Events),
		"drafts", len(drafts),
	)

	b, err := json.MarshalIndent(drafts, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal drafts: %w", err)
	}
	if outputPath == "" {
		fmt.Println(string(b))
		return nil
	}
	if err := os.WriteFile(outputPath, b, 0644); err != nil {
		return fmt.Errorf("write drafts: %w", err)
	}
	fmt.Printf("Zoom drafts written: %s (%d regions)\n", outputPath, len(drafts))
	return nil
}
