package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blueberrycongee/cursorlens/internal/analysis"
	"github.com/blueberrycongee/cursorlens/internal/subtitle"
)

var exportCmd = &cobra.Command{
	Use:   "export [video_file]",
	Short: "Export subtitles from a stored analysis sidecar",
	Long: `Export subtitle cues from the analysis sidecar written by a previous
analyze run. The sidecar lives next to the video as <base>.analysis.json.

Examples:
  cursorlens export recording.mp4
  cursorlens export recording.mp4 --format vtt -o recording.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().
		StringP("format", "f", "srt", "Subtitle format: srt or vtt")
}

func runExport(cmd *cobra.Command, args []string) error {
	videoPath := args[0]
	formatName, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")

	var format subtitle.Format
	switch strings.ToLower(formatName) {
	case "srt":
		format = subtitle.FormatSRT
	case "vtt":
		format = subtitle.FormatVTT
	default:
		return fmt.Errorf("unsupported format %q (use srt or vtt)", formatName)
	}

	sidecarPath := analysis.SidecarPath(videoPath)
	result, err := analysis.ReadSidecar(videoPath)
	if err != nil {
		return fmt.Errorf("read sidecar: %w", err)
	}
	if result == nil {
		return fmt.Errorf("no analysis found at %s (run 'cursorlens analyze' first)", sidecarPath)
	}
	if len(result.SubtitleCues) == 0 {
		return fmt.Errorf("analysis at %s has no subtitle cues", sidecarPath)
	}

	if outputPath == "" {
		outputPath = strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + subtitle.ExtensionForFormat(format)
	}
	if err := subtitle.WriteFile(result.SubtitleCues, format, outputPath); err != nil {
		return err
	}
	logger.Infow("subtitles exported",
		"sidecar", sidecarPath,
		"format", format,
		"cues", len(result.SubtitleCues),
	)
	fmt.Printf("Subtitles written: %s (%d cues)\n", outputPath, len(result.SubtitleCues))
	return nil
}
