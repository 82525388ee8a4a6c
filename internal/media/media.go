// Package media wraps the ffmpeg operations the analysis pipeline needs:
// exporting a recording's audio track for cloud transcription and probing
// the recording duration.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/blueberrycongee/cursorlens/internal/ffmpeg"
)

// ExportAudioOptions holds options for the exported audio track.
type ExportAudioOptions struct {
	Format     string // wav or mp3
	SampleRate int
	Channels   int
	Bitrate    string // lossy formats only
}

// DefaultExportAudioOptions returns the settings cloud transcribers expect.
func DefaultExportAudioOptions() ExportAudioOptions {
	return ExportAudioOptions{
		Format:     "mp3",
		SampleRate: 16000,
		Channels:   1,
		Bitrate:    "64k",
	}
}

// Exporter is the subset of media operations the transcription backends use.
type Exporter interface {
	ExportAudio(ctx context.Context, videoPath, outputPath string, opts ExportAudioOptions) error
}

// Prober reports a recording's duration.
type Prober interface {
	ProbeDurationMs(path string) (int64, error)
}

// Processor implements Exporter and Prober with ffmpeg.
type Processor struct{}

func NewProcessor() *Processor {
	return &Processor{}
}

// ExportAudio strips the video stream and writes a compressed audio file.
func (p *Processor) ExportAudio(
	ctx context.Context,
	videoPath, outputPath string,
	opts ExportAudioOptions,
) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	kwargs := ffmpeg.KwArgs{
		"vn": "",              // No video
		"ar": opts.SampleRate, // Sample rate
		"ac": opts.Channels,   // Channels
		"y":  "",              // Overwrite output
	}

	switch opts.Format {
	case "mp3":
		kwargs["acodec"] = "libmp3lame"
		if opts.Bitrate != "" {
			kwargs["b:a"] = opts.Bitrate
		}
	case "wav":
		kwargs["acodec"] = "pcm_s16le"
	default:
		kwargs["acodec"] = "pcm_s16le"
	}

	err := ffmpeg.Input(videoPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg extraction failed: %w", err)
	}
	return nil
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// ProbeDurationMs returns the media duration in integer milliseconds.
func (p *Processor) ProbeDurationMs(path string) (int64, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return 0, fmt.Errorf("file not found: %s", path)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return 0, err
	}

	cmd := exec.Command(ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe failed: %w", err)
	}

	var probe ffprobeOutput
	if err := json.Unmarshal(out.Bytes(), &probe); err != nil {
		return 0, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	var seconds float64
	if _, err := fmt.Sscanf(probe.Format.Duration, "%f", &seconds); err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}

	return int64(math.Round(seconds * 1000)), nil
}
