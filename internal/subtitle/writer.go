package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format is a supported subtitle file format.
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

func ExtensionForFormat(f Format) string {
	return "." + string(f)
}

// WriteFile renders cues in the given format and writes them to path.
func WriteFile(cues []Cue, format Format, path string) error {
	var content string
	switch format {
	case FormatSRT:
		content = renderSRT(cues)
	case FormatVTT:
		content = renderVTT(cues)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func renderSRT(cues []Cue) string {
	var sb strings.Builder
	for i, cue := range cues {
		// index (1-based)
		sb.WriteString(fmt.Sprintf("%d\n", i+1))

		// timestamps: 00:00:00,000 --> 00:00:00,000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatClock(cue.StartMs, ","),
			formatClock(cue.EndMs, ",")))

		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func renderVTT(cues []Cue) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")

	for i, cue := range cues {
		sb.WriteString(fmt.Sprintf("%d\n", i+1))

		// timestamps: 00:00:00.000 --> 00:00:00.000
		sb.WriteString(fmt.Sprintf("%s --> %s\n",
			formatClock(cue.StartMs, "."),
			formatClock(cue.EndMs, ".")))

		sb.WriteString(cue.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func formatClock(ms int64, msSep string) string {
	if ms < 0 {
		ms = 0
	}
	h := ms / 3600000
	m := (ms % 3600000) / 60000
	s := (ms % 60000) / 1000
	frac := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d%s%03d", h, m, s, msSep, frac)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}
