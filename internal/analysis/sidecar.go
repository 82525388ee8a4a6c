package analysis

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/blueberrycongee/cursorlens/internal/roughcut"
	"github.com/blueberrycongee/cursorlens/internal/subtitle"
)

const sidecarVersion = 1

// sidecarEnvelope is the on-disk shape: {"version":1,"analysis":{...}}.
type sidecarEnvelope struct {
	Version  int    `json:"version"`
	Analysis Result `json:"analysis"`
}

// SidecarPath returns the sidecar location for a video:
// <dir>/<base-name>.analysis.json.
func SidecarPath(videoPath string) string {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	return base + ".analysis.json"
}

// WriteSidecar persists a result next to its source video. Nil cue and
// suggestion slices are written as empty arrays so ReadSidecar accepts what
// WriteSidecar produced.
func WriteSidecar(videoPath string, result *Result) (string, error) {
	path := SidecarPath(videoPath)
	analysis := *result
	if analysis.SubtitleCues == nil {
		analysis.SubtitleCues = []subtitle.Cue{}
	}
	if analysis.RoughCutSuggestions == nil {
		analysis.RoughCutSuggestions = []roughcut.Suggestion{}
	}
	b, err := json.MarshalIndent(sidecarEnvelope{
		Version:  sidecarVersion,
		Analysis: analysis,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal sidecar: %w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return "", fmt.Errorf("write sidecar: %w", err)
	}
	return path, nil
}

// ReadSidecar loads and validates a sidecar. Missing files, unreadable JSON,
// or an unexpected shape all yield (nil, nil): the editor treats a broken
// sidecar the same as no sidecar.
func ReadSidecar(videoPath string) (*Result, error) {
	b, err := os.ReadFile(SidecarPath(videoPath))
	if err != nil {
		return nil, nil
	}
	if !gjson.ValidBytes(b) {
		return nil, nil
	}

	root := gjson.ParseBytes(b)
	if root.Get("version").Int() != sidecarVersion {
		return nil, nil
	}
	analysis := root.Get("analysis")
	if !analysis.Get("transcript").Exists() ||
		!analysis.Get("subtitleCues").IsArray() ||
		!analysis.Get("roughCutSuggestions").IsArray() {
		return nil, nil
	}

	var envelope sidecarEnvelope
	if err := json.Unmarshal(b, &envelope); err != nil {
		return nil, nil
	}
	return &envelope.Analysis, nil
}
