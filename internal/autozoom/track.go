package autozoom

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// LoadTrack reads a cursor track recorded next to a screen capture. The file
// is a JSON object with "samples" and optional "events" arrays. Samples are
// returned sorted by time; entries with negative timestamps are dropped.
func LoadTrack(path string) (*Track, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cursor track: %w", err)
	}

	var track Track
	if err := json.Unmarshal(b, &track); err != nil {
		return nil, fmt.Errorf("parse cursor track: %w", err)
	}

	track.Samples = normalizedSamples(track.Samples)
	track.Events = normalizedEvents(track.Events)
	return &track, nil
}

// normalizedSamples drops samples with negative timestamps and returns the
// rest sorted ascending. The input is not modified.
func normalizedSamples(in []Sample) []Sample {
	out := make([]Sample, 0, len(in))
	for _, s := range in {
		if s.TimeMs < 0 {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TimeMs < out[j].TimeMs
	})
	return out
}

// normalizedEvents drops malformed or unknown events and returns the rest
// sorted ascending by start. The input is not modified.
func normalizedEvents(in []TrackEvent) []TrackEvent {
	out := make([]TrackEvent, 0, len(in))
	for _, ev := range in {
		if ev.StartMs < 0 || ev.EndMs < ev.StartMs {
			continue
		}
		if ev.Type != EventClick && ev.Type != EventSelection {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartMs < out[j].StartMs
	})
	return out
}
