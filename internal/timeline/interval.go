package timeline

import (
	"math"
	"sort"
)

// Interval is a half-open-ish time span in milliseconds with End > Start.
type Interval struct {
	StartMs int64
	EndMs   int64
}

func (iv Interval) DurationMs() int64 {
	return iv.EndMs - iv.StartMs
}

// Normalize rounds a pair of timestamps to integer milliseconds and clamps
// them into [0, durationMs]. The second return value is false when the
// clamped pair collapses (end <= start) and the interval should be dropped.
func Normalize(startMs, endMs float64, durationMs int64) (Interval, bool) {
	if math.IsNaN(startMs) || math.IsNaN(endMs) ||
		math.IsInf(startMs, 0) || math.IsInf(endMs, 0) {
		return Interval{}, false
	}

	s := int64(math.Round(startMs))
	e := int64(math.Round(endMs))

	s = clampMs(s, durationMs)
	e = clampMs(e, durationMs)

	if e <= s {
		return Interval{}, false
	}
	return Interval{StartMs: s, EndMs: e}, true
}

func clampMs(v, durationMs int64) int64 {
	if v < 0 {
		return 0
	}
	if durationMs > 0 && v > durationMs {
		return durationMs
	}
	return v
}

// Merge collapses overlapping or near-adjacent intervals. Two intervals are
// merged when the later one starts within gapToleranceMs of the earlier one's
// end. The input is not mutated; the result is sorted by start and idempotent
// under repeated merging with the same tolerance.
func Merge(list []Interval, gapToleranceMs int64) []Interval {
	if len(list) == 0 {
		return nil
	}

	sorted := make([]Interval, len(list))
	copy(sorted, list)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StartMs != sorted[j].StartMs {
			return sorted[i].StartMs < sorted[j].StartMs
		}
		return sorted[i].EndMs < sorted[j].EndMs
	})

	out := make([]Interval, 0, len(sorted))
	current := sorted[0]
	for _, iv := range sorted[1:] {
		if iv.StartMs <= current.EndMs+gapToleranceMs {
			if iv.EndMs > current.EndMs {
				current.EndMs = iv.EndMs
			}
			continue
		}
		out = append(out, current)
		current = iv
	}
	out = append(out, current)
	return out
}
