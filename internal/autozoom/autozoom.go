// Package autozoom derives virtual-camera zoom regions from cursor telemetry
// recorded during a screen capture. It consumes raw position samples and,
// when available, higher-fidelity click/selection events, and emits ranked
// draft regions with a target depth and focal point.
package autozoom

import (
	"math"
	"sort"
)

// Sample is one raw cursor telemetry point. Coordinates are normalized to
// the capture bounds.
type Sample struct {
	TimeMs  int64   `json:"timeMs"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Click   bool    `json:"click,omitempty"`
	Visible *bool   `json:"visible,omitempty"`
}

func (s Sample) visible() bool {
	return s.Visible == nil || *s.Visible
}

// EventType tags a higher-fidelity interaction event.
type EventType string

const (
	EventClick     EventType = "click"
	EventSelection EventType = "selection"
)

// Point is a normalized coordinate pair.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds is an optional normalized rectangle around an interaction.
type Bounds struct {
	MinX   float64 `json:"minX"`
	MinY   float64 `json:"minY"`
	MaxX   float64 `json:"maxX"`
	MaxY   float64 `json:"maxY"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// TrackEvent is one click or selection recorded alongside raw samples.
type TrackEvent struct {
	Type    EventType `json:"type"`
	StartMs int64     `json:"startMs"`
	EndMs   int64     `json:"endMs"`
	Point   Point     `json:"point"`
	Bounds  *Bounds   `json:"bounds,omitempty"`
}

// Track is a complete cursor recording.
type Track struct {
	Samples []Sample     `json:"samples"`
	Events  []TrackEvent `json:"events,omitempty"`
}

// Reason tells which signal produced a draft.
type Reason string

const (
	ReasonClick     Reason = "click"
	ReasonSelection Reason = "selection"
	ReasonMovement  Reason = "movement"
)

// Draft is one suggested zoom region.
type Draft struct {
	StartMs int64  `json:"startMs"`
	EndMs   int64  `json:"endMs"`
	Depth   int    `json:"depth"` // zoom multiplier tier, 1..6
	Focus   Point  `json:"focus"`
	Reason  Reason `json:"reason"`
}

// Options configures draft generation.
type Options struct {
	DurationMs int64
	MaxRegions int
}

const defaultMaxRegions = 64

// Tuning constants for candidate generation and merging.
const (
	clickPreRollMs = 220
	clickHoldMs    = 1400
	clickDepth     = 3
	clickWeight    = 3.2
	clickDedupeMs  = 260

	selectionPreRollMs  = 120
	selectionBaseHoldMs = 1550
	selectionHoldCapMs  = 2200
	selectionDepth      = 3
	selectionBaseWeight = 3.8
	selectionMinSpan    = 0.008
	selectionMinDurMs   = 120

	movementPreRollMs   = 120
	movementHoldMs      = 920
	movementDepth       = 2
	movementSpacingMs   = 680
	movementMinDeltaMs  = 6
	movementMaxDeltaMs  = 320
	movementMinDistance = 0.0008
	speedFloor          = 0.42
	speedPercentile     = 0.86

	anchorExclusionMs = 360
	mergeGapMs        = 140
	minDraftMs        = 420
)

type candidate struct {
	atMs      int64
	preRollMs int64
	holdMs    int64
	depth     int
	weight    float64
	focus     Point
	reason    Reason
}

// GenerateDrafts derives zoom regions from a cursor track. The track is
// normalized first (malformed entries dropped, both lists sorted by time),
// so callers may pass telemetry as recorded. Degenerate input (nil track,
// fewer than two samples, or a recording shorter than 200ms) yields an
// empty result rather than an error.
func GenerateDrafts(track *Track, opts Options) []Draft {
	if track == nil || opts.DurationMs < 200 {
		return []Draft{}
	}
	samples := normalizedSamples(track.Samples)
	if len(samples) < 2 {
		return []Draft{}
	}
	events := normalizedEvents(track.Events)
	maxRegions := opts.MaxRegions
	if maxRegions <= 0 {
		maxRegions = defaultMaxRegions
	}

	cands := eventCandidates(events)
	haveEventClicks := false
	for _, c := range cands {
		if c.reason == ReasonClick {
			haveEventClicks = true
			break
		}
	}

	anchors := anchorTimes(cands)
	if !haveEventClicks {
		cands = append(cands, inferredClickCandidates(samples, anchors)...)
		anchors = anchorTimes(cands)
	}
	cands = append(cands, movementCandidates(samples, anchors)...)
	if len(cands) == 0 {
		return []Draft{}
	}

	drafts := toDrafts(cands, opts.DurationMs)
	drafts = mergeDrafts(drafts)
	drafts = rankAndLimit(drafts, maxRegions)

	out := make([]Draft, len(drafts))
	for i, d := range drafts {
		out[i] = d.Draft
	}
	return out
}

func eventCandidates(events []TrackEvent) []candidate {
	var out []candidate
	// negative sentinel: the subtraction below must not overflow
	var lastClickMs int64 = -clickDedupeMs

	for _, ev := range events {
		if ev.StartMs < 0 || ev.EndMs < ev.StartMs {
			continue
		}
		switch ev.Type {
		case EventClick:
			if ev.StartMs-lastClickMs < clickDedupeMs {
				continue
			}
			lastClickMs = ev.StartMs
			out = append(out, candidate{
				atMs:      ev.StartMs,
				preRollMs: clickPreRollMs,
				holdMs:    clickHoldMs,
				depth:     clickDepth,
				weight:    clickWeight,
				focus:     ev.Point,
				reason:    ReasonClick,
			})
		case EventSelection:
			span := selectionSpan(ev)
			dur := ev.EndMs - ev.StartMs
			if span < selectionMinSpan && dur < selectionMinDurMs {
				continue
			}
			hold := float64(selectionBaseHoldMs) +
				clampF(float64(dur)*0.9+span*2000, 0, selectionHoldCapMs)
			weight := selectionBaseWeight + math.Min(1.6, span*8)
			out = append(out, candidate{
				atMs:      ev.StartMs,
				preRollMs: selectionPreRollMs,
				holdMs:    int64(hold),
				depth:     selectionDepth,
				weight:    weight,
				focus:     ev.Point,
				reason:    ReasonSelection,
			})
		}
	}
	return out
}

// selectionSpan is the larger normalized extent of the selection rectangle.
func selectionSpan(ev TrackEvent) float64 {
	if ev.Bounds == nil {
		return 0
	}
	w := ev.Bounds.Width
	h := ev.Bounds.Height
	if w <= 0 {
		w = ev.Bounds.MaxX - ev.Bounds.MinX
	}
	if h <= 0 {
		h = ev.Bounds.MaxY - ev.Bounds.MinY
	}
	return math.Max(math.Max(w, 0), math.Max(h, 0))
}

func inferredClickCandidates(samples []Sample, anchors []int64) []candidate {
	var out []candidate
	var lastClickMs int64 = -clickDedupeMs

	for _, s := range samples {
		if !s.Click || s.TimeMs < 0 {
			continue
		}
		if s.TimeMs-lastClickMs < clickDedupeMs {
			continue
		}
		if nearAnchor(anchors, s.TimeMs, anchorExclusionMs) {
			continue
		}
		lastClickMs = s.TimeMs
		out = append(out, candidate{
			atMs:      s.TimeMs,
			preRollMs: clickPreRollMs,
			holdMs:    clickHoldMs,
			depth:     clickDepth,
			weight:    clickWeight,
			focus:     Point{X: s.X, Y: s.Y},
			reason:    ReasonClick,
		})
	}
	return out
}

func movementCandidates(samples []Sample, anchors []int64) []candidate {
	type speedPoint struct {
		atMs  int64
		speed float64
		focus Point
	}

	var points []speedPoint
	speeds := make([]float64, 0, len(samples))

	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		if !prev.visible() || !cur.visible() {
			continue
		}
		dt := cur.TimeMs - prev.TimeMs
		if dt < movementMinDeltaMs || dt > movementMaxDeltaMs {
			continue
		}
		dist := math.Hypot(cur.X-prev.X, cur.Y-prev.Y)
		if dist < movementMinDistance {
			continue
		}
		speed := dist / float64(dt) * 1000
		speeds = append(speeds, speed)
		points = append(points, speedPoint{
			atMs:  cur.TimeMs,
			speed: speed,
			focus: Point{X: cur.X, Y: cur.Y},
		})
	}
	if len(points) == 0 {
		return nil
	}

	threshold := math.Max(speedFloor, percentile(speeds, speedPercentile))

	var out []candidate
	var lastMs int64 = -movementSpacingMs
	for _, p := range points {
		if p.speed <= threshold {
			continue
		}
		if p.atMs-lastMs < movementSpacingMs {
			continue
		}
		if nearAnchor(anchors, p.atMs, anchorExclusionMs) {
			continue
		}
		lastMs = p.atMs
		out = append(out, candidate{
			atMs:      p.atMs,
			preRollMs: movementPreRollMs,
			holdMs:    movementHoldMs,
			depth:     movementDepth,
			weight:    p.speed,
			focus:     p.focus,
			reason:    ReasonMovement,
		})
	}
	return out
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func anchorTimes(cands []candidate) []int64 {
	out := make([]int64, 0, len(cands))
	for _, c := range cands {
		if c.reason == ReasonClick || c.reason == ReasonSelection {
			out = append(out, c.atMs)
		}
	}
	return out
}

func nearAnchor(anchors []int64, atMs, withinMs int64) bool {
	for _, a := range anchors {
		if abs64(atMs-a) <= withinMs {
			return true
		}
	}
	return false
}

type rankedDraft struct {
	Draft
	weight float64
}

func toDrafts(cands []candidate, durationMs int64) []rankedDraft {
	out := make([]rankedDraft, 0, len(cands))
	for _, c := range cands {
		start := c.atMs - c.preRollMs
		end := c.atMs + c.holdMs

		// enforce the duration floor by expanding symmetrically
		if end-start < minDraftMs {
			missing := minDraftMs - (end - start)
			start -= missing / 2
			end += missing - missing/2
		}
		if start < 0 {
			start = 0
		}
		if end > durationMs {
			end = durationMs
		}
		if end <= start {
			continue
		}
		out = append(out, rankedDraft{
			Draft: Draft{
				StartMs: start,
				EndMs:   end,
				Depth:   c.depth,
				Focus:   c.focus,
				Reason:  c.reason,
			},
			weight: c.weight,
		})
	}
	return out
}

func reasonPriority(r Reason) int {
	switch r {
	case ReasonSelection:
		return 3
	case ReasonClick:
		return 2
	default:
		return 1
	}
}

func reasonBonus(r Reason) float64 {
	switch r {
	case ReasonSelection:
		return 2.6
	case ReasonClick:
		return 2
	default:
		return 0
	}
}

func mergeDrafts(drafts []rankedDraft) []rankedDraft {
	if len(drafts) == 0 {
		return nil
	}
	sort.SliceStable(drafts, func(i, j int) bool {
		return drafts[i].StartMs < drafts[j].StartMs
	})

	out := make([]rankedDraft, 0, len(drafts))
	current := drafts[0]
	for _, d := range drafts[1:] {
		if d.StartMs > current.EndMs+mergeGapMs {
			out = append(out, current)
			current = d
			continue
		}
		if d.EndMs > current.EndMs {
			current.EndMs = d.EndMs
		}
		// the higher-priority reason keeps its focus, depth, and reason;
		// equal priority falls back to the heavier candidate
		dp, cp := reasonPriority(d.Reason), reasonPriority(current.Reason)
		if dp > cp || (dp == cp && d.weight > current.weight) {
			current.Focus = d.Focus
			current.Depth = d.Depth
			current.Reason = d.Reason
		}
		if d.weight > current.weight {
			current.weight = d.weight
		}
	}
	out = append(out, current)
	return out
}

func rankAndLimit(drafts []rankedDraft, maxRegions int) []rankedDraft {
	if len(drafts) <= maxRegions {
		return drafts
	}
	scored := make([]rankedDraft, len(drafts))
	copy(scored, drafts)
	sort.SliceStable(scored, func(i, j int) bool {
		si := scored[i].weight + reasonBonus(scored[i].Reason)
		sj := scored[j].weight + reasonBonus(scored[j].Reason)
		return si > sj
	})
	scored = scored[:maxRegions]
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].StartMs < scored[j].StartMs
	})
	return scored
}

func clampF(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
