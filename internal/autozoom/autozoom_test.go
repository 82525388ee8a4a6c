package autozoom

import (
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestGenerateDraftsSingleClickSample(t *testing.T) {
	track := &Track{
		Samples: []Sample{
			{TimeMs: 0, X: 0.5, Y: 0.5},
			{TimeMs: 350, X: 0.5, Y: 0.5, Click: true},
		},
	}
	drafts := GenerateDrafts(track, Options{DurationMs: 5000})
	if len(drafts) != 1 {
		t.Fatalf("expected exactly one draft, got %d", len(drafts))
	}
	d := drafts[0]
	if d.Reason != ReasonClick {
		t.Errorf("expected click reason, got %q", d.Reason)
	}
	if d.StartMs != 130 || d.EndMs != 1750 {
		t.Errorf("expected 130-1750, got %d-%d", d.StartMs, d.EndMs)
	}
	if d.Depth != 3 {
		t.Errorf("expected depth 3, got %d", d.Depth)
	}
	if d.Focus.X != 0.5 || d.Focus.Y != 0.5 {
		t.Errorf("expected focus at click point, got %v", d.Focus)
	}
}

func TestGenerateDraftsDegenerateInputs(t *testing.T) {
	if got := GenerateDrafts(nil, Options{DurationMs: 5000}); len(got) != 0 {
		t.Errorf("nil track should yield no drafts, got %v", got)
	}
	if got := GenerateDrafts(&Track{}, Options{DurationMs: 5000}); len(got) != 0 {
		t.Errorf("empty samples should yield no drafts, got %v", got)
	}
	track := &Track{Samples: []Sample{
		{TimeMs: 0, Click: true},
		{TimeMs: 50, Click: true},
	}}
	if got := GenerateDrafts(track, Options{DurationMs: 150}); len(got) != 0 {
		t.Errorf("sub-200ms recording should yield no drafts, got %v", got)
	}
}

func TestGenerateDraftsDeduplicatesNearbyClicks(t *testing.T) {
	track := &Track{
		Samples: []Sample{
			{TimeMs: 0, X: 0.1, Y: 0.1},
			{TimeMs: 500, X: 0.2, Y: 0.2, Click: true},
			{TimeMs: 700, X: 0.2, Y: 0.2, Click: true}, // within 260ms
		},
	}
	drafts := GenerateDrafts(track, Options{DurationMs: 10000})
	if len(drafts) != 1 {
		t.Fatalf("expected duplicate click to be dropped, got %d drafts", len(drafts))
	}
}

func TestGenerateDraftsPrefersEventClicksOverInferred(t *testing.T) {
	track := &Track{
		Samples: []Sample{
			{TimeMs: 0, X: 0.1, Y: 0.1},
			{TimeMs: 1000, X: 0.9, Y: 0.9, Click: true},
		},
		Events: []TrackEvent{
			{Type: EventClick, StartMs: 1000, EndMs: 1000, Point: Point{X: 0.3, Y: 0.3}},
		},
	}
	drafts := GenerateDrafts(track, Options{DurationMs: 10000})
	if len(drafts) != 1 {
		t.Fatalf("expected one draft, got %d", len(drafts))
	}
	if drafts[0].Focus.X != 0.3 {
		t.Errorf("expected event focus to win over inferred click, got %v", drafts[0].Focus)
	}
}

func TestGenerateDraftsSelectionEvent(t *testing.T) {
	track := &Track{
		Samples: []Sample{
			{TimeMs: 0, X: 0.1, Y: 0.1},
			{TimeMs: 100, X: 0.1, Y: 0.1},
		},
		Events: []TrackEvent{
			{
				Type:    EventSelection,
				StartMs: 2000,
				EndMs:   2600,
				Point:   Point{X: 0.4, Y: 0.5},
				Bounds:  &Bounds{Width: 0.2, Height: 0.05},
			},
		},
	}
	drafts := GenerateDrafts(track, Options{DurationMs: 20000})
	if len(drafts) != 1 {
		t.Fatalf("expected one selection draft, got %d", len(drafts))
	}
	d := drafts[0]
	if d.Reason != ReasonSelection {
		t.Errorf("expected selection reason, got %q", d.Reason)
	}
	if d.StartMs != 2000-selectionPreRollMs {
		t.Errorf("expected pre-roll of %dms, got start %d", selectionPreRollMs, d.StartMs)
	}
	// hold = 1550 + clamp(600*0.9 + 0.2*2000, 0, 2200) = 1550 + 940
	wantEnd := int64(2000 + 1550 + 940)
	if d.EndMs != wantEnd {
		t.Errorf("expected dynamic hold end %d, got %d", wantEnd, d.EndMs)
	}
}

func TestGenerateDraftsSkipsTinySelection(t *testing.T) {
	track := &Track{
		Samples: []Sample{
			{TimeMs: 0, X: 0.1, Y: 0.1},
			{TimeMs: 100, X: 0.1, Y: 0.1},
		},
		Events: []TrackEvent{
			{
				Type:    EventSelection,
				StartMs: 500,
				EndMs:   580, // 80ms, span 0.004: both under the floor
				Point:   Point{X: 0.4, Y: 0.5},
				Bounds:  &Bounds{Width: 0.004, Height: 0.002},
			},
		},
	}
	if got := GenerateDrafts(track, Options{DurationMs: 10000}); len(got) != 0 {
		t.Errorf("tiny selection should be skipped, got %v", got)
	}
}

func TestGenerateDraftsMovementUsesAdaptiveThreshold(t *testing.T) {
	// mostly slow drift with one fast sweep
	var samples []Sample
	x := 0.0
	for i := 0; i < 60; i++ {
		x += 0.002
		samples = append(samples, Sample{TimeMs: int64(i) * 50, X: x, Y: 0.5})
	}
	// fast sweep far from the drift cluster
	samples = append(samples,
		Sample{TimeMs: 5000, X: 0.1, Y: 0.1},
		Sample{TimeMs: 5050, X: 0.8, Y: 0.8},
	)
	drafts := GenerateDrafts(&Track{Samples: samples}, Options{DurationMs: 20000})
	if len(drafts) != 1 {
		t.Fatalf("expected one movement draft from the fast sweep, got %d", len(drafts))
	}
	if drafts[0].Reason != ReasonMovement {
		t.Errorf("expected movement reason, got %q", drafts[0].Reason)
	}
	if drafts[0].Depth != 2 {
		t.Errorf("expected movement depth 2, got %d", drafts[0].Depth)
	}
}

func TestGenerateDraftsMovementSuppressedNearClick(t *testing.T) {
	samples := []Sample{
		{TimeMs: 0, X: 0.1, Y: 0.1},
		{TimeMs: 1000, X: 0.1, Y: 0.1, Click: true},
		{TimeMs: 1100, X: 0.9, Y: 0.9}, // fast, but within 360ms of the click
	}
	drafts := GenerateDrafts(&Track{Samples: samples}, Options{DurationMs: 10000})
	for _, d := range drafts {
		if d.Reason == ReasonMovement {
			t.Errorf("movement near a click anchor should be suppressed: %v", d)
		}
	}
}

func TestGenerateDraftsIgnoresHiddenSamples(t *testing.T) {
	samples := []Sample{
		{TimeMs: 0, X: 0.1, Y: 0.1, Visible: boolPtr(false)},
		{TimeMs: 50, X: 0.9, Y: 0.9, Visible: boolPtr(false)},
		{TimeMs: 100, X: 0.1, Y: 0.1, Visible: boolPtr(false)},
	}
	if got := GenerateDrafts(&Track{Samples: samples}, Options{DurationMs: 10000}); len(got) != 0 {
		t.Errorf("hidden cursor movement should produce nothing, got %v", got)
	}
}

func TestGenerateDraftsMergesOverlappingRegions(t *testing.T) {
	track := &Track{
		Samples: []Sample{
			{TimeMs: 0, X: 0.1, Y: 0.1},
			{TimeMs: 1000, X: 0.2, Y: 0.2, Click: true},
			{TimeMs: 1500, X: 0.4, Y: 0.4, Click: true}, // regions overlap
		},
	}
	drafts := GenerateDrafts(track, Options{DurationMs: 10000})
	if len(drafts) != 1 {
		t.Fatalf("expected overlapping click regions to merge, got %d", len(drafts))
	}
	if drafts[0].StartMs != 780 {
		t.Errorf("expected merged start 780, got %d", drafts[0].StartMs)
	}
	if drafts[0].EndMs != 2900 {
		t.Errorf("expected merged end 2900, got %d", drafts[0].EndMs)
	}
}

func TestGenerateDraftsCapsRegions(t *testing.T) {
	track := &Track{Samples: []Sample{{TimeMs: 0, X: 0, Y: 0}}}
	for i := 0; i < 10; i++ {
		track.Samples = append(track.Samples, Sample{
			TimeMs: int64(i+1) * 3000,
			X:      0.5,
			Y:      0.5,
			Click:  true,
		})
	}
	drafts := GenerateDrafts(track, Options{DurationMs: 60000, MaxRegions: 4})
	if len(drafts) != 4 {
		t.Fatalf("expected cap of 4 drafts, got %d", len(drafts))
	}
	for i := 1; i < len(drafts); i++ {
		if drafts[i-1].StartMs > drafts[i].StartMs {
			t.Errorf("capped drafts must be re-sorted by start time")
		}
	}
}

func TestGenerateDraftsEnforcesDurationFloor(t *testing.T) {
	track := &Track{
		Samples: []Sample{
			{TimeMs: 0, X: 0.1, Y: 0.1},
			{TimeMs: 100, X: 0.1, Y: 0.1},
		},
		Events: []TrackEvent{
			{Type: EventSelection, StartMs: 5000, EndMs: 5200, Point: Point{X: 0.5, Y: 0.5},
				Bounds: &Bounds{Width: 0.3, Height: 0.1}},
		},
	}
	drafts := GenerateDrafts(track, Options{DurationMs: 30000})
	for _, d := range drafts {
		if d.EndMs-d.StartMs < 420 {
			t.Errorf("draft below duration floor: %v", d)
		}
	}
}

func TestGenerateDraftsNormalizesUnsortedTrack(t *testing.T) {
	// Events delivered out of order must not trip the click dedupe window.
	track := &Track{
		Samples: []Sample{
			{TimeMs: 6000, X: 0.5, Y: 0.5},
			{TimeMs: 0, X: 0.5, Y: 0.5},
		},
		Events: []TrackEvent{
			{Type: EventClick, StartMs: 5000, EndMs: 5000, Point: Point{X: 0.7, Y: 0.7}},
			{Type: EventClick, StartMs: 400, EndMs: 400, Point: Point{X: 0.2, Y: 0.2}},
		},
	}
	drafts := GenerateDrafts(track, Options{DurationMs: 10000})
	if len(drafts) != 2 {
		t.Fatalf("expected both far-apart clicks to survive, got %d drafts: %v", len(drafts), drafts)
	}
	if drafts[0].StartMs != 180 || drafts[1].StartMs != 4780 {
		t.Errorf("expected drafts at 180 and 4780, got %d and %d",
			drafts[0].StartMs, drafts[1].StartMs)
	}
	if len(track.Events) != 2 || track.Events[0].StartMs != 5000 {
		t.Errorf("caller's track must not be reordered in place")
	}
}
