package timeline

import (
	"reflect"
	"testing"
)

func TestNormalizeClampsIntoDuration(t *testing.T) {
	iv, ok := Normalize(-120.4, 5400.6, 5000)
	if !ok {
		t.Fatalf("expected interval to survive normalization")
	}
	if iv.StartMs != 0 {
		t.Errorf("expected start clamped to 0, got %d", iv.StartMs)
	}
	if iv.EndMs != 5000 {
		t.Errorf("expected end clamped to 5000, got %d", iv.EndMs)
	}
}

func TestNormalizeRejectsCollapsedInterval(t *testing.T) {
	if _, ok := Normalize(300, 300, 1000); ok {
		t.Error("expected zero-length interval to be rejected")
	}
	if _, ok := Normalize(500, 200, 1000); ok {
		t.Error("expected inverted interval to be rejected")
	}
	if _, ok := Normalize(2000, 3000, 1000); ok {
		t.Error("expected interval past duration to collapse and be rejected")
	}
}

func TestNormalizeRejectsNonFinite(t *testing.T) {
	nan := float64(0)
	nan = nan / nan
	if _, ok := Normalize(nan, 100, 1000); ok {
		t.Error("expected NaN start to be rejected")
	}
}

func TestMergeOverlappingAndNearIntervals(t *testing.T) {
	in := []Interval{
		{StartMs: 900, EndMs: 1200},
		{StartMs: 100, EndMs: 400},
		{StartMs: 390, EndMs: 600},
	}
	got := Merge(in, 0)
	want := []Interval{
		{StartMs: 100, EndMs: 600},
		{StartMs: 900, EndMs: 1200},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("merge mismatch: got %v want %v", got, want)
	}
}

func TestMergeRespectsGapTolerance(t *testing.T) {
	in := []Interval{
		{StartMs: 0, EndMs: 100},
		{StartMs: 135, EndMs: 200},
	}
	if got := Merge(in, 40); len(got) != 1 {
		t.Fatalf("expected gap 35ms to merge under 40ms tolerance, got %v", got)
	}
	if got := Merge(in, 0); len(got) != 2 {
		t.Fatalf("expected gap 35ms to stay split with zero tolerance, got %v", got)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	in := []Interval{
		{StartMs: 0, EndMs: 300},
		{StartMs: 250, EndMs: 700},
		{StartMs: 1000, EndMs: 1500},
	}
	once := Merge(in, 40)
	twice := Merge(once, 40)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("merge not idempotent: %v vs %v", once, twice)
	}
}

func TestMergeDoesNotShrinkContainedInterval(t *testing.T) {
	in := []Interval{
		{StartMs: 0, EndMs: 1000},
		{StartMs: 100, EndMs: 200},
	}
	got := Merge(in, 0)
	if len(got) != 1 || got[0].EndMs != 1000 {
		t.Fatalf("contained interval should not shrink the group: %v", got)
	}
}
