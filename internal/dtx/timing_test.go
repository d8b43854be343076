package dtx

import (
	"io"
	"log"
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func TestTimeAtOriginIsZero(t *testing.T) {
	tl := newTimeline([]float64{1, 1}, []tempoMarker{{bpm: 133}}, quietLogger())
	if got := tl.TimeAt(0, 0); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestTimeAtFullBarAt240IsOneSecond(t *testing.T) {
	tl := newTimeline([]float64{1}, []tempoMarker{{bpm: 240}}, quietLogger())
	if got := tl.TimeAt(1, 0); !near(got, 1.0) {
		t.Fatalf("expected 1.0s, got %v", got)
	}
	if got := tl.TimeAt(0, 96); !near(got, 0.5) {
		t.Fatalf("expected 0.5s at half bar, got %v", got)
	}
}

func TestTimeAtTempoChangeMidBar(t *testing.T) {
	tl := newTimeline([]float64{1, 1}, []tempoMarker{{bpm: 120}, {bar: 1, line: 96, bpm: 240}}, quietLogger())
	if got := tl.TimeAt(1, 0); !near(got, 2.0) {
		t.Fatalf("expected 2.0s, got %v", got)
	}
	if got := tl.TimeAt(2, 0); !near(got, 3.5) {
		t.Fatalf("expected 3.5s, got %v", got)
	}
}

func TestTimeAtMarkersSortedByPosition(t *testing.T) {
	tl := newTimeline([]float64{1, 1, 1}, []tempoMarker{{bpm: 120}, {bar: 2, bpm: 60}, {bar: 1, bpm: 240}}, quietLogger())
	// two seconds at 120, one at 240, then four at 60
	if got := tl.TimeAt(3, 0); !near(got, 7.0) {
		t.Fatalf("expected 7.0s, got %v", got)
	}
}

func TestTimeAtShortBar(t *testing.T) {
	tl := newTimeline([]float64{1, 0.5}, []tempoMarker{{bpm: 240}}, quietLogger())
	if got := tl.TimeAt(2, 0); !near(got, 1.5) {
		t.Fatalf("expected 1.5s, got %v", got)
	}
	if got := tl.BarLength(9); got != 1.0 {
		t.Fatalf("expected bars past the end to have length 1, got %v", got)
	}
}

func TestTimeAtInvalidQueries(t *testing.T) {
	tl := newTimeline([]float64{1, 0.5}, []tempoMarker{{bpm: 120}}, quietLogger())
	cases := []struct {
		name string
		bar  int
		line float64
	}{
		{"negative bar", -1, 0},
		{"negative line", 0, -1},
		{"line at capacity", 0, 192},
		{"line past short bar", 1, 96},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tl.TimeAt(tc.bar, tc.line); got != InvalidTime {
				t.Fatalf("expected InvalidTime, got %v", got)
			}
		})
	}
}
