package dtx

import (
	"log"
	"sort"
)

const (
	// LinesPerBar is the number of lines in a bar with length multiplier 1.0.
	LinesPerBar = 192
	// QuarterLines is the spacing of quarter-bar grid lines.
	QuarterLines = LinesPerBar / 4

	// A full bar at 240 BPM lasts one second: 60/bpm/48 seconds per line.
	secondsPerLineBPM = 1.25
)

// InvalidTime is returned by TimeAt for positions outside the chart grid.
const InvalidTime = -1.0

type tempoMarker struct {
	bar  int
	line float64
	bpm  float64
}

// Timeline converts (bar, line) positions into absolute seconds.
type Timeline struct {
	barLengths []float64
	markers    []tempoMarker
	logger     *log.Logger
}

func newTimeline(barLengths []float64, markers []tempoMarker, logger *log.Logger) *Timeline {
	sorted := append([]tempoMarker(nil), markers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].bar != sorted[j].bar {
			return sorted[i].bar < sorted[j].bar
		}
		return sorted[i].line < sorted[j].line
	})
	return &Timeline{barLengths: barLengths, markers: sorted, logger: logger}
}

// BarLength returns the length multiplier of bar. Bars past the last
// recorded one are 1.0.
func (t *Timeline) BarLength(bar int) float64 {
	if bar < 0 || bar >= len(t.barLengths) {
		return 1.0
	}
	return t.barLengths[bar]
}

func (t *Timeline) lineCount(bar int) float64 {
	return t.BarLength(bar) * LinesPerBar
}

// TimeAt returns the absolute time of line within bar, or InvalidTime when
// either is negative or line is past the end of the bar. Line 0 of the bar
// after the last one is valid and yields the song end.
func (t *Timeline) TimeAt(bar int, line float64) float64 {
	if bar < 0 || line < 0 {
		t.logger.Printf("dtx: invalid time query bar=%d line=%g: negative position", bar, line)
		return InvalidTime
	}
	if line >= t.lineCount(bar) {
		t.logger.Printf("dtx: invalid time query bar=%d line=%g: bar has %g lines", bar, line, t.lineCount(bar))
		return InvalidTime
	}

	bpm := t.markers[0].bpm
	next := 1
	pos := 0.0
	for b := 0; b <= bar; b++ {
		upper := t.lineCount(b)
		if b == bar {
			upper = line
		}
		cur := 0.0
		for next < len(t.markers) && t.markers[next].bar == b && t.markers[next].line <= upper {
			m := t.markers[next]
			pos += (m.line - cur) * secondsPerLineBPM / bpm
			bpm = m.bpm
			cur = m.line
			next++
		}
		pos += (upper - cur) * secondsPerLineBPM / bpm
	}
	return pos
}

// position builds a TimePosition for (bar, line).
func (t *Timeline) position(bar int, line float64) TimePosition {
	return TimePosition{Bar: bar, Line: line, Time: t.TimeAt(bar, line)}
}
