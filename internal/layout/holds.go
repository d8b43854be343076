package layout

import (
	"github.com/cbegin/dtxchart-go/internal/dtx"
	"github.com/cbegin/dtxchart-go/internal/geometry"
)

type holdSpan struct {
	surface int
	frame   int
	x       float64
	top     float64
	bottom  float64
}

func (r *resolver) holdLane() string {
	switch r.cfg.GameMode {
	case geometry.GameGuitar:
		return dtx.LaneGuitarHold
	case geometry.GameBass:
		return dtx.LaneBassHold
	}
	return ""
}

// pressAt returns the non-open button lane pressed at t, or "".
func (r *resolver) pressAt(inst dtx.Instrument, t float64) string {
	open := dtx.OpenLane(inst)
	for _, n := range r.chart.Notes {
		if n.Time == t && n.Lane != open && dtx.IsButtonLane(n.Lane) && dtx.LaneInstrument(n.Lane) == inst {
			return n.Lane
		}
	}
	return ""
}

// emitHolds draws every paired hold of the current instrument as button
// images, one span per frame the hold passes through.
func (r *resolver) emitHolds() {
	lane := r.holdLane()
	if lane == "" {
		return
	}
	inst := InstrumentFor(r.cfg.GameMode)
	for _, n := range r.chart.Notes {
		if n.Lane != lane || n.End == nil {
			continue
		}
		press := r.pressAt(inst, n.Time)
		if press == "" {
			continue
		}
		for _, sp := range r.holdSpans(n.TimePosition, *n.End) {
			rect := geometry.Rect{X: sp.x, Y: sp.top, H: sp.bottom - sp.top}
			imgs := r.p.table.HoldImageRectsFor(rect, press, r.cfg.GameMode, r.cfg.ChartMode)
			r.canvases[sp.surface].ImageRects = append(r.canvases[sp.surface].ImageRects, imgs...)
		}
	}
}

// holdSpans clips start..end to each bar and merges pieces that share a
// frame.
func (r *resolver) holdSpans(start, end dtx.TimePosition) []holdSpan {
	var spans []holdSpan
	for b := start.Bar; b <= end.Bar && b < len(r.chart.Bars); b++ {
		bar := r.chart.Bars[b]
		from := maxOf(start.Time, bar.StartTime)
		to := minOf(end.Time, bar.End())
		if to <= from && start.Time != end.Time {
			continue
		}
		s, x, y0 := r.pixelAt(b, from)
		_, _, y1 := r.pixelAt(b, to)
		top, bottom := minOf(y0, y1), maxOf(y0, y1)
		frame := r.packing.Bars[b].Frame
		if n := len(spans); n > 0 && spans[n-1].surface == s && spans[n-1].frame == frame {
			spans[n-1].top = minOf(spans[n-1].top, top)
			spans[n-1].bottom = maxOf(spans[n-1].bottom, bottom)
			continue
		}
		spans = append(spans, holdSpan{surface: s, frame: frame, x: x, top: top, bottom: bottom})
	}
	return spans
}
