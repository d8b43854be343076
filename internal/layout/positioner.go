package layout

import (
	"errors"
	"fmt"
	"log"

	"github.com/cbegin/dtxchart-go/internal/dtx"
	"github.com/cbegin/dtxchart-go/internal/geometry"
)

const (
	HeaderHeight = 60
	SplitMargin  = 2
	FooterHeight = 50

	marginTop    = 10
	marginBottom = 10
	marginLeft   = 5
	marginRight  = 5

	// BasePixelsPerSecond draws a full bar at 240 BPM as 192 px.
	BasePixelsPerSecond = 192.0

	bodyTop        = HeaderHeight + SplitMargin + marginTop
	verticalChrome = HeaderHeight + SplitMargin + FooterHeight + SplitMargin + marginTop + marginBottom
)

// ErrEmptyChart is returned for charts with no bars.
var ErrEmptyChart = errors.New("layout: chart has no bars")

// UsableBodyHeight is the frame height budget for a page height.
func UsableBodyHeight(maxHeight float64) float64 {
	return maxHeight - verticalChrome
}

type Positioner struct {
	table  *geometry.Table
	logger *log.Logger
}

// New returns a positioner over table. A nil logger uses log.Default().
func New(table *geometry.Table, logger *log.Logger) *Positioner {
	if logger == nil {
		logger = log.Default()
	}
	return &Positioner{table: table, logger: logger}
}

// Compute lays chart out for cfg, one Canvas per drawing surface. It reads
// chart without modifying it.
func (p *Positioner) Compute(chart *dtx.Chart, cfg DrawingConfig) ([]Canvas, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if chart == nil || len(chart.Bars) == 0 {
		return nil, ErrEmptyChart
	}
	pps := cfg.Scale * BasePixelsPerSecond
	packing := Pack(chart.Bars, pps, UsableBodyHeight(cfg.MaxHeight))
	r := p.newResolver(chart, cfg, packing, pps)

	r.emitPanels()
	r.emitBars()
	r.emitTempo()
	r.emitNotes()
	r.emitHolds()
	r.emitEndLine()
	for i := range r.canvases {
		r.emitHeader(i)
	}
	return r.canvases, nil
}

// resolver is the second phase: it turns packed bar offsets into final
// coordinates once every surface height is known.
type resolver struct {
	p          *Positioner
	chart      *dtx.Chart
	cfg        DrawingConfig
	packing    Packing
	pps        float64
	frameWidth float64
	bodyHeight []float64
	canvases   []Canvas
}

func (p *Positioner) newResolver(chart *dtx.Chart, cfg DrawingConfig, packing Packing, pps float64) *resolver {
	r := &resolver{
		p:          p,
		chart:      chart,
		cfg:        cfg,
		packing:    packing,
		pps:        pps,
		frameWidth: p.table.FrameWidthFor(cfg.GameMode, cfg.ChartMode),
	}
	for _, s := range packing.Surfaces {
		h := s.Tallest()
		r.bodyHeight = append(r.bodyHeight, h)
		r.canvases = append(r.canvases, Canvas{
			Size: Size{
				Width:  float64(len(s.FrameHeights)) * (r.frameWidth + marginLeft + marginRight),
				Height: h + verticalChrome,
			},
			BackgroundColor: BackgroundColor,
		})
	}
	return r
}

func (r *resolver) bottomUp() bool { return r.cfg.GameMode == geometry.GameDrum }

func (r *resolver) frameX(frame int) float64 {
	return marginLeft + float64(frame)*(r.frameWidth+marginLeft+marginRight)
}

// pixelAt returns the surface, the frame's left edge and the y coordinate
// of time t within bar.
func (r *resolver) pixelAt(bar int, t float64) (int, float64, float64) {
	pl := r.packing.Bars[bar]
	rel := pl.OffsetY + (t-pl.StartTime)*r.pps
	y := bodyTop + rel
	if r.bottomUp() {
		y = bodyTop + r.bodyHeight[pl.Surface] - rel
	}
	return pl.Surface, r.frameX(pl.Frame), y
}

func (r *resolver) addRects(surface int, x, y float64, lanes []geometry.DrawLane) {
	for _, l := range lanes {
		r.canvases[surface].NoteRects = append(r.canvases[surface].NoteRects, NoteRect{
			Lane:  l.Name,
			Rect:  geometry.Rect{X: x + l.Rect.X, Y: y - l.Rect.Height/2, W: l.Rect.Width, H: l.Rect.Height},
			Color: LaneColor(l.Name),
		})
	}
}

func (r *resolver) lanesFor(lane string) []geometry.DrawLane {
	return r.p.table.GeometryFor(lane, r.cfg.GameMode, r.cfg.ChartMode)
}

func (r *resolver) addLabel(surface int, rect geometry.Rect, text string, size float64, weight int) {
	r.canvases[surface].TextLabels = append(r.canvases[surface].TextLabels, TextLabel{
		Rect:       rect,
		Text:       text,
		FontFamily: FontFamily,
		FontSize:   size,
		FontWeight: weight,
		Color:      TextColor,
	})
}

func (r *resolver) emitPanels() {
	for s, surf := range r.packing.Surfaces {
		for f := range surf.FrameHeights {
			r.canvases[s].PanelRects = append(r.canvases[s].PanelRects, geometry.Rect{
				X: r.frameX(f), Y: bodyTop, W: r.frameWidth, H: r.bodyHeight[s],
			})
		}
	}
}

func (r *resolver) emitBars() {
	bar := r.lanesFor(geometry.LaneBar)
	quarter := r.lanesFor(geometry.LaneQuarterBar)
	for i, b := range r.chart.Bars {
		s, x, y := r.pixelAt(i, b.StartTime)
		r.addRects(s, x, y, bar)
		r.addLabel(s, geometry.Rect{X: x + 4, Y: y - 7, W: 24, H: 14}, fmt.Sprintf("%03d", i), 12, 400)
	}
	for _, q := range r.chart.QuarterBarLines {
		if q.Bar < 0 || q.Bar >= len(r.chart.Bars) {
			continue
		}
		s, x, y := r.pixelAt(q.Bar, q.Time)
		r.addRects(s, x, y, quarter)
	}
}

func (r *resolver) emitTempo() {
	marker := r.lanesFor(geometry.LaneBPMMarker)
	for _, seg := range r.chart.TempoSegments {
		bar := seg.StartBar
		if bar >= len(r.chart.Bars) {
			bar = len(r.chart.Bars) - 1
		}
		s, x, y := r.pixelAt(bar, seg.StartTime)
		r.addRects(s, x, y, marker)
		r.addLabel(s, geometry.Rect{X: x + 28, Y: y - 14, W: 22, H: 12}, FormatBPM(seg.BPM), 10, 400)
	}
}

func (r *resolver) emitNotes() {
	cache := make(map[string][]geometry.DrawLane)
	for _, n := range r.chart.Notes {
		if n.Bar < 0 || n.Bar >= len(r.chart.Bars) || n.Time == dtx.InvalidTime {
			continue
		}
		lanes, ok := cache[n.Lane]
		if !ok {
			lanes = r.lanesFor(n.Lane)
			cache[n.Lane] = lanes
			if len(lanes) == 0 && r.ownLane(n.Lane) {
				r.p.logger.Printf("layout: no geometry for lane %s in %s/%s", n.Lane, r.cfg.GameMode, r.cfg.ChartMode)
			}
		}
		if len(lanes) == 0 {
			continue
		}
		s, x, y := r.pixelAt(n.Bar, n.Time)
		r.addRects(s, x, y, lanes)
	}
}

// ownLane reports whether lane belongs to the instrument being drawn and is
// expected to have chip geometry.
func (r *resolver) ownLane(lane string) bool {
	if lane == dtx.LaneGuitarHold || lane == dtx.LaneBassHold {
		return false
	}
	return dtx.LaneInstrument(lane) == InstrumentFor(r.cfg.GameMode)
}

func (r *resolver) emitEndLine() {
	last := len(r.chart.Bars) - 1
	s, x, y := r.pixelAt(last, r.chart.Bars[last].End())
	r.addRects(s, x, y, r.lanesFor(geometry.LaneEndLine))
}
