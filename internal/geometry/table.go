package geometry

import (
	"log"

	"github.com/cbegin/dtxchart-go/internal/dtx"
)

// Shared lane names emitted by the positioner alongside chart lanes.
const (
	LaneBar        = "Bar"
	LaneQuarterBar = "QuarterBar"
	LaneEndLine    = "EndLine"
	LaneBPMMarker  = "BPMMarker"
	LaneBGM        = dtx.LaneBGM
)

// Fretted draw lanes.
const (
	Red    = "Red"
	Green  = "Green"
	Blue   = "Blue"
	Yellow = "Yellow"
	Pink   = "Pink"
	Open   = "Open"
	OpenV  = "OpenV"
	Wail   = "Wail"
)

const (
	// GutterWidth holds bar numbers and tempo labels left of the lanes.
	GutterWidth = 60
	// FramePadding is the empty space right of the last lane.
	FramePadding = 10

	chipHeight = 5
	chipWidth  = 18
)

var (
	buttonOrder        = []string{Red, Green, Blue, Yellow, Pink}
	classicButtonOrder = []string{Red, Green, Blue, Green, Blue}
)

// Table is the lane geometry lookup. It is read-only after NewTable and safe
// for concurrent use.
type Table struct {
	drum    map[string]RelativeRect
	fretted map[string]RelativeRect
	logger  *log.Logger
}

// NewTable builds the lookup. A nil logger uses log.Default().
func NewTable(logger *log.Logger) *Table {
	if logger == nil {
		logger = log.Default()
	}
	return &Table{
		drum: map[string]RelativeRect{
			dtx.LaneLeftCrashCymbal:  {X: 60, Width: chipWidth + 6, Height: chipHeight},
			dtx.LaneHiHat:            {X: 84, Width: chipWidth, Height: chipHeight},
			dtx.LaneLeftBassPedal:    {X: 102, Width: chipWidth, Height: chipHeight},
			dtx.LaneLeftHiHatPedal:   {X: 102, Width: chipWidth, Height: chipHeight},
			dtx.LaneSnare:            {X: 120, Width: chipWidth + 3, Height: chipHeight},
			dtx.LaneHiTom:            {X: 141, Width: chipWidth, Height: chipHeight},
			dtx.LaneRightBassPedal:   {X: 159, Width: chipWidth + 5, Height: chipHeight},
			dtx.LaneLowTom:           {X: 182, Width: chipWidth, Height: chipHeight},
			dtx.LaneFloorTom:         {X: 200, Width: chipWidth, Height: chipHeight},
			dtx.LaneRightCrashCymbal: {X: 218, Width: chipWidth + 6, Height: chipHeight},
			dtx.LaneRideCymbal:       {X: 242, Width: chipWidth + 1, Height: chipHeight},
		},
		fretted: map[string]RelativeRect{
			Red:    {X: 60, Width: chipWidth + 1, Height: chipHeight},
			Green:  {X: 78, Width: chipWidth + 1, Height: chipHeight},
			Blue:   {X: 96, Width: chipWidth + 1, Height: chipHeight},
			Yellow: {X: 114, Width: chipWidth + 1, Height: chipHeight},
			Pink:   {X: 132, Width: chipWidth + 1, Height: chipHeight},
			Open:   {X: 60, Width: (chipWidth + 1) * 5, Height: chipHeight},
			OpenV:  {X: 60, Width: (chipWidth + 1) * 3, Height: chipHeight},
			Wail:   {X: 150, Width: 15, Height: 19},
		},
		logger: logger,
	}
}

// laneArea is the width spanned by the lanes of a mode, before padding.
func laneArea(game GameMode, chart ChartMode) float64 {
	if game == GameDrum {
		switch chart {
		case ChartFull:
			return 201
		case ChartClassic:
			return 158
		default:
			return 182
		}
	}
	if chart == ChartClassic {
		return 71
	}
	return 105
}

// FrameWidthFor is the pixel width of one frame in the given modes.
func (t *Table) FrameWidthFor(game GameMode, chart ChartMode) float64 {
	return GutterWidth + laneArea(game, chart) + FramePadding
}

// FullFrameWidthFor is the frame width when every lane is modelled.
func (t *Table) FullFrameWidthFor(game GameMode) float64 {
	return t.FrameWidthFor(game, ChartFull)
}

// FrameRelativeOffsetFor is how far lanes shift left when the leftmost
// lanes are folded away.
func (t *Table) FrameRelativeOffsetFor(game GameMode, chart ChartMode) float64 {
	if game == GameDrum && chart == ChartClassic {
		return t.drum[dtx.LaneHiHat].X - t.drum[dtx.LaneLeftCrashCymbal].X
	}
	return 0
}

func (t *Table) sharedLane(lane string, game GameMode, chart ChartMode) (RelativeRect, bool) {
	area := laneArea(game, chart)
	switch lane {
	case LaneBar, LaneEndLine:
		return RelativeRect{X: GutterWidth, Width: area, Height: 2}, true
	case LaneQuarterBar:
		return RelativeRect{X: GutterWidth, Width: area, Height: 1}, true
	case LaneBGM:
		return RelativeRect{X: GutterWidth, Width: t.FrameWidthFor(game, chart) - GutterWidth, Height: 2}, true
	case LaneBPMMarker:
		return RelativeRect{X: 50, Width: 10, Height: 2}, true
	}
	return RelativeRect{}, false
}

// remapDrum folds lanes that the chart mode does not model onto their
// neighbours.
func remapDrum(lane string, chart ChartMode) string {
	switch chart {
	case ChartXG:
		switch lane {
		case dtx.LaneRideCymbal:
			return dtx.LaneRightCrashCymbal
		case dtx.LaneLeftBassPedal:
			return dtx.LaneLeftHiHatPedal
		}
	case ChartClassic:
		switch lane {
		case dtx.LaneLeftCrashCymbal:
			return dtx.LaneHiHat
		case dtx.LaneLeftBassPedal, dtx.LaneLeftHiHatPedal:
			return dtx.LaneRightBassPedal
		case dtx.LaneFloorTom:
			return dtx.LaneLowTom
		case dtx.LaneRideCymbal:
			return dtx.LaneRightCrashCymbal
		}
	}
	return lane
}

// GeometryFor returns the draw entries for one event on lane. Instrument
// lanes not drawn in the given modes return nil.
func (t *Table) GeometryFor(lane string, game GameMode, chart ChartMode) []DrawLane {
	if r, ok := t.sharedLane(lane, game, chart); ok {
		return []DrawLane{{Name: lane, Rect: r}}
	}
	shift := t.FrameRelativeOffsetFor(game, chart)
	if game == GameDrum {
		name := remapDrum(lane, chart)
		r, ok := t.drum[name]
		if !ok {
			return nil
		}
		r.X -= shift
		return []DrawLane{{Name: name, Rect: r}}
	}

	if (lane == dtx.LaneGuitarWail && game == GameGuitar) || (lane == dtx.LaneBassWail && game == GameBass) {
		r := t.fretted[Wail]
		if chart == ChartClassic {
			r.X = 116
		}
		return []DrawLane{{Name: Wail, Rect: r}}
	}
	buttons := decodeButtons(lane, game, chart)
	out := make([]DrawLane, 0, len(buttons))
	for _, b := range buttons {
		r := t.fretted[b]
		r.X -= shift
		out = append(out, DrawLane{Name: b, Rect: r})
	}
	return out
}

// decodeButtons turns a button lane of the current instrument into the
// buttons it presses, left to right. In Classic the yellow and pink digits
// land on green and blue and each button is listed once.
func decodeButtons(lane string, game GameMode, chart ChartMode) []string {
	if !dtx.IsButtonLane(lane) || lane[0] != instrumentPrefix(game) {
		return nil
	}
	order := buttonOrder
	if chart == ChartClassic {
		order = classicButtonOrder
	}
	seen := make(map[string]bool, 5)
	var out []string
	for i := 0; i < 5; i++ {
		if lane[1+i] != '1' || seen[order[i]] {
			continue
		}
		seen[order[i]] = true
		out = append(out, order[i])
	}
	if len(out) == 0 {
		if chart == ChartClassic {
			return []string{OpenV}
		}
		return []string{Open}
	}
	return out
}

func instrumentPrefix(game GameMode) byte {
	switch game {
	case GameGuitar:
		return 'G'
	case GameBass:
		return 'B'
	}
	return 0
}

// HoldImageRectsFor expands a hold span into one image per pressed button.
// span carries the frame origin in X and the sustained extent in Y and H.
// Open holds cannot be drawn and are dropped.
func (t *Table) HoldImageRectsFor(span Rect, lane string, game GameMode, chart ChartMode) []ImageRect {
	buttons := decodeButtons(lane, game, chart)
	if len(buttons) == 0 {
		return nil
	}
	if buttons[0] == Open || buttons[0] == OpenV {
		t.logger.Printf("geometry: dropping open hold on %s", lane)
		return nil
	}
	shift := t.FrameRelativeOffsetFor(game, chart)
	out := make([]ImageRect, 0, len(buttons))
	for _, b := range buttons {
		r := t.fretted[b]
		out = append(out, ImageRect{
			Name: b + "Hold",
			Rect: Rect{X: span.X + r.X - shift, Y: span.Y, W: r.Width, H: span.H},
		})
	}
	return out
}
