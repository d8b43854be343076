package geometry

import (
	"io"
	"log"
	"testing"

	"github.com/cbegin/dtxchart-go/internal/dtx"
)

func newQuietTable() *Table { return NewTable(log.New(io.Discard, "", 0)) }

func names(lanes []DrawLane) []string {
	out := make([]string, len(lanes))
	for i, l := range lanes {
		out[i] = l.Name
	}
	return out
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDrumLaneFolding(t *testing.T) {
	tab := newQuietTable()
	cases := []struct {
		lane  string
		chart ChartMode
		want  string
	}{
		{dtx.LaneRideCymbal, ChartFull, dtx.LaneRideCymbal},
		{dtx.LaneRideCymbal, ChartXG, dtx.LaneRightCrashCymbal},
		{dtx.LaneLeftBassPedal, ChartXG, dtx.LaneLeftHiHatPedal},
		{dtx.LaneLeftCrashCymbal, ChartClassic, dtx.LaneHiHat},
		{dtx.LaneLeftHiHatPedal, ChartClassic, dtx.LaneRightBassPedal},
		{dtx.LaneFloorTom, ChartClassic, dtx.LaneLowTom},
		{dtx.LaneRideCymbal, ChartClassic, dtx.LaneRightCrashCymbal},
		{dtx.LaneSnare, ChartClassic, dtx.LaneSnare},
	}
	for _, tc := range cases {
		got := tab.GeometryFor(tc.lane, GameDrum, tc.chart)
		if len(got) != 1 || got[0].Name != tc.want {
			t.Fatalf("%s in %s: expected %s, got %v", tc.lane, tc.chart, tc.want, names(got))
		}
	}
}

func TestClassicDrumLanesShiftLeft(t *testing.T) {
	tab := newQuietTable()
	hh := tab.GeometryFor(dtx.LaneHiHat, GameDrum, ChartClassic)
	if hh[0].Rect.X != GutterWidth {
		t.Fatalf("expected hi-hat at the gutter edge in Classic, got %v", hh[0].Rect.X)
	}
	bar := tab.GeometryFor(LaneBar, GameDrum, ChartClassic)
	if bar[0].Rect.X != GutterWidth || bar[0].Rect.Width != 158 {
		t.Fatalf("unexpected classic bar rect %+v", bar[0].Rect)
	}
	rc := tab.GeometryFor(dtx.LaneRightCrashCymbal, GameDrum, ChartClassic)[0].Rect
	if rc.X+rc.Width != GutterWidth+158 {
		t.Fatalf("expected right crash to end at the lane area edge, got %v", rc.X+rc.Width)
	}
}

func TestFrameWidths(t *testing.T) {
	tab := newQuietTable()
	if w := tab.FrameWidthFor(GameDrum, ChartFull); w != 271 {
		t.Fatalf("expected 271, got %v", w)
	}
	if w := tab.FrameWidthFor(GameDrum, ChartXG); w != 252 {
		t.Fatalf("expected 252, got %v", w)
	}
	if tab.FrameWidthFor(GameDrum, ChartClassic) >= tab.FullFrameWidthFor(GameDrum) {
		t.Fatalf("classic frame must be narrower than the full frame")
	}
	if tab.FrameWidthFor(GameGuitar, ChartClassic) >= tab.FrameWidthFor(GameGuitar, ChartXG) {
		t.Fatalf("classic guitar frame must be narrower")
	}
	if tab.FrameRelativeOffsetFor(GameDrum, ChartClassic) != 24 || tab.FrameRelativeOffsetFor(GameGuitar, ChartClassic) != 0 {
		t.Fatalf("unexpected relative offsets")
	}
}

func TestSharedLanes(t *testing.T) {
	tab := newQuietTable()
	bgm := tab.GeometryFor(LaneBGM, GameGuitar, ChartXG)
	if len(bgm) != 1 || bgm[0].Rect.X+bgm[0].Rect.Width != tab.FrameWidthFor(GameGuitar, ChartXG) {
		t.Fatalf("expected BGM to stretch to the frame edge, got %+v", bgm)
	}
	bpm := tab.GeometryFor(LaneBPMMarker, GameDrum, ChartFull)
	if bpm[0].Rect != (RelativeRect{X: 50, Width: 10, Height: 2}) {
		t.Fatalf("unexpected tempo marker rect %+v", bpm[0].Rect)
	}
}

func TestButtonDecoding(t *testing.T) {
	tab := newQuietTable()
	cases := []struct {
		lane  string
		game  GameMode
		chart ChartMode
		want  []string
	}{
		{"G10100", GameGuitar, ChartXG, []string{Red, Blue}},
		{"G11111", GameGuitar, ChartFull, []string{Red, Green, Blue, Yellow, Pink}},
		{"G00000", GameGuitar, ChartXG, []string{Open}},
		{"G00000", GameGuitar, ChartClassic, []string{OpenV}},
		{"G01010", GameGuitar, ChartClassic, []string{Green}},
		{"G11111", GameGuitar, ChartClassic, []string{Red, Green, Blue}},
		{"B00011", GameBass, ChartClassic, []string{Green, Blue}},
		{"B10000", GameGuitar, ChartXG, nil},
		{"G10000", GameBass, ChartXG, nil},
	}
	for _, tc := range cases {
		got := names(tab.GeometryFor(tc.lane, tc.game, tc.chart))
		if !equalNames(got, tc.want) {
			t.Fatalf("%s %s %s: expected %v, got %v", tc.lane, tc.game, tc.chart, tc.want, got)
		}
	}
}

func TestWailOnlyInOwnInstrument(t *testing.T) {
	tab := newQuietTable()
	if got := tab.GeometryFor(dtx.LaneGuitarWail, GameGuitar, ChartXG); len(got) != 1 || got[0].Name != Wail {
		t.Fatalf("expected guitar wail, got %v", names(got))
	}
	if got := tab.GeometryFor(dtx.LaneGuitarWail, GameBass, ChartXG); len(got) != 0 {
		t.Fatalf("guitar wail must not draw in bass mode, got %v", names(got))
	}
	if got := tab.GeometryFor(dtx.LaneBassWail, GameBass, ChartClassic); got[0].Rect.X != 116 {
		t.Fatalf("expected classic wail at 116, got %v", got[0].Rect.X)
	}
	if got := tab.GeometryFor(dtx.LaneGuitarHold, GameGuitar, ChartXG); len(got) != 0 {
		t.Fatalf("hold lanes have no chip geometry")
	}
}

func TestHoldImageRects(t *testing.T) {
	tab := newQuietTable()
	span := Rect{X: 100, Y: 20, W: 0, H: 40}
	imgs := tab.HoldImageRectsFor(span, "G01001", GameGuitar, ChartXG)
	if len(imgs) != 2 || imgs[0].Name != "GreenHold" || imgs[1].Name != "PinkHold" {
		t.Fatalf("unexpected hold images %+v", imgs)
	}
	if imgs[0].Rect != (Rect{X: 178, Y: 20, W: 19, H: 40}) {
		t.Fatalf("unexpected green hold rect %+v", imgs[0].Rect)
	}
	if got := tab.HoldImageRectsFor(span, "G00000", GameGuitar, ChartXG); got != nil {
		t.Fatalf("open holds must be dropped, got %+v", got)
	}
}

func TestParseModes(t *testing.T) {
	if m, err := ParseChartMode("XG/Gitadora"); err != nil || m != ChartXG {
		t.Fatalf("unexpected %v %v", m, err)
	}
	if _, err := ParseGameMode("Keyboard"); err == nil {
		t.Fatalf("expected error for unknown game mode")
	}
}
