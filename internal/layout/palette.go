package layout

import (
	"github.com/cbegin/dtxchart-go/internal/dtx"
	"github.com/cbegin/dtxchart-go/internal/geometry"
)

const (
	BackgroundColor = "#000000"
	PanelColor      = "#1f1f1f"
	TextColor       = "#ffffff"
	FontFamily      = "Arial"

	fallbackColor = "#ffffff"
)

var laneColors = map[string]string{
	geometry.LaneBar:        "#b1b1b1",
	geometry.LaneQuarterBar: "#535353",
	geometry.LaneBGM:        "#008000",
	geometry.LaneEndLine:    "#ff0000",
	geometry.LaneBPMMarker:  "#7f7f7f",

	dtx.LaneLeftCrashCymbal:  "#ff4ca1",
	dtx.LaneHiHat:            "#579ead",
	dtx.LaneLeftBassPedal:    "#e7baff",
	dtx.LaneLeftHiHatPedal:   "#e7baff",
	dtx.LaneSnare:            "#fff040",
	dtx.LaneHiTom:            "#00ff00",
	dtx.LaneRightBassPedal:   "#e7baff",
	dtx.LaneLowTom:           "#ff0000",
	dtx.LaneFloorTom:         "#fea101",
	dtx.LaneRightCrashCymbal: "#00ccff",
	dtx.LaneRideCymbal:       "#5a9cf9",

	geometry.Red:    "#ff2a2a",
	geometry.Green:  "#2aff2a",
	geometry.Blue:   "#2a7fff",
	geometry.Yellow: "#ffee2a",
	geometry.Pink:   "#ff4cff",
	geometry.Open:   "#dcdcdc",
	geometry.OpenV:  "#dcdcdc",
	geometry.Wail:   "#8a8aff",
}

// LaneColor returns the fill colour of a draw lane.
func LaneColor(lane string) string {
	if c, ok := laneColors[lane]; ok {
		return c
	}
	return fallbackColor
}
