package main

import (
	"image"
	"image/color"
	"testing"

	"github.com/cbegin/dtxchart-go/internal/geometry"
	"github.com/cbegin/dtxchart-go/internal/layout"
)

func TestViewportFitClampsScroll(t *testing.T) {
	v := viewport{scrollX: 99999}
	zoom := v.fit(layout.Size{Width: 3000, Height: 2000}, 800, 1000)
	if zoom != 0.5 {
		t.Fatalf("zoom = %v, want 0.5", zoom)
	}
	if v.scrollX != 700 {
		t.Fatalf("scrollX = %v, want 700", v.scrollX)
	}
	v.scrollX = -5
	v.fit(layout.Size{Width: 3000, Height: 2000}, 800, 1000)
	if v.scrollX != 0 {
		t.Fatalf("scrollX = %v, want 0", v.scrollX)
	}
}

func TestViewportProjectCulls(t *testing.T) {
	v := viewport{scrollX: 100}
	panel := image.Rect(10, 10, 410, 310)
	p, ok := v.project(geometry.Rect{X: 200, Y: 20, W: 10, H: 4}, 1, panel)
	if !ok || p.X != 110 || p.Y != 30 {
		t.Fatalf("unexpected projection %+v visible=%v", p, ok)
	}
	if _, ok := v.project(geometry.Rect{X: 10, Y: 20, W: 10, H: 4}, 1, panel); ok {
		t.Fatalf("rect scrolled off the left should be culled")
	}
}

func TestNextWraps(t *testing.T) {
	if got := next(geometry.GameModes, geometry.GameBass, 1); got != geometry.GameDrum {
		t.Fatalf("next after bass = %v", got)
	}
	if got := next(layout.Scales, 0.5, -1); got != 2.0 {
		t.Fatalf("scale before 0.5 = %v", got)
	}
	if got := next(layout.Scales, 0.75, 1); got != 0.5 {
		t.Fatalf("unknown scale = %v", got)
	}
}

func TestParseHex(t *testing.T) {
	if got := parseHex("#ff8000"); got != (color.RGBA{255, 128, 0, 255}) {
		t.Fatalf("parseHex = %v", got)
	}
	if got := parseHex("zz"); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("parseHex fallback = %v", got)
	}
}
