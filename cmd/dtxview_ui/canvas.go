package main

import (
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/cbegin/dtxchart-go/internal/geometry"
	"github.com/cbegin/dtxchart-go/internal/layout"
)

// minLabelZoom hides layout text once it would be unreadable.
const minLabelZoom = 0.5

// viewport maps canvas pixels into the chart panel. The surface height is
// fitted to the panel; scrollX pans across frames.
type viewport struct {
	scrollX float64
}

// fit returns the zoom and clamps scrollX for a canvas of size c drawn in
// a panel of size pw by ph.
func (v *viewport) fit(c layout.Size, pw, ph float64) float64 {
	if c.Width <= 0 || c.Height <= 0 {
		return 1
	}
	zoom := min(ph/c.Height, 1)
	maxScroll := max(0, c.Width*zoom-pw)
	v.scrollX = max(0, min(v.scrollX, maxScroll))
	return zoom
}

// project maps r into screen space and reports whether any of it falls
// inside the panel.
func (v *viewport) project(r geometry.Rect, zoom float64, panel image.Rectangle) (geometry.Rect, bool) {
	out := geometry.Rect{
		X: float64(panel.Min.X) + r.X*zoom - v.scrollX,
		Y: float64(panel.Min.Y) + r.Y*zoom,
		W: max(r.W*zoom, 1),
		H: max(r.H*zoom, 1),
	}
	visible := out.X+out.W >= float64(panel.Min.X) && out.X <= float64(panel.Max.X) &&
		out.Y+out.H >= float64(panel.Min.Y) && out.Y <= float64(panel.Max.Y)
	return out, visible
}

func (g *game) drawCanvas(screen *ebiten.Image, panel image.Rectangle, c layout.Canvas) {
	inner := panel.Inset(2)
	dst := screen.SubImage(inner).(*ebiten.Image)
	zoom := g.view.fit(c.Size, float64(inner.Dx()), float64(inner.Dy()))

	fill := func(r geometry.Rect, clr color.Color) {
		if p, ok := g.view.project(r, zoom, inner); ok {
			ebitenutil.DrawRect(dst, p.X, p.Y, p.W, p.H, clr)
		}
	}
	fill(geometry.Rect{W: c.Size.Width, H: c.Size.Height}, parseHex(c.BackgroundColor))
	panelFill := parseHex(layout.PanelColor)
	for _, r := range c.PanelRects {
		fill(r, panelFill)
	}
	for _, n := range c.NoteRects {
		fill(n.Rect, parseHex(n.Color))
	}
	for _, img := range c.ImageRects {
		g.drawImagePlaceholder(dst, img, zoom, inner)
	}
	if zoom < minLabelZoom {
		return
	}
	for _, l := range c.TextLabels {
		if p, ok := g.view.project(l.Rect, zoom, inner); ok {
			g.drawLabel(dst, l.Text, p.X, p.Y, zoom)
		}
	}
}

func (g *game) drawImagePlaceholder(dst *ebiten.Image, img geometry.ImageRect, zoom float64, panel image.Rectangle) {
	p, ok := g.view.project(img.Rect, zoom, panel)
	if !ok {
		return
	}
	outline := color.RGBA{160, 160, 160, 255}
	ebitenutil.DrawRect(dst, p.X, p.Y, p.W, 1, outline)
	ebitenutil.DrawRect(dst, p.X, p.Y+p.H-1, p.W, 1, outline)
	ebitenutil.DrawRect(dst, p.X, p.Y, 1, p.H, outline)
	ebitenutil.DrawRect(dst, p.X+p.W-1, p.Y, 1, p.H, outline)
	if p.W > 40 && p.H > 14 && zoom >= minLabelZoom {
		g.drawLabel(dst, img.Name, p.X+3, p.Y+2, zoom)
	}
}

func (g *game) drawLabel(dst *ebiten.Image, msg string, x, y, zoom float64) {
	if msg == "" {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(zoom, zoom)
	op.GeoM.Translate(x, y)
	dst.DrawImage(g.textImage(msg), op)
}

// next steps through vals from cur, wrapping at both ends. An unknown cur
// starts from the first value.
func next[T comparable](vals []T, cur T, step int) T {
	for i, v := range vals {
		if v == cur {
			return vals[((i+step)%len(vals)+len(vals))%len(vals)]
		}
	}
	return vals[0]
}

// parseHex reads "#rrggbb" or "#rgb". Anything else is white.
func parseHex(s string) color.RGBA {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if len(s) != 6 || err != nil {
		return color.RGBA{255, 255, 255, 255}
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 255}
}
