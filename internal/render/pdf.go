// Package render draws computed canvases into a PDF, one page per surface.
package render

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"

	"github.com/cbegin/dtxchart-go/internal/geometry"
	"github.com/cbegin/dtxchart-go/internal/layout"
)

// ptPerPx maps layout pixels to PDF points.
const ptPerPx = 0.75

type Options struct {
	// AssetDir holds "<Name>.png" images for banners and holds. Missing
	// images are drawn as outlined placeholders.
	AssetDir string
	Title    string
}

// PDF writes canvases to w.
func PDF(w io.Writer, canvases []layout.Canvas, opts Options) error {
	pdf, err := build(canvases, opts)
	if err != nil {
		return err
	}
	return errors.Wrap(pdf.Output(w), "render: output")
}

func build(canvases []layout.Canvas, opts Options) (*gofpdf.Fpdf, error) {
	if len(canvases) == 0 {
		return nil, errors.New("render: no canvases")
	}
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("dtxchart", true)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, c := range canvases {
		drawCanvas(pdf, c, opts, tr)
		if pdf.Err() {
			return nil, errors.Wrap(pdf.Error(), "render: draw")
		}
	}
	return pdf, nil
}

func drawCanvas(pdf *gofpdf.Fpdf, c layout.Canvas, opts Options, tr func(string) string) {
	w, h := c.Size.Width*ptPerPx, c.Size.Height*ptPerPx
	orientation := "P"
	if w > h {
		orientation = "L"
	}
	pdf.AddPageFormat(orientation, gofpdf.SizeType{Wd: w, Ht: h})

	fill(pdf, c.BackgroundColor)
	pdf.Rect(0, 0, w, h, "F")

	fill(pdf, layout.PanelColor)
	for _, r := range c.PanelRects {
		rect(pdf, r, "F")
	}
	for _, n := range c.NoteRects {
		fill(pdf, n.Color)
		rect(pdf, n.Rect, "F")
	}
	for _, img := range c.ImageRects {
		drawImage(pdf, img, opts.AssetDir)
	}
	for _, l := range c.TextLabels {
		drawText(pdf, l, tr)
	}
}

func drawImage(pdf *gofpdf.Fpdf, img geometry.ImageRect, dir string) {
	if dir != "" {
		path := filepath.Join(dir, img.Name+".png")
		if _, err := os.Stat(path); err == nil {
			r := img.Rect
			pdf.ImageOptions(path, r.X*ptPerPx, r.Y*ptPerPx, r.W*ptPerPx, r.H*ptPerPx,
				false, gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}, 0, "")
			return
		}
	}
	pdf.SetDrawColor(160, 160, 160)
	pdf.SetLineWidth(0.5)
	rect(pdf, img.Rect, "D")
}

func drawText(pdf *gofpdf.Fpdf, l layout.TextLabel, tr func(string) string) {
	style := ""
	if l.FontWeight >= 600 {
		style = "B"
	}
	pdf.SetFont(fontFamily(l.FontFamily), style, l.FontSize*ptPerPx)
	r, g, b := parseHex(l.Color)
	pdf.SetTextColor(r, g, b)
	pdf.SetXY(l.Rect.X*ptPerPx, l.Rect.Y*ptPerPx)
	pdf.CellFormat(l.Rect.W*ptPerPx, l.Rect.H*ptPerPx, tr(l.Text), "", 0, "LM", false, 0, "")
}

func rect(pdf *gofpdf.Fpdf, r geometry.Rect, style string) {
	pdf.Rect(r.X*ptPerPx, r.Y*ptPerPx, r.W*ptPerPx, r.H*ptPerPx, style)
}

func fill(pdf *gofpdf.Fpdf, hex string) {
	r, g, b := parseHex(hex)
	pdf.SetFillColor(r, g, b)
}

// fontFamily maps layout font names onto the PDF core fonts.
func fontFamily(name string) string {
	switch strings.ToLower(name) {
	case "courier", "monospace":
		return "Courier"
	case "times", "serif":
		return "Times"
	}
	return "Helvetica"
}

// parseHex reads "#rrggbb" or "#rgb". Anything else is white.
func parseHex(s string) (int, int, int) {
	s = strings.TrimPrefix(s, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 255, 255, 255
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 255, 255, 255
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
