package layout

import (
	"fmt"
	"math"
	"strconv"

	"github.com/cbegin/dtxchart-go/internal/dtx"
	"github.com/cbegin/dtxchart-go/internal/geometry"
)

const (
	bannerWidth  = 160
	bannerHeight = 40
)

// FormatBPM prints a tempo with at most two decimals and no trailing zeros.
func FormatBPM(bpm float64) string {
	return strconv.FormatFloat(math.Round(bpm*100)/100, 'f', -1, 64)
}

// FormatLevel prints a level the way each chart mode displays it.
func FormatLevel(level float64, chart geometry.ChartMode) string {
	if chart == geometry.ChartClassic {
		return strconv.Itoa(int(math.Floor(level*10 + 1e-9)))
	}
	return fmt.Sprintf("%.2f", level)
}

// Summary returns the "BPM  Length  Notes" header line.
func Summary(chart *dtx.Chart, inst dtx.Instrument) string {
	bpm := "-"
	if segs := chart.TempoSegments; len(segs) > 0 {
		lo, hi := segs[0].BPM, segs[0].BPM
		for _, s := range segs[1:] {
			lo, hi = minOf(lo, s.BPM), maxOf(hi, s.BPM)
		}
		bpm = FormatBPM(lo)
		if hi != lo {
			bpm += "-" + FormatBPM(hi)
		}
	}
	secs := int(chart.SongInfo.Duration)
	return fmt.Sprintf("BPM %s  Length %d:%02d  Notes %d", bpm, secs/60, secs%60, chart.NoteCount(inst))
}

// BannerName is the image key of the difficulty banner.
func BannerName(game geometry.GameMode, difficulty DifficultyLabel) string {
	return fmt.Sprintf("%s%sBannerSmall", game, difficulty)
}

func (r *resolver) emitHeader(surface int) {
	c := &r.canvases[surface]
	info := r.chart.SongInfo
	inst := InstrumentFor(r.cfg.GameMode)
	textWidth := maxOf(c.Size.Width-bannerWidth-2*marginRight, 100)

	r.addLabel(surface, geometry.Rect{X: marginLeft, Y: 4, W: textWidth, H: 22}, info.Title, 20, 700)
	r.addLabel(surface, geometry.Rect{X: marginLeft, Y: 28, W: textWidth, H: 14}, info.Artist, 12, 400)
	r.addLabel(surface, geometry.Rect{X: marginLeft, Y: 44, W: textWidth, H: 14}, Summary(r.chart, inst), 12, 400)

	bannerX := maxOf(c.Size.Width-bannerWidth-marginRight, marginLeft)
	c.ImageRects = append(c.ImageRects, geometry.ImageRect{
		Name: BannerName(r.cfg.GameMode, r.cfg.Difficulty),
		Rect: geometry.Rect{X: bannerX, Y: 4, W: bannerWidth, H: bannerHeight},
	})
	if r.cfg.LevelShown {
		r.addLabel(surface, geometry.Rect{X: bannerX, Y: 4 + bannerHeight, W: bannerWidth, H: 14},
			FormatLevel(r.chart.Level(inst), r.cfg.ChartMode), 14, 700)
	}
}
