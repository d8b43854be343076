package layout

import "github.com/cbegin/dtxchart-go/internal/dtx"

// MaxFramesPerSurface caps the frames on one drawing surface.
const MaxFramesPerSurface = 50

// BarPlacement locates a bar after packing. OffsetY is measured from the
// start of its frame along the scroll direction.
type BarPlacement struct {
	Surface   int
	Frame     int
	OffsetY   float64
	StartTime float64
}

type SurfaceFrames struct {
	FrameHeights []float64
}

// Tallest is the largest frame height on the surface.
func (s SurfaceFrames) Tallest() float64 {
	if len(s.FrameHeights) == 0 {
		return 0
	}
	return maxOf(s.FrameHeights[0], s.FrameHeights[1:]...)
}

type Packing struct {
	Bars     []BarPlacement
	Surfaces []SurfaceFrames
}

// Pack assigns bars to frames and frames to surfaces without splitting a
// bar. A bar taller than bodyHeight gets a frame to itself.
func Pack(bars []dtx.Bar, pixelsPerSecond, bodyHeight float64) Packing {
	var out Packing
	var heights []float64
	surface, frame := 0, 0
	y := 0.0
	for _, b := range bars {
		h := b.Duration * pixelsPerSecond
		if y > 0 && y+h > bodyHeight {
			heights = append(heights, y)
			if frame+1 >= MaxFramesPerSurface {
				out.Surfaces = append(out.Surfaces, SurfaceFrames{FrameHeights: heights})
				heights = nil
				surface++
				frame = 0
			} else {
				frame++
			}
			y = 0
		}
		out.Bars = append(out.Bars, BarPlacement{Surface: surface, Frame: frame, OffsetY: y, StartTime: b.StartTime})
		y += h
	}
	if len(bars) > 0 {
		heights = append(heights, y)
		out.Surfaces = append(out.Surfaces, SurfaceFrames{FrameHeights: heights})
	}
	return out
}
