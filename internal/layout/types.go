package layout

import (
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/cbegin/dtxchart-go/internal/dtx"
	"github.com/cbegin/dtxchart-go/internal/geometry"
)

type DifficultyLabel string

const (
	Basic    DifficultyLabel = "Basic"
	Advanced DifficultyLabel = "Advanced"
	Extreme  DifficultyLabel = "Extreme"
	Master   DifficultyLabel = "Master"
	Real     DifficultyLabel = "Real"
)

var DifficultyLabels = []DifficultyLabel{Basic, Advanced, Extreme, Master, Real}

var Scales = []float64{0.5, 1.0, 1.5, 2.0}

const (
	MinHeight = 2000
	MaxHeight = 4000
)

type DrawingConfig struct {
	Difficulty DifficultyLabel    `json:"difficultyLabel" yaml:"difficulty"`
	Scale      float64            `json:"scale" yaml:"scale"`
	MaxHeight  float64            `json:"maxHeight" yaml:"maxHeight"`
	ChartMode  geometry.ChartMode `json:"chartMode" yaml:"chartMode"`
	GameMode   geometry.GameMode  `json:"gameMode" yaml:"gameMode"`
	LevelShown bool               `json:"isLevelShown" yaml:"levelShown"`
}

func DefaultDrawingConfig() DrawingConfig {
	return DrawingConfig{
		Difficulty: Master,
		Scale:      1.0,
		MaxHeight:  3000,
		ChartMode:  geometry.ChartXG,
		GameMode:   geometry.GameDrum,
		LevelShown: true,
	}
}

func (c DrawingConfig) Validate() error {
	if !slices.Contains(DifficultyLabels, c.Difficulty) {
		return fmt.Errorf("layout: unknown difficulty %q", c.Difficulty)
	}
	if !slices.Contains(Scales, c.Scale) {
		return fmt.Errorf("layout: scale %g not in %v", c.Scale, Scales)
	}
	if c.MaxHeight < MinHeight || c.MaxHeight > MaxHeight {
		return fmt.Errorf("layout: max height %g outside [%d, %d]", c.MaxHeight, MinHeight, MaxHeight)
	}
	if !slices.Contains(geometry.ChartModes, c.ChartMode) {
		return fmt.Errorf("layout: unknown chart mode %q", c.ChartMode)
	}
	if !slices.Contains(geometry.GameModes, c.GameMode) {
		return fmt.Errorf("layout: unknown game mode %q", c.GameMode)
	}
	return nil
}

// NoteRect is any positioned rectangle: bar and quarter lines, tempo
// markers, chips and the end line. Lane names the draw lane.
type NoteRect struct {
	Lane  string        `json:"laneType"`
	Rect  geometry.Rect `json:"rectPos"`
	Color string        `json:"color"`
}

type TextLabel struct {
	Rect       geometry.Rect `json:"rectPos"`
	Text       string        `json:"text"`
	FontFamily string        `json:"fontFamily"`
	FontSize   float64       `json:"fontSize"`
	FontWeight int           `json:"fontWeight"`
	Color      string        `json:"color"`
}

type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Canvas is the layout of one drawing surface.
type Canvas struct {
	NoteRects       []NoteRect           `json:"chipPositions"`
	TextLabels      []TextLabel          `json:"textPositions"`
	PanelRects      []geometry.Rect      `json:"frameRect"`
	ImageRects      []geometry.ImageRect `json:"images"`
	Size            Size                 `json:"canvasSize"`
	BackgroundColor string               `json:"backgroundColor"`
}

// InstrumentFor is the part a game mode draws.
func InstrumentFor(game geometry.GameMode) dtx.Instrument {
	switch game {
	case geometry.GameGuitar:
		return dtx.InstrumentGuitar
	case geometry.GameBass:
		return dtx.InstrumentBass
	}
	return dtx.InstrumentDrum
}
