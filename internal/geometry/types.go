package geometry

import "fmt"

type GameMode string

const (
	GameDrum   GameMode = "Drum"
	GameGuitar GameMode = "Guitar"
	GameBass   GameMode = "Bass"
)

var GameModes = []GameMode{GameDrum, GameGuitar, GameBass}

func ParseGameMode(s string) (GameMode, error) {
	for _, m := range GameModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown game mode %q", s)
}

// ChartMode controls how many physical lanes and buttons are modelled.
type ChartMode string

const (
	ChartXG      ChartMode = "XG/Gitadora"
	ChartClassic ChartMode = "Classic"
	ChartFull    ChartMode = "Full"
)

var ChartModes = []ChartMode{ChartXG, ChartClassic, ChartFull}

func ParseChartMode(s string) (ChartMode, error) {
	for _, m := range ChartModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown chart mode %q", s)
}

// RelativeRect is a lane slot relative to the left edge of a frame. Chips
// are centred vertically on their time so only the height is fixed.
type RelativeRect struct {
	X      float64 `json:"posX"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type DrawLane struct {
	Name string       `json:"drawingLane"`
	Rect RelativeRect `json:"chipRelativePosSize"`
}

// Rect is an absolute rectangle with its origin at the top left.
type Rect struct {
	X float64 `json:"posX"`
	Y float64 `json:"posY"`
	W float64 `json:"width"`
	H float64 `json:"height"`
}

type ImageRect struct {
	Name string `json:"imageKey"`
	Rect Rect   `json:"rect"`
}
