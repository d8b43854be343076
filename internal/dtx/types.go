package dtx

import (
	"fmt"
	"io"
	"log"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Dialect selects the lane-code table used to decode event lines.
type Dialect int

const (
	DialectAuto Dialect = iota
	DialectDTX
	DialectGDA
)

func (d Dialect) String() string {
	switch d {
	case DialectDTX:
		return "DTX"
	case DialectGDA:
		return "GDA"
	default:
		return "Auto"
	}
}

func (d Dialect) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Dialect) UnmarshalText(b []byte) error {
	v, err := ParseDialect(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDialect accepts "auto", "dtx" or "gda" in any case.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return DialectAuto, nil
	case "dtx":
		return DialectDTX, nil
	case "gda":
		return DialectGDA, nil
	}
	return DialectAuto, fmt.Errorf("dtx: unknown dialect %q", s)
}

// TimePosition locates an event both musically and in absolute seconds.
type TimePosition struct {
	Bar  int     `json:"barNumber"`
	Line float64 `json:"lineNumberInBar"`
	Time float64 `json:"timePosition"`
}

type SongInfo struct {
	Title           string  `json:"title"`
	Artist          string  `json:"artist"`
	Genre           string  `json:"genre,omitempty"`
	Comment         string  `json:"comment"`
	DrumLevel       float64 `json:"difficultyLevelDrum"`
	GuitarLevel     float64 `json:"difficultyLevelGuitar"`
	BassLevel       float64 `json:"difficultyLevelBass"`
	Duration        float64 `json:"songDuration"`
	DrumNoteCount   int     `json:"noteCountDrum"`
	GuitarNoteCount int     `json:"noteCountGuitar"`
	BassNoteCount   int     `json:"noteCountBass"`
}

type Bar struct {
	LineCount float64 `json:"lineCount"`
	StartTime float64 `json:"startTimePos"`
	Duration  float64 `json:"duration"`
}

// End returns the absolute time where the next bar starts.
func (b Bar) End() float64 { return b.StartTime + b.Duration }

type TempoSegment struct {
	BPM       float64 `json:"bpm"`
	StartBar  int     `json:"startBarNum"`
	StartLine float64 `json:"startLineNum"`
	StartTime float64 `json:"startTimePos"`
	Duration  float64 `json:"duration"`
}

type Note struct {
	TimePosition `json:"lineTimePosition"`
	Code         string        `json:"chipCode"`
	Lane         string        `json:"laneType"`
	End          *TimePosition `json:"lineTimePositionEnd,omitempty"`
}

// Chart is the fully time-resolved document produced by Parse. It is not
// modified after Parse returns.
type Chart struct {
	Dialect         Dialect        `json:"dialect"`
	SongInfo        SongInfo       `json:"songInfo"`
	Bars            []Bar          `json:"bars"`
	TempoSegments   []TempoSegment `json:"bpmSegments"`
	QuarterBarLines []TimePosition `json:"quarterBarLines"`
	Notes           []Note         `json:"chips"`
	LaneCounts      map[string]int `json:"laneChipCounter"`
}

// Lanes returns the lane names with a count entry, sorted.
func (c *Chart) Lanes() []string {
	keys := maps.Keys(c.LaneCounts)
	slices.Sort(keys)
	return keys
}

// Level returns the normalised difficulty level for inst.
func (c *Chart) Level(inst Instrument) float64 {
	switch inst {
	case InstrumentGuitar:
		return c.SongInfo.GuitarLevel
	case InstrumentBass:
		return c.SongInfo.BassLevel
	default:
		return c.SongInfo.DrumLevel
	}
}

// NoteCount returns the scorable note count for inst.
func (c *Chart) NoteCount(inst Instrument) int {
	switch inst {
	case InstrumentGuitar:
		return c.SongInfo.GuitarNoteCount
	case InstrumentBass:
		return c.SongInfo.BassNoteCount
	default:
		return c.SongInfo.DrumNoteCount
	}
}

type ParserConfig struct {
	Dialect Dialect
	// Logger receives diagnostics for invalid time queries. Nil uses log.Default().
	Logger *log.Logger
}

func DefaultParserConfig() ParserConfig {
	return ParserConfig{Dialect: DialectAuto}
}

func (c ParserConfig) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return log.Default()
}

// QuietParserConfig is DefaultParserConfig with diagnostics discarded.
func QuietParserConfig() ParserConfig {
	cfg := DefaultParserConfig()
	cfg.Logger = log.New(io.Discard, "", 0)
	return cfg
}
