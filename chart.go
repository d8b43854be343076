// Package dtxchart parses DTX and GDA rhythm-game charts and lays them out
// as printable chart sheets.
package dtxchart

import (
	"io"
	"log"

	intio "github.com/cbegin/dtxchart-go/internal/chartio"
	intdtx "github.com/cbegin/dtxchart-go/internal/dtx"
	intgeo "github.com/cbegin/dtxchart-go/internal/geometry"
	intlayout "github.com/cbegin/dtxchart-go/internal/layout"
	intmidi "github.com/cbegin/dtxchart-go/internal/midiexport"
	intrender "github.com/cbegin/dtxchart-go/internal/render"
)

type (
	Chart         = intdtx.Chart
	Dialect       = intdtx.Dialect
	Canvas        = intlayout.Canvas
	DrawingConfig = intlayout.DrawingConfig
	GameMode      = intgeo.GameMode
	ChartMode     = intgeo.ChartMode
)

const (
	DialectAuto = intdtx.DialectAuto
	DialectDTX  = intdtx.DialectDTX
	DialectGDA  = intdtx.DialectGDA

	GameDrum   = intgeo.GameDrum
	GameGuitar = intgeo.GameGuitar
	GameBass   = intgeo.GameBass
)

// ErrNoTitle is returned for text that is not a chart.
var ErrNoTitle = intdtx.ErrNoTitle

type Option func(*config)

type config struct {
	dialect  Dialect
	encoding string
	logger   *log.Logger
	assetDir string
}

func defaultConfig() config {
	return config{dialect: DialectAuto, encoding: intio.LabelAuto, logger: log.Default()}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func WithDialect(d Dialect) Option {
	return func(cfg *config) {
		cfg.dialect = d
	}
}

// WithEncoding sets the charset label used by CompileBytes.
func WithEncoding(label string) Option {
	return func(cfg *config) {
		cfg.encoding = label
	}
}

// WithLogger receives parser and layout diagnostics. Nil discards them.
func WithLogger(l *log.Logger) Option {
	return func(cfg *config) {
		if l == nil {
			l = log.New(io.Discard, "", 0)
		}
		cfg.logger = l
	}
}

// WithAssetDir points RenderPDF at banner and hold images.
func WithAssetDir(dir string) Option {
	return func(cfg *config) {
		cfg.assetDir = dir
	}
}

func DefaultDrawingConfig() DrawingConfig { return intlayout.DefaultDrawingConfig() }

func Compile(text string, opts ...Option) (*Chart, error) {
	cfg := newConfig(opts)
	return intdtx.NewParser(intdtx.ParserConfig{Dialect: cfg.dialect, Logger: cfg.logger}).Parse(text)
}

// CompileBytes decodes raw with the configured encoding before parsing.
func CompileBytes(raw []byte, opts ...Option) (*Chart, error) {
	cfg := newConfig(opts)
	text, err := intio.Decode(raw, cfg.encoding)
	if err != nil {
		return nil, err
	}
	return Compile(text, opts...)
}

func Layout(chart *Chart, dc DrawingConfig, opts ...Option) ([]Canvas, error) {
	cfg := newConfig(opts)
	return intlayout.New(intgeo.NewTable(cfg.logger), cfg.logger).Compute(chart, dc)
}

// LayoutAll lays chart out once per game mode, overriding dc.GameMode.
func LayoutAll(chart *Chart, dc DrawingConfig, opts ...Option) (map[GameMode][]Canvas, error) {
	cfg := newConfig(opts)
	pos := intlayout.New(intgeo.NewTable(cfg.logger), cfg.logger)
	out := make(map[GameMode][]Canvas, len(intgeo.GameModes))
	for _, game := range intgeo.GameModes {
		dc.GameMode = game
		canvases, err := pos.Compute(chart, dc)
		if err != nil {
			return nil, err
		}
		out[game] = canvases
	}
	return out, nil
}

func RenderPDF(w io.Writer, canvases []Canvas, opts ...Option) error {
	cfg := newConfig(opts)
	return intrender.PDF(w, canvases, intrender.Options{AssetDir: cfg.assetDir})
}

// ExportMIDI writes the part drawn by game as a Standard MIDI File.
func ExportMIDI(w io.Writer, chart *Chart, game GameMode) error {
	return intmidi.Write(w, chart, intlayout.InstrumentFor(game))
}
