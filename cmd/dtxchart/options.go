package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/cbegin/dtxchart-go/internal/chartio"
	"github.com/cbegin/dtxchart-go/internal/config"
	"github.com/cbegin/dtxchart-go/internal/dtx"
	"github.com/cbegin/dtxchart-go/internal/geometry"
	"github.com/cbegin/dtxchart-go/internal/layout"
)

var (
	configPath    string
	encodingLabel string
	dialectName   string
	verbose       bool
	outputPath    string

	gameName   string
	chartName  string
	difficulty string
	scale      float64
	maxHeight  float64
	levelShown bool
)

func addOutputFlag(cmd *cobra.Command, usage string) {
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", usage)
}

func addGameFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&gameName, "game", "g", string(geometry.GameDrum), "game mode: Drum|Guitar|Bass")
}

func addDrawingFlags(cmd *cobra.Command) {
	addGameFlag(cmd)
	f := cmd.Flags()
	f.StringVar(&chartName, "chart-mode", string(geometry.ChartXG), "chart mode: XG/Gitadora|Classic|Full")
	f.StringVar(&difficulty, "difficulty", string(layout.Master), "difficulty banner label")
	f.Float64Var(&scale, "scale", 1.0, "vertical scale: 0.5|1|1.5|2")
	f.Float64Var(&maxHeight, "max-height", 3000, "maximum surface height in pixels (2000-4000)")
	f.BoolVar(&levelShown, "level", true, "print the difficulty level under the banner")
}

func logger() *log.Logger {
	if verbose {
		return log.New(os.Stderr, "dtxchart: ", 0)
	}
	return log.New(io.Discard, "", 0)
}

// loadFile reads --config and applies the root flags over it.
func loadFile() (config.File, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if encodingLabel != "" {
		cfg.Encoding = encodingLabel
	}
	if dialectName != "" {
		cfg.Dialect = dialectName
	}
	return cfg, cfg.Validate()
}

// drawingConfig applies the drawing flags the user set over the file values.
func drawingConfig(cmd *cobra.Command) (layout.DrawingConfig, error) {
	file, err := loadFile()
	if err != nil {
		return layout.DrawingConfig{}, err
	}
	cfg := file.DrawingConfig
	f := cmd.Flags()
	if f.Changed("game") {
		if cfg.GameMode, err = geometry.ParseGameMode(gameName); err != nil {
			return cfg, err
		}
	}
	if f.Changed("chart-mode") {
		if cfg.ChartMode, err = geometry.ParseChartMode(chartName); err != nil {
			return cfg, err
		}
	}
	if f.Changed("difficulty") {
		cfg.Difficulty = layout.DifficultyLabel(difficulty)
	}
	if f.Changed("scale") {
		cfg.Scale = scale
	}
	if f.Changed("max-height") {
		cfg.MaxHeight = maxHeight
	}
	if f.Changed("level") {
		cfg.LevelShown = levelShown
	}
	return cfg, cfg.Validate()
}

func loadChart(ctx context.Context, uri string) (*dtx.Chart, error) {
	file, err := loadFile()
	if err != nil {
		return nil, err
	}
	dialect, err := file.ParserDialect()
	if err != nil {
		return nil, err
	}
	text, err := (&chartio.Opener{}).OpenText(ctx, uri, file.Encoding)
	if err != nil {
		return nil, err
	}
	return dtx.NewParser(dtx.ParserConfig{Dialect: dialect, Logger: logger()}).Parse(text)
}

func openOutput() (io.WriteCloser, error) {
	if outputPath == "" || outputPath == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outputPath)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
