package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/cbegin/dtxchart-go/internal/config"
	"github.com/cbegin/dtxchart-go/internal/geometry"
	"github.com/cbegin/dtxchart-go/internal/layout"
	"github.com/cbegin/dtxchart-go/internal/render"
)

var assetDir string

func init() {
	addDrawingFlags(renderCmd)
	addOutputFlag(renderCmd, "PDF output path (default stdout)")
	renderCmd.Flags().StringVar(&assetDir, "assets", "", "directory of <Name>.png banner and hold images")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Draw the chart sheet as a PDF, one page per surface",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := drawingConfig(cmd)
		if err != nil {
			return err
		}
		chart, err := loadChart(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		canvases, err := layout.New(geometry.NewTable(logger()), logger()).Compute(chart, cfg)
		if err != nil {
			return err
		}
		dir := assetDir
		if dir == "" {
			dir = os.Getenv(config.EnvAssets)
		}
		out, err := openOutput()
		if err != nil {
			return err
		}
		defer out.Close()
		return errors.Wrap(render.PDF(out, canvases, render.Options{AssetDir: dir, Title: chart.SongInfo.Title}), "render")
	},
}
