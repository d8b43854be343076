package main

import (
	"github.com/spf13/cobra"

	"github.com/cbegin/dtxchart-go/internal/geometry"
	"github.com/cbegin/dtxchart-go/internal/layout"
)

var layoutAll bool

func init() {
	addDrawingFlags(layoutCmd)
	addOutputFlag(layoutCmd, "write the layout here instead of stdout")
	layoutCmd.Flags().BoolVar(&layoutAll, "all", false, "lay out every game mode, keyed by mode")
	rootCmd.AddCommand(layoutCmd)
}

var layoutCmd = &cobra.Command{
	Use:   "layout FILE",
	Short: "Print the positioned drawing surfaces as JSON",
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
		pos := layout.New(geometry.NewTable(logger()), logger())
		if !layoutAll {
			canvases, err := pos.Compute(chart, cfg)
			if err != nil {
				return err
			}
			return writeJSON(canvases)
		}
		all := make(map[geometry.GameMode][]layout.Canvas)
		for _, game := range geometry.GameModes {
			cfg.GameMode = game
			canvases, err := pos.Compute(chart, cfg)
			if err != nil {
				return err
			}
			all[game] = canvases
		}
		return writeJSON(all)
	},
}
