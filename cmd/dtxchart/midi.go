package main

import (
	"github.com/spf13/cobra"

	"github.com/cbegin/dtxchart-go/internal/geometry"
	"github.com/cbegin/dtxchart-go/internal/layout"
	"github.com/cbegin/dtxchart-go/internal/midiexport"
)

func init() {
	addGameFlag(midiCmd)
	addOutputFlag(midiCmd, "SMF output path (default stdout)")
	rootCmd.AddCommand(midiCmd)
}

var midiCmd = &cobra.Command{
	Use:   "midi FILE",
	Short: "Export one part of the chart as a Standard MIDI File",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		game, err := geometry.ParseGameMode(gameName)
		if err != nil {
			return err
		}
		chart, err := loadChart(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out, err := openOutput()
		if err != nil {
			return err
		}
		defer out.Close()
		return midiexport.Write(out, chart, layout.InstrumentFor(game))
	},
}
