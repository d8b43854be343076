package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE PATH...",
	Short: "Query the chart document with gjson paths",
	Long: `Query the chart document with gjson paths, one result per line.

  dtxchart inspect song.dtx songInfo.title bars.#
  dtxchart inspect song.dtx 'chips.#(laneType=="Snare")#.lineTimePosition.barNumber'`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		chart, err := loadChart(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		doc, err := json.Marshal(chart)
		if err != nil {
			return err
		}
		for _, line := range inspect(doc, args[1:]) {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

// inspect evaluates each path against doc. Missing paths print empty.
func inspect(doc []byte, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, res := range gjson.GetManyBytes(doc, paths...) {
		if res.Type == gjson.String {
			out = append(out, res.Str)
			continue
		}
		out = append(out, res.Raw)
	}
	return out
}
