package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func init() {
	addOutputFlag(parseCmd, "write the document here instead of stdout")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Print the time-resolved chart document as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		chart, err := loadChart(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeJSON(chart)
	},
}

func writeJSON(v any) error {
	out, err := openOutput()
	if err != nil {
		return err
	}
	defer out.Close()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
