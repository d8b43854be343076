package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dtxchart",
	Short: "Parse and lay out DTX/GDA drum and guitar charts",
	Long: `dtxchart reads .dtx and .gda chart files from disk or s3://bucket/key
and turns them into a time-resolved JSON document, paginated chart layouts,
PDF chart sheets or Standard MIDI Files.`,
	SilenceUsage: true,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&configPath, "config", "", "YAML file with drawing options")
	f.StringVar(&encodingLabel, "encoding", "", "source charset label (default auto, or $DTXCHART_ENCODING)")
	f.StringVar(&dialectName, "dialect", "", "chart dialect: auto|dtx|gda")
	f.BoolVarP(&verbose, "verbose", "v", false, "log parser and layout diagnostics")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
