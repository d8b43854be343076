package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cbegin/dtxchart-go/internal/config"
	"github.com/cbegin/dtxchart-go/internal/server"
)

var addr string

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default $DTXCHART_ADDR or :8080)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve chart parsing and layout over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := loadFile()
		if err != nil {
			return err
		}
		dialect, err := file.ParserDialect()
		if err != nil {
			return err
		}
		listen := addr
		if listen == "" {
			listen = config.Addr()
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		s := server.New(server.Options{
			Encoding: file.Encoding,
			Dialect:  dialect,
			AssetDir: file.Assets,
			Logger:   log.New(os.Stderr, "dtxchart: ", log.LstdFlags),
		})
		return s.ListenAndServe(ctx, listen)
	},
}
