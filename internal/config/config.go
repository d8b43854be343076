// Package config loads drawing settings from YAML and reads the
// environment defaults used by the command line and the server.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cbegin/dtxchart-go/internal/chartio"
	"github.com/cbegin/dtxchart-go/internal/dtx"
	"github.com/cbegin/dtxchart-go/internal/layout"
)

const (
	EnvAddr     = "DTXCHART_ADDR"
	EnvEncoding = "DTXCHART_ENCODING"
	EnvAssets   = "DTXCHART_ASSETS"

	DefaultAddr = ":8080"
)

// File is the on-disk configuration. Drawing keys sit at the top level.
type File struct {
	layout.DrawingConfig `yaml:",inline"`

	Encoding string `yaml:"encoding"`
	Dialect  string `yaml:"dialect"`
	Assets   string `yaml:"assets"`
}

// Default returns the configuration used when no file is given.
func Default() File {
	return File{
		DrawingConfig: layout.DefaultDrawingConfig(),
		Encoding:      Encoding(),
		Dialect:       "auto",
		Assets:        os.Getenv(EnvAssets),
	}
}

// Load reads path over the defaults. An empty path returns Default.
func Load(path string) (File, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, errors.Wrap(err, "config: read")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return File{}, errors.Wrapf(err, "config: parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return File{}, errors.Wrapf(err, "config: %s", path)
	}
	return cfg, nil
}

func (f File) Validate() error {
	if err := f.DrawingConfig.Validate(); err != nil {
		return err
	}
	_, err := f.ParserDialect()
	return err
}

func (f File) ParserDialect() (dtx.Dialect, error) {
	return dtx.ParseDialect(f.Dialect)
}

// Addr is the listen address for the HTTP server.
func Addr() string {
	return getenv(EnvAddr, DefaultAddr)
}

// Encoding is the default source encoding label.
func Encoding() string {
	return getenv(EnvEncoding, chartio.LabelAuto)
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
