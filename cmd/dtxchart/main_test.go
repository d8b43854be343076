package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/dtxchart-go/internal/geometry"
	"github.com/cbegin/dtxchart-go/internal/layout"
)

const song = "#TITLE: Song\n#BPM: 120\n#00112: 1212\n#00121: 21\n"

func writeChart(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "song.dtx")
	require.NoError(t, os.WriteFile(path, []byte(song), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, encodingLabel, dialectName, outputPath = "", "", "", ""
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestInspect(t *testing.T) {
	out, err := run(t, "inspect", writeChart(t), "songInfo.title", "bars.#", `chips.#(laneType=="Snare")#.lineTimePosition.barNumber`, "nope")
	require.NoError(t, err)
	assert.Equal(t, []string{"Song", "2", "[1,1]", ""}, strings.Split(strings.TrimSuffix(out, "\n"), "\n"))
}

func TestParseToFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "doc.json")
	_, err := run(t, "parse", writeChart(t), "-o", dst)
	require.NoError(t, err)
	raw, err := os.ReadFile(dst)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Contains(t, doc, "songInfo")
}

func TestLayoutFlagsOverrideConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "opts.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("gameMode: Bass\nscale: 2\n"), 0o644))
	dst := filepath.Join(t.TempDir(), "layout.json")
	_, err := run(t, "layout", writeChart(t), "--config", cfgPath, "--game", "Guitar", "-o", dst)
	require.NoError(t, err)

	cfg, err := drawingConfig(layoutCmd)
	require.NoError(t, err)
	assert.Equal(t, geometry.GameGuitar, cfg.GameMode)
	assert.Equal(t, 2.0, cfg.Scale)

	raw, err := os.ReadFile(dst)
	require.NoError(t, err)
	var canvases []layout.Canvas
	require.NoError(t, json.Unmarshal(raw, &canvases))
	assert.NotEmpty(t, canvases)
}

func TestRejectsNonChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o644))
	_, err := run(t, "parse", path, "-o", filepath.Join(t.TempDir(), "x.json"))
	assert.Error(t, err)
}
