package dtx

import (
	"os"
	"testing"
)

func parseFixture(t *testing.T, path string) *Chart {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	chart, err := quietParser().Parse(string(raw))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return chart
}

func TestConformance_SampleDTX(t *testing.T) {
	chart := parseFixture(t, "testdata/sample.dtx")
	info := chart.SongInfo
	if info.Title != "Sample Song" || info.Artist != "Test Band" || info.Genre != "Rock" {
		t.Fatalf("unexpected song info %+v", info)
	}
	if info.Comment != "fixture chart ; trailing comment" {
		t.Fatalf("expected the full comment line, got %q", info.Comment)
	}
	if !near(info.DrumLevel, 8.5) || !near(info.GuitarLevel, 6.5) || !near(info.BassLevel, 4.2) {
		t.Fatalf("unexpected levels %+v", info)
	}
	if chart.Dialect != DialectDTX {
		t.Fatalf("expected DTX dialect, got %v", chart.Dialect)
	}
	if len(chart.Bars) != 4 {
		t.Fatalf("expected 4 bars, got %d", len(chart.Bars))
	}
	wantStarts := []float64{0, 2, 4, 5.25}
	for i, b := range chart.Bars {
		if !near(b.StartTime, wantStarts[i]) {
			t.Fatalf("bar %d: expected start %v, got %v", i, wantStarts[i], b.StartTime)
		}
	}
	if chart.Bars[3].LineCount != 144 {
		t.Fatalf("expected bar 3 to inherit 0.75 length, got %v lines", chart.Bars[3].LineCount)
	}
	if !near(info.Duration, 6.25) {
		t.Fatalf("expected 6.25s song, got %v", info.Duration)
	}
	if len(chart.TempoSegments) != 2 {
		t.Fatalf("expected 2 tempo segments, got %d", len(chart.TempoSegments))
	}
	seg := chart.TempoSegments[1]
	if seg.BPM != 180 || seg.StartBar != 2 || seg.StartLine != 72 || !near(seg.StartTime, 4.75) || !near(seg.Duration, 1.5) {
		t.Fatalf("unexpected second segment %+v", seg)
	}
	if len(chart.QuarterBarLines) != 14 {
		t.Fatalf("expected 14 quarter lines, got %d", len(chart.QuarterBarLines))
	}
	if info.DrumNoteCount != 9 || info.GuitarNoteCount != 1 || info.BassNoteCount != 2 {
		t.Fatalf("unexpected note counts %d/%d/%d", info.DrumNoteCount, info.GuitarNoteCount, info.BassNoteCount)
	}
	paired := 0
	for _, n := range chart.Notes {
		if n.End != nil {
			paired++
			if n.Bar != 1 || n.End.Bar != 2 {
				t.Fatalf("unexpected hold span %+v -> %+v", n.TimePosition, *n.End)
			}
		}
	}
	if paired != 1 {
		t.Fatalf("expected 1 paired hold, got %d", paired)
	}
}

func TestConformance_SampleGDA(t *testing.T) {
	chart := parseFixture(t, "testdata/sample.gda")
	if chart.Dialect != DialectGDA {
		t.Fatalf("expected GDA dialect, got %v", chart.Dialect)
	}
	if chart.SongInfo.Title != "Mnemonic Song" {
		t.Fatalf("unexpected title %q", chart.SongInfo.Title)
	}
	if len(chart.Bars) != 2 || !near(chart.SongInfo.Duration, 3.2) {
		t.Fatalf("expected 2 bars over 3.2s, got %d over %v", len(chart.Bars), chart.SongInfo.Duration)
	}
	if chart.SongInfo.DrumNoteCount != 9 {
		t.Fatalf("expected 9 drum notes, got %d", chart.SongInfo.DrumNoteCount)
	}
	if chart.LaneCounts[ButtonLane(InstrumentGuitar, "00100")] != 2 {
		t.Fatalf("expected 2 blue guitar notes, got %v", chart.LaneCounts)
	}
	if chart.SongInfo.BassNoteCount != 1 {
		t.Fatalf("expected 1 bass note, got %d", chart.SongInfo.BassNoteCount)
	}
}

func TestConformance_ExplicitDialectOverridesDetection(t *testing.T) {
	cfg := QuietParserConfig()
	cfg.Dialect = DialectDTX
	raw, err := os.ReadFile("testdata/sample.gda")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	chart, err := NewParser(cfg).Parse(string(raw))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(chart.Notes) != 0 {
		t.Fatalf("mnemonic codes are unknown in DTX tables, got %d notes", len(chart.Notes))
	}
}
