package dtx

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
)

// ErrNoTitle is returned when the input lacks a #TITLE record.
var ErrNoTitle = errors.New("dtx: has no #TITLE tag")

// ParseError reports a failure in one of the derivation stages after the
// title check. No chart is returned alongside it.
type ParseError struct {
	Stage string
	Err   error
}

func (e *ParseError) Error() string { return fmt.Sprintf("dtx: %s: %v", e.Stage, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

type Parser struct{ cfg ParserConfig }

func NewParser(cfg ParserConfig) *Parser { return &Parser{cfg: cfg} }

// Parse runs NewParser(DefaultParserConfig()).Parse(text).
func Parse(text string) (*Chart, error) {
	return NewParser(DefaultParserConfig()).Parse(text)
}

func (p *Parser) Parse(text string) (chart *Chart, err error) {
	if !strings.Contains(text, "#TITLE") {
		return nil, ErrNoTitle
	}
	st := &parseState{stage: "records", logger: p.cfg.logger()}
	defer func() {
		if r := recover(); r != nil {
			chart, err = nil, &ParseError{Stage: st.stage, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	doc := readDocument(text)
	dialect := p.cfg.Dialect
	if dialect == DialectAuto {
		dialect = detectDialect(doc.events)
	}
	lanes := tableFor(dialect)

	st.stage = "bar lengths"
	highest := highestBar(doc.events)
	barLengths, err := resolveBarLengths(doc.events, highest)
	if err != nil {
		return nil, &ParseError{Stage: st.stage, Err: err}
	}

	st.stage = "tempo markers"
	markers, err := resolveTempoMarkers(doc, barLengths)
	if err != nil {
		return nil, &ParseError{Stage: st.stage, Err: err}
	}
	tl := newTimeline(barLengths, markers, st.logger)

	st.stage = "timing"
	duration := tl.TimeAt(highest+1, 0)
	c := &Chart{
		Dialect: dialect,
		SongInfo: SongInfo{
			Title:       doc.headers["TITLE"],
			Artist:      doc.headers["ARTIST"],
			Genre:       doc.headers["GENRE"],
			Comment:     doc.headers["COMMENT"],
			DrumLevel:   normalizeLevel(doc.headers["DLEVEL"]),
			GuitarLevel: normalizeLevel(doc.headers["GLEVEL"]),
			BassLevel:   normalizeLevel(doc.headers["BLEVEL"]),
			Duration:    duration,
		},
	}
	c.Bars = buildBars(tl, len(barLengths))
	c.TempoSegments = buildTempoSegments(tl, duration)
	c.QuarterBarLines = buildQuarterLines(tl, c.Bars)

	st.stage = "notes"
	c.Notes, c.LaneCounts = extractNotes(doc.events, lanes, tl, len(barLengths))

	st.stage = "holds"
	pairHolds(c.Notes, InstrumentGuitar, LaneGuitarHold)
	pairHolds(c.Notes, InstrumentBass, LaneBassHold)

	st.stage = "counts"
	c.SongInfo.DrumNoteCount = countNotes(lanes, c.LaneCounts, InstrumentDrum)
	c.SongInfo.GuitarNoteCount = countNotes(lanes, c.LaneCounts, InstrumentGuitar)
	c.SongInfo.BassNoteCount = countNotes(lanes, c.LaneCounts, InstrumentBass)
	return c, nil
}

type parseState struct {
	stage  string
	logger *log.Logger
}

func highestBar(events []eventLine) int {
	highest := 0
	for _, ev := range events {
		if ev.lane != lengthLane && ev.bar > highest {
			highest = ev.bar
		}
	}
	return highest
}

// resolveBarLengths returns one multiplier per bar 0..highest. Bars without
// a length record inherit the previous bar's multiplier.
func resolveBarLengths(events []eventLine, highest int) ([]float64, error) {
	explicit := make(map[int]float64)
	for _, ev := range events {
		if ev.lane != lengthLane {
			continue
		}
		v, err := strconv.ParseFloat(ev.value, 64)
		if err != nil {
			return nil, fmt.Errorf("bar %03d: bad length %q", ev.bar, ev.value)
		}
		if v <= 0 {
			return nil, fmt.Errorf("bar %03d: length must be positive, got %g", ev.bar, v)
		}
		explicit[ev.bar] = v
	}
	lengths := make([]float64, highest+1)
	cur := 1.0
	for i := range lengths {
		if v, ok := explicit[i]; ok {
			cur = v
		}
		lengths[i] = cur
	}
	return lengths, nil
}

func resolveTempoMarkers(doc *document, barLengths []float64) ([]tempoMarker, error) {
	raw, ok := doc.headers["BPM"]
	if !ok {
		return nil, errors.New("missing #BPM")
	}
	initial, err := parseBPM(firstField(stripComment(raw)))
	if err != nil {
		return nil, err
	}
	markers := []tempoMarker{{bar: 0, line: 0, bpm: initial}}
	for _, ev := range doc.events {
		if ev.lane != tempoLane {
			continue
		}
		lineCount := LinesPerBar * 1.0
		if ev.bar < len(barLengths) {
			lineCount = barLengths[ev.bar] * LinesPerBar
		}
		for _, tok := range decodeTokens(ev.value, lineCount) {
			label, ok := doc.labels[tok.code]
			if !ok {
				return nil, fmt.Errorf("bar %03d: undefined tempo label %q", ev.bar, tok.code)
			}
			bpm, err := parseBPM(label)
			if err != nil {
				return nil, fmt.Errorf("#BPM%s: %w", tok.code, err)
			}
			if ev.bar == 0 && tok.line == 0 {
				markers[0].bpm = bpm
				continue
			}
			markers = append(markers, tempoMarker{bar: ev.bar, line: tok.line, bpm: bpm})
		}
	}
	return markers, nil
}

func parseBPM(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("bad bpm %q", s)
	}
	if v <= 0 {
		return 0, fmt.Errorf("bpm must be positive, got %g", v)
	}
	return v, nil
}

func buildBars(tl *Timeline, count int) []Bar {
	bars := make([]Bar, count)
	for i := range bars {
		start := tl.TimeAt(i, 0)
		bars[i] = Bar{
			LineCount: tl.lineCount(i),
			StartTime: start,
			Duration:  tl.TimeAt(i+1, 0) - start,
		}
	}
	return bars
}

func buildTempoSegments(tl *Timeline, songDuration float64) []TempoSegment {
	segs := make([]TempoSegment, len(tl.markers))
	for i, m := range tl.markers {
		segs[i] = TempoSegment{
			BPM:       m.bpm,
			StartBar:  m.bar,
			StartLine: m.line,
			StartTime: tl.TimeAt(m.bar, m.line),
		}
		if i > 0 {
			segs[i-1].Duration = segs[i].StartTime - segs[i-1].StartTime
		}
	}
	last := &segs[len(segs)-1]
	last.Duration = songDuration - last.StartTime
	return segs
}

func buildQuarterLines(tl *Timeline, bars []Bar) []TimePosition {
	var out []TimePosition
	for i, b := range bars {
		n := int(b.LineCount / QuarterLines)
		for j := 0; j < n; j++ {
			out = append(out, tl.position(i, float64(j*QuarterLines)))
		}
	}
	return out
}

// extractNotes walks bars in order, then lanes in table order, then each
// lane's codes, then matching records in file order.
func extractNotes(events []eventLine, lanes *laneTable, tl *Timeline, barCount int) ([]Note, map[string]int) {
	type key struct {
		bar  int
		code string
	}
	index := make(map[key][]eventLine)
	for _, ev := range events {
		if lanes.has(ev.lane) {
			k := key{ev.bar, ev.lane}
			index[k] = append(index[k], ev)
		}
	}
	counts := make(map[string]int, len(lanes.lanes))
	for _, l := range lanes.lanes {
		counts[l.name] = 0
	}
	var notes []Note
	for bar := 0; bar < barCount; bar++ {
		lineCount := tl.lineCount(bar)
		for _, l := range lanes.lanes {
			for _, code := range l.codes {
				for _, ev := range index[key{bar, code}] {
					for _, tok := range decodeTokens(ev.value, lineCount) {
						notes = append(notes, Note{
							TimePosition: tl.position(bar, tok.line),
							Code:         tok.code,
							Lane:         l.name,
						})
						counts[l.name]++
					}
				}
			}
		}
	}
	return notes, counts
}

// countNotes sums the scorable lanes of inst. Wail and hold lanes are
// accents and do not count.
func countNotes(lanes *laneTable, counts map[string]int, inst Instrument) int {
	total := 0
	seen := make(map[string]bool)
	for _, l := range lanes.lanes {
		if l.inst != inst || seen[l.name] {
			continue
		}
		if l.kind == kindPad || l.kind == kindButton {
			total += counts[l.name]
			seen[l.name] = true
		}
	}
	return total
}

// normalizeLevel maps a raw level field to the displayed level: values of
// 100 and above are divided by 100, others by 10.
func normalizeLevel(raw string) float64 {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) && isDigit(raw[end]) {
		end++
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0
	}
	if n >= 100 {
		return float64(n) / 100
	}
	return float64(n) / 10
}
