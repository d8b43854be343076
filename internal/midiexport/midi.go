// Package midiexport writes one instrument part of a chart as a Standard
// MIDI File: a tempo track followed by a note track.
package midiexport

import (
	"io"
	"math"
	"sort"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/cbegin/dtxchart-go/internal/dtx"
)

const (
	TicksPerQuarter = 480
	ticksPerLine    = TicksPerQuarter / dtx.QuarterLines

	drumChannel    = 9
	frettedChannel = 0
	velocity       = 100

	// tapTicks is the length of a note that is not held, a sixteenth.
	tapTicks = 12 * ticksPerLine
)

// General MIDI percussion keys.
var drumKeys = map[string]uint8{
	dtx.LaneLeftCrashCymbal:  49,
	dtx.LaneHiHat:            42,
	dtx.LaneSnare:            38,
	dtx.LaneLeftHiHatPedal:   44,
	dtx.LaneLeftBassPedal:    35,
	dtx.LaneHiTom:            48,
	dtx.LaneRightBassPedal:   36,
	dtx.LaneLowTom:           45,
	dtx.LaneFloorTom:         41,
	dtx.LaneRightCrashCymbal: 57,
	dtx.LaneRideCymbal:       51,
}

// Red, Green, Blue, Yellow, Pink. The open strum sits below red.
var buttonKeys = [5]uint8{60, 62, 64, 65, 67}

const (
	openKey    = 55
	bassOffset = 24
)

type event struct {
	tick int64
	msg  []byte
	// offs sort before ons at the same tick
	off bool
}

// Keys returns the notes a lane sounds for inst. Lanes of other
// instruments, wails and hold markers return nil.
func Keys(lane string, inst dtx.Instrument) []uint8 {
	if dtx.LaneInstrument(lane) != inst {
		return nil
	}
	if inst == dtx.InstrumentDrum {
		if k, ok := drumKeys[lane]; ok {
			return []uint8{k}
		}
		return nil
	}
	if !dtx.IsButtonLane(lane) {
		return nil
	}
	var offset uint8
	if inst == dtx.InstrumentBass {
		offset = bassOffset
	}
	var keys []uint8
	for i, b := range lane[1:] {
		if b == '1' {
			keys = append(keys, buttonKeys[i]-offset)
		}
	}
	if len(keys) == 0 {
		keys = append(keys, openKey-offset)
	}
	return keys
}

// ticker converts bar and line positions into absolute ticks.
type ticker []int64

func newTicker(bars []dtx.Bar) ticker {
	starts := make(ticker, len(bars)+1)
	for i, b := range bars {
		starts[i+1] = starts[i] + int64(math.Round(b.LineCount*ticksPerLine))
	}
	return starts
}

func (t ticker) at(bar int, line float64) int64 {
	if bar < 0 {
		return 0
	}
	if bar >= len(t) {
		bar = len(t) - 1
	}
	return t[bar] + int64(math.Round(line*ticksPerLine))
}

// holdEnds maps the start time of each paired hold of inst to its end tick.
// Button presses sharing that time are sustained until then.
func holdEnds(notes []dtx.Note, inst dtx.Instrument, ticks ticker) map[float64]int64 {
	ends := make(map[float64]int64)
	var lane string
	switch inst {
	case dtx.InstrumentGuitar:
		lane = dtx.LaneGuitarHold
	case dtx.InstrumentBass:
		lane = dtx.LaneBassHold
	default:
		return ends
	}
	for _, n := range notes {
		if n.Lane == lane && n.End != nil {
			ends[n.Time] = ticks.at(n.End.Bar, n.End.Line)
		}
	}
	return ends
}

// Build assembles the file for inst.
func Build(chart *dtx.Chart, inst dtx.Instrument) (*smf.SMF, error) {
	if chart == nil || len(chart.Bars) == 0 {
		return nil, errors.New("midiexport: empty chart")
	}
	if inst == dtx.InstrumentNone {
		return nil, errors.New("midiexport: no instrument")
	}
	ticks := newTicker(chart.Bars)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(TicksPerQuarter)

	var tempo smf.Track
	tempo.Add(0, smf.MetaTrackSequenceName(chart.SongInfo.Title))
	var last int64
	for _, seg := range chart.TempoSegments {
		at := ticks.at(seg.StartBar, seg.StartLine)
		tempo.Add(uint32(at-last), smf.MetaTempo(seg.BPM))
		last = at
	}
	tempo.Close(0)
	if err := s.Add(tempo); err != nil {
		return nil, errors.Wrap(err, "midiexport: tempo track")
	}

	ch := uint8(frettedChannel)
	if inst == dtx.InstrumentDrum {
		ch = drumChannel
	}
	sustains := holdEnds(chart.Notes, inst, ticks)
	var events []event
	for _, n := range chart.Notes {
		keys := Keys(n.Lane, inst)
		if len(keys) == 0 {
			continue
		}
		on := ticks.at(n.Bar, n.Line)
		off := on + tapTicks
		if end, ok := sustains[n.Time]; ok && end > on {
			off = end
		}
		for _, k := range keys {
			events = append(events,
				event{tick: on, msg: midi.NoteOn(ch, k, velocity)},
				event{tick: off, msg: midi.NoteOff(ch, k), off: true})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	var notes smf.Track
	notes.Add(0, smf.MetaTrackSequenceName(inst.String()))
	last = 0
	for _, ev := range events {
		notes.Add(uint32(ev.tick-last), ev.msg)
		last = ev.tick
	}
	notes.Close(0)
	if err := s.Add(notes); err != nil {
		return nil, errors.Wrap(err, "midiexport: note track")
	}
	return s, nil
}

// Write encodes the inst part of chart to w.
func Write(w io.Writer, chart *dtx.Chart, inst dtx.Instrument) error {
	s, err := Build(chart, inst)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return errors.Wrap(err, "midiexport: write")
	}
	return nil
}
