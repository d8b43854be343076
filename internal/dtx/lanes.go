package dtx

import "strings"

// Instrument identifies which playable part a lane belongs to.
type Instrument int

const (
	InstrumentNone Instrument = iota
	InstrumentDrum
	InstrumentGuitar
	InstrumentBass
)

func (i Instrument) String() string {
	switch i {
	case InstrumentDrum:
		return "Drum"
	case InstrumentGuitar:
		return "Guitar"
	case InstrumentBass:
		return "Bass"
	default:
		return "None"
	}
}

type laneKind int

const (
	kindBGM laneKind = iota
	kindPad
	kindButton
	kindWail
	kindHold
)

// Semantic lane names. Fretted button lanes are named by prefix plus five
// digits in Red-Green-Blue-Yellow-Pink order, e.g. "G10100".
const (
	LaneBGM              = "BGM"
	LaneLeftCrashCymbal  = "LeftCrashCymbal"
	LaneHiHat            = "Hi-Hat"
	LaneSnare            = "Snare"
	LaneLeftHiHatPedal   = "LeftHiHatPedal"
	LaneLeftBassPedal    = "LeftBassPedal"
	LaneHiTom            = "Hi-Tom"
	LaneRightBassPedal   = "RightBassPedal"
	LaneLowTom           = "Low-Tom"
	LaneFloorTom         = "Floor-Tom"
	LaneRightCrashCymbal = "RightCrashCymbal"
	LaneRideCymbal       = "RideCymbal"

	LaneGuitarWail = "GWail"
	LaneGuitarHold = "GHold"
	LaneBassWail   = "BWail"
	LaneBassHold   = "BHold"
)

const (
	lengthLane = "02"
	tempoLane  = "08"
)

type laneDef struct {
	name  string
	codes []string
	inst  Instrument
	kind  laneKind
}

// laneTable is the fixed code-to-lane mapping of one dialect.
type laneTable struct {
	lanes  []laneDef
	byCode map[string]int
}

func newLaneTable(lanes []laneDef) *laneTable {
	t := &laneTable{lanes: lanes, byCode: make(map[string]int)}
	for i, l := range lanes {
		for _, c := range l.codes {
			t.byCode[c] = i
		}
	}
	return t
}

func (t *laneTable) has(code string) bool {
	_, ok := t.byCode[code]
	return ok
}

func buttonPrefix(inst Instrument) string {
	if inst == InstrumentBass {
		return "B"
	}
	return "G"
}

// ButtonLane returns the lane name of a button combination given as five
// 0/1 digits in Red-Green-Blue-Yellow-Pink order.
func ButtonLane(inst Instrument, bits string) string {
	return buttonPrefix(inst) + bits
}

// OpenLane is the lane of a press with no buttons held.
func OpenLane(inst Instrument) string {
	return ButtonLane(inst, "00000")
}

// IsButtonLane reports whether lane names a fretted button combination.
func IsButtonLane(lane string) bool {
	if len(lane) != 6 || (lane[0] != 'G' && lane[0] != 'B') {
		return false
	}
	for i := 1; i < 6; i++ {
		if lane[i] != '0' && lane[i] != '1' {
			return false
		}
	}
	return true
}

// LaneInstrument returns the instrument a lane name is scored on. BGM and
// unknown lanes return InstrumentNone.
func LaneInstrument(lane string) Instrument {
	switch lane {
	case LaneLeftCrashCymbal, LaneHiHat, LaneSnare, LaneLeftHiHatPedal, LaneLeftBassPedal,
		LaneHiTom, LaneRightBassPedal, LaneLowTom, LaneFloorTom, LaneRightCrashCymbal, LaneRideCymbal:
		return InstrumentDrum
	case LaneGuitarWail, LaneGuitarHold:
		return InstrumentGuitar
	case LaneBassWail, LaneBassHold:
		return InstrumentBass
	}
	if IsButtonLane(lane) {
		if lane[0] == 'B' {
			return InstrumentBass
		}
		return InstrumentGuitar
	}
	return InstrumentNone
}

func drumLanes(codes map[string][]string) []laneDef {
	names := []string{
		LaneLeftCrashCymbal, LaneHiHat, LaneSnare, LaneLeftHiHatPedal, LaneLeftBassPedal,
		LaneHiTom, LaneRightBassPedal, LaneLowTom, LaneFloorTom, LaneRightCrashCymbal, LaneRideCymbal,
	}
	out := make([]laneDef, 0, len(names))
	for _, n := range names {
		out = append(out, laneDef{name: n, codes: codes[n], inst: InstrumentDrum, kind: kindPad})
	}
	return out
}

// buttonLanes pairs codes with combinations; combos holds RGBYP digit strings.
func buttonLanes(inst Instrument, codes []string, combos []string) []laneDef {
	out := make([]laneDef, 0, len(codes))
	for i, c := range codes {
		out = append(out, laneDef{name: ButtonLane(inst, combos[i]), codes: []string{c}, inst: inst, kind: kindButton})
	}
	return out
}

// Three-button combinations are ordered by their RGB binary value (xxB = 1).
var rgbCombos = []string{
	"00000", "00100", "01000", "01100", "10000", "10100", "11000", "11100",
}

func withSuffix(combos []string, yp string) []string {
	out := make([]string, len(combos))
	for i, c := range combos {
		out[i] = c[:3] + yp
	}
	return out
}

func fiveButtonCombos() []string {
	var all []string
	for _, yp := range []string{"00", "10", "01", "11"} {
		all = append(all, withSuffix(rgbCombos, yp)...)
	}
	return all
}

func dtxLaneTable() *laneTable {
	lanes := []laneDef{{name: LaneBGM, codes: []string{"01"}, kind: kindBGM}}
	lanes = append(lanes, drumLanes(map[string][]string{
		LaneLeftCrashCymbal:  {"1A"},
		LaneHiHat:            {"11", "18"},
		LaneSnare:            {"12"},
		LaneLeftHiHatPedal:   {"1B"},
		LaneLeftBassPedal:    {"1C"},
		LaneHiTom:            {"14"},
		LaneRightBassPedal:   {"13"},
		LaneLowTom:           {"15"},
		LaneFloorTom:         {"17"},
		LaneRightCrashCymbal: {"16"},
		LaneRideCymbal:       {"19"},
	})...)

	guitarCodes := []string{
		"20", "21", "22", "23", "24", "25", "26", "27",
		"93", "94", "95", "96", "97", "98", "99", "9A",
		"9B", "9C", "9D", "9E", "9F", "A9", "AA", "AB",
		"AC", "AD", "AE", "AF", "D0", "D1", "D2", "D3",
	}
	bassCodes := []string{
		"A0", "A1", "A2", "A3", "A4", "A5", "A6", "A7",
		"C5", "C6", "C8", "C9", "CA", "CB", "CC", "CD",
		"CE", "CF", "DA", "DB", "DC", "DD", "DE", "DF",
		"E1", "E2", "E3", "E4", "E5", "E6", "E7", "E8",
	}
	combos := fiveButtonCombos()
	lanes = append(lanes, buttonLanes(InstrumentGuitar, guitarCodes, combos)...)
	lanes = append(lanes,
		laneDef{name: LaneGuitarWail, codes: []string{"28"}, inst: InstrumentGuitar, kind: kindWail},
		laneDef{name: LaneGuitarHold, codes: []string{"2C"}, inst: InstrumentGuitar, kind: kindHold},
	)
	lanes = append(lanes, buttonLanes(InstrumentBass, bassCodes, combos)...)
	lanes = append(lanes,
		laneDef{name: LaneBassWail, codes: []string{"A8"}, inst: InstrumentBass, kind: kindWail},
		laneDef{name: LaneBassHold, codes: []string{"2D"}, inst: InstrumentBass, kind: kindHold},
	)
	return newLaneTable(lanes)
}

func gdaLaneTable() *laneTable {
	lanes := []laneDef{{name: LaneBGM, codes: []string{"01"}, kind: kindBGM}}
	lanes = append(lanes, drumLanes(map[string][]string{
		LaneLeftCrashCymbal:  {"LC"},
		LaneHiHat:            {"HH", "HO"},
		LaneSnare:            {"SD"},
		LaneLeftHiHatPedal:   {"LP"},
		LaneLeftBassPedal:    {"LB"},
		LaneHiTom:            {"HT"},
		LaneRightBassPedal:   {"BD"},
		LaneLowTom:           {"LT"},
		LaneFloorTom:         {"FT"},
		LaneRightCrashCymbal: {"CY"},
		LaneRideCymbal:       {"RD"},
	})...)
	gCodes := make([]string, len(rgbCombos))
	bCodes := make([]string, len(rgbCombos))
	for i := range rgbCombos {
		gCodes[i] = "G" + string(rune('0'+i))
		bCodes[i] = "B" + string(rune('0'+i))
	}
	lanes = append(lanes, buttonLanes(InstrumentGuitar, gCodes, rgbCombos)...)
	lanes = append(lanes, laneDef{name: LaneGuitarWail, codes: []string{"GW"}, inst: InstrumentGuitar, kind: kindWail})
	lanes = append(lanes, buttonLanes(InstrumentBass, bCodes, rgbCombos)...)
	lanes = append(lanes, laneDef{name: LaneBassWail, codes: []string{"BW"}, inst: InstrumentBass, kind: kindWail})
	return newLaneTable(lanes)
}

var (
	dtxLanes = dtxLaneTable()
	gdaLanes = gdaLaneTable()
)

func tableFor(d Dialect) *laneTable {
	if d == DialectGDA {
		return gdaLanes
	}
	return dtxLanes
}

// detectDialect picks GDA when any event lane uses a GDA code that cannot be
// a DTX channel. GDA codes made of two hex digits (B0-B7, BD) are also DTX
// channels, such as the B1-BC empty hits, so they never count.
func detectDialect(events []eventLine) Dialect {
	for _, ev := range events {
		if gdaLanes.has(ev.lane) && !isHexCode(ev.lane) {
			return DialectGDA
		}
	}
	return DialectDTX
}

func isHexCode(code string) bool {
	for i := 0; i < len(code); i++ {
		c := code[i]
		if !isDigit(c) && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}

func normalizeCode(code string) string {
	return strings.ToUpper(code)
}
