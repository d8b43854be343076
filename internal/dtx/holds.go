package dtx

import "sort"

// pairHolds sets End on each hold-lane note that starts a sustained note of
// inst. A hold event opens a candidate only when a non-open button press
// shares its exact time. The next hold event closes the candidate unless a
// button press lies in (start, end]; in that case the candidate is dropped
// and the closing event is considered as a start instead.
func pairHolds(notes []Note, inst Instrument, holdLane string) {
	open := OpenLane(inst)
	var presses, chords []float64
	var holds []int
	for i, n := range notes {
		switch {
		case n.Lane == holdLane:
			holds = append(holds, i)
		case IsButtonLane(n.Lane) && LaneInstrument(n.Lane) == inst:
			presses = append(presses, n.Time)
			if n.Lane != open {
				chords = append(chords, n.Time)
			}
		}
	}
	if len(holds) == 0 {
		return
	}
	sort.Float64s(presses)
	sort.Float64s(chords)
	sort.SliceStable(holds, func(a, b int) bool { return notes[holds[a]].Time < notes[holds[b]].Time })

	candidate := -1
	for _, h := range holds {
		t := notes[h].Time
		if candidate >= 0 {
			start := notes[candidate].Time
			if !anyIn(presses, start, t) {
				end := notes[h].TimePosition
				notes[candidate].End = &end
				candidate = -1
				continue
			}
			candidate = -1
		}
		if contains(chords, t) {
			candidate = h
		}
	}
}

// contains reports whether sorted holds v exactly.
func contains(sorted []float64, v float64) bool {
	i := sort.SearchFloat64s(sorted, v)
	return i < len(sorted) && sorted[i] == v
}

// anyIn reports whether sorted has a value in (lo, hi].
func anyIn(sorted []float64, lo, hi float64) bool {
	i := sort.Search(len(sorted), func(i int) bool { return sorted[i] > lo })
	return i < len(sorted) && sorted[i] <= hi
}
