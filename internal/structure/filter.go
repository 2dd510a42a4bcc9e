package structure

import (
	"sort"

	"ForexSentinel/internal/model"
)

// StructuralSwings keeps only the swings that took part in a structural break:
// each breaking swing and the corresponding swing that became the opposite
// structural point, in chronological order.
func StructuralSwings(swings []model.SwingPoint) []model.SwingPoint {
	state, ok := initialStructure(swings)
	if !ok {
		return nil
	}

	var out []model.SwingPoint
	seen := make(map[int]bool)
	add := func(s model.SwingPoint) {
		if !seen[s.Index] {
			seen[s.Index] = true
			out = append(out, s)
		}
	}

	for i, swing := range swings {
		switch checkBreak(swing, state) {
		case bullishBreak:
			state.High = swing
			add(swing)
			if low, found := correspondingSwing(swings, i, model.SwingLow); found {
				state.Low = low
				add(low)
			}
		case bearishBreak:
			state.Low = swing
			add(swing)
			if high, found := correspondingSwing(swings, i, model.SwingHigh); found {
				state.High = high
				add(high)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
