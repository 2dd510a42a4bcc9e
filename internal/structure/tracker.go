package structure

import "ForexSentinel/internal/model"

type breakKind uint8

const (
	noBreak breakKind = iota
	bullishBreak
	bearishBreak
)

// TrackStructure walks the swings chronologically and returns the terminal trend
// with its structural high and low. The first High and first Low seed the
// structure. A High above the structural high is a bullish break: it becomes
// the new high and the nearest preceding Low becomes the new low. A Low below
// the structural low is the bearish mirror.
func TrackStructure(swings []model.SwingPoint) model.StructureResult {
	state, ok := initialStructure(swings)
	if !ok {
		return model.StructureResult{Trend: model.TrendNeutral}
	}

	trend := model.TrendNeutral
	for i, swing := range swings {
		switch checkBreak(swing, state) {
		case bullishBreak:
			trend = model.TrendBullish
			state.High = swing
			if low, found := correspondingSwing(swings, i, model.SwingLow); found {
				state.Low = low
			}
		case bearishBreak:
			trend = model.TrendBearish
			state.Low = swing
			if high, found := correspondingSwing(swings, i, model.SwingHigh); found {
				state.High = high
			}
		}
	}

	high, low := state.High, state.Low
	return model.StructureResult{Trend: trend, High: &high, Low: &low}
}

func initialStructure(swings []model.SwingPoint) (model.StructuralState, bool) {
	var state model.StructuralState
	if len(swings) < 2 {
		return state, false
	}
	var haveHigh, haveLow bool
	for _, s := range swings {
		if s.Kind == model.SwingHigh && !haveHigh {
			state.High, haveHigh = s, true
		} else if s.Kind == model.SwingLow && !haveLow {
			state.Low, haveLow = s, true
		}
		if haveHigh && haveLow {
			return state, true
		}
	}
	return state, false
}

func checkBreak(s model.SwingPoint, state model.StructuralState) breakKind {
	switch {
	case s.Kind == model.SwingHigh && s.Price > state.High.Price:
		return bullishBreak
	case s.Kind == model.SwingLow && s.Price < state.Low.Price:
		return bearishBreak
	}
	return noBreak
}

// correspondingSwing scans backwards from position pos for the nearest swing of kind.
func correspondingSwing(swings []model.SwingPoint, pos int, kind model.SwingKind) (model.SwingPoint, bool) {
	for j := pos - 1; j >= 0; j-- {
		if swings[j].Kind == kind {
			return swings[j], true
		}
	}
	return model.SwingPoint{}, false
}
