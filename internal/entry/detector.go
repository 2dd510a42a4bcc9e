// Package entry detects break-and-retest entry patterns against AOI zones.
package entry

import (
	"ForexSentinel/internal/model"
)

// WindowSize is the number of most recent candles inspected for a pattern.
const WindowSize = 15

// FindPattern looks for a break-and-retest of zone in the direction of the
// trend within the last WindowSize candles. Candles must be in chronological
// order. Indices in the returned pattern refer to the caller's slice.
// It returns nil when no pattern is present or direction is neutral.
func FindPattern(candles []model.Candle, zone model.AOIZone, direction model.TrendDirection) *model.EntryPattern {
	if len(candles) == 0 {
		return nil
	}
	offset := 0
	if len(candles) > WindowSize {
		offset = len(candles) - WindowSize
	}
	window := candles[offset:]
	lower, upper := zone.Bounds()

	var s side
	switch direction {
	case model.TrendBearish:
		s = bearish(lower, upper)
	case model.TrendBullish:
		s = bullish(lower, upper)
	default:
		return nil
	}

	last := len(window) - 1
	breakIdx := last
	switch {
	case s.isBreak(window[last]):
	case s.isBeyond(window[last]):
		breakIdx = last - 1
		if breakIdx < 0 || !s.isBreak(window[breakIdx]) {
			return nil
		}
	default:
		return nil
	}

	for i := breakIdx - 1; i >= 0; i-- {
		c := window[i]
		if s.isReclaim(c) {
			return nil
		}
		if !s.isRetest(c) {
			continue
		}
		seq := make([]model.Candle, breakIdx-i+1)
		copy(seq, window[i:breakIdx+1])
		z := zone
		z.LowerBound, z.UpperBound = lower, upper
		return &model.EntryPattern{
			Direction:   direction,
			Zone:        z,
			RetestIndex: offset + i,
			BreakIndex:  offset + breakIdx,
			Candles:     seq,
			BreakIsLast: breakIdx == last,
		}
	}
	return nil
}

// side holds the candle predicates of one trade direction.
type side struct {
	isBreak   func(model.Candle) bool // closes out of the zone after opening inside it
	isBeyond  func(model.Candle) bool // entirely past the zone in trade direction
	isRetest  func(model.Candle) bool
	isReclaim func(model.Candle) bool // opens inside and closes against the trade
}

func opensInside(c model.Candle, lower, upper float64) bool {
	return c.Open >= lower && c.Open <= upper
}

func bearish(lower, upper float64) side {
	return side{
		isBreak: func(c model.Candle) bool {
			return c.Close < lower && opensInside(c, lower, upper)
		},
		isBeyond: func(c model.Candle) bool {
			return c.High < lower
		},
		isRetest: func(c model.Candle) bool {
			return c.Open < lower && c.Close >= lower
		},
		isReclaim: func(c model.Candle) bool {
			return opensInside(c, lower, upper) && c.Close > upper
		},
	}
}

func bullish(lower, upper float64) side {
	return side{
		isBreak: func(c model.Candle) bool {
			return c.Close > upper && opensInside(c, lower, upper)
		},
		isBeyond: func(c model.Candle) bool {
			return min(c.Open, c.High, c.Low, c.Close) > upper
		},
		isRetest: func(c model.Candle) bool {
			return c.Open > upper && c.Close <= upper
		},
		isReclaim: func(c model.Candle) bool {
			return opensInside(c, lower, upper) && c.Close < lower
		},
	}
}
