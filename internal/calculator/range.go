package calculator

import (
	"errors"
	"math"

	"ForexSentinel/internal/model"
)

// ErrNoBars is returned when a calculation receives an empty bar series.
var ErrNoBars = errors.New("no bars provided")

// CalculateRange scans the most recent lookback bars and returns the high and low.
// A non-positive lookback scans the whole series.
func CalculateRange(bars []model.Candle, lookback int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, ErrNoBars
	}
	n := len(bars)
	start := 0
	if lookback > 0 && n > lookback {
		start = n - lookback
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if bars[i].High > high {
			high = bars[i].High
		}
		if bars[i].Low < low {
			low = bars[i].Low
		}
	}
	return high, low, nil
}

// NormalizeRange orders two prices as (lower, upper).
func NormalizeRange(a, b float64) (lower, upper float64) {
	if a <= b {
		return a, b
	}
	return b, a
}

// ExtractCloses returns the close prices of bars in order.
func ExtractCloses(bars []model.Candle) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
