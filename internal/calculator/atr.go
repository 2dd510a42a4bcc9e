package calculator

import (
	"errors"
	"math"

	"github.com/markcheno/go-talib"

	"ForexSentinel/internal/model"
)

// DefaultATRPeriod is the ATR length used for AOI height bounds.
const DefaultATRPeriod = 14

// CalculateATR returns the most recent Wilder ATR over the given period.
// Requires at least period+1 bars.
func CalculateATR(bars []model.Candle, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(bars) < period+1 {
		return 0, errors.New("not enough data for ATR calculation")
	}
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	closes := make([]float64, len(bars))
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
		closes[i] = b.Close
	}
	atr := talib.Atr(highs, lows, closes, period)
	last := atr[len(atr)-1]
	if math.IsNaN(last) || last <= 0 {
		return 0, errors.New("ATR is zero")
	}
	return last, nil
}

// CalculateATRPips returns the ATR expressed in pips of the given symbol.
func CalculateATRPips(bars []model.Candle, period int, pipSize float64) (float64, error) {
	atr, err := CalculateATR(bars, period)
	if err != nil {
		return 0, err
	}
	if pipSize <= 0 {
		return 0, errors.New("pip size must be positive")
	}
	return PriceToPips(atr, pipSize), nil
}
