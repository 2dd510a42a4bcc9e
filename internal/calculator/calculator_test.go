package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ForexSentinel/internal/model"
)

func mkBars(n int, base, spread float64) []model.Candle {
	t0 := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Candle, n)
	for i := 0; i < n; i++ {
		p := base + float64(i%5)*spread
		bars[i] = model.Candle{
			Time:  t0.Add(time.Duration(i) * time.Hour),
			Open:  p,
			High:  p + spread,
			Low:   p - spread,
			Close: p + spread/2,
		}
	}
	return bars
}

func TestPipSize(t *testing.T) {
	tests := []struct {
		symbol string
		want   float64
	}{
		{"EURUSD", 0.0001},
		{"USDJPY", 0.01},
		{"eurjpy", 0.01},
		{"GBPCAD", 0.0001},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			assert.Equal(t, tt.want, PipSize(tt.symbol))
		})
	}
}

func TestPipConversions(t *testing.T) {
	assert.InDelta(t, 25.0, PriceToPips(0.0025, 0.0001), 1e-9)
	assert.Equal(t, 0.0, PriceToPips(0.0025, 0))
	assert.InDelta(t, 0.0025, PipsToPrice(25, 0.0001), 1e-12)
}

func TestCalculateRange(t *testing.T) {
	bars := mkBars(30, 1.1000, 0.0010)
	bars[2].High = 1.2000 // outside lookback

	high, low, err := CalculateRange(bars, 10)
	require.NoError(t, err)
	assert.InDelta(t, 1.1050, high, 1e-9)
	assert.InDelta(t, 1.0990, low, 1e-9)

	high, _, err = CalculateRange(bars, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.2000, high)

	_, _, err = CalculateRange(nil, 10)
	assert.ErrorIs(t, err, ErrNoBars)
}

func TestNormalizeRange(t *testing.T) {
	lo, hi := NormalizeRange(1.2, 1.1)
	assert.Equal(t, 1.1, lo)
	assert.Equal(t, 1.2, hi)
}

func TestCalculateATR(t *testing.T) {
	bars := mkBars(60, 1.1000, 0.0010)
	atr, err := CalculateATR(bars, DefaultATRPeriod)
	require.NoError(t, err)
	assert.Greater(t, atr, 0.0)

	pips, err := CalculateATRPips(bars, DefaultATRPeriod, 0.0001)
	require.NoError(t, err)
	assert.InDelta(t, atr/0.0001, pips, 1e-6)

	_, err = CalculateATR(bars[:10], DefaultATRPeriod)
	assert.Error(t, err)

	_, err = CalculateATRPips(bars, DefaultATRPeriod, 0)
	assert.Error(t, err)
}

func TestCalculateATR_FlatSeriesIsUnavailable(t *testing.T) {
	bars := make([]model.Candle, 30)
	for i := range bars {
		bars[i] = model.Candle{Open: 1.1, High: 1.1, Low: 1.1, Close: 1.1}
	}
	_, err := CalculateATR(bars, DefaultATRPeriod)
	assert.Error(t, err)
}
