package entry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ForexSentinel/internal/model"
)

var testZone = model.AOIZone{LowerBound: 1.0950, UpperBound: 1.1000, Type: model.ZoneTradable}

func candle(o, h, l, c float64) model.Candle {
	return model.Candle{Open: o, High: h, Low: l, Close: c}
}

func stamp(candles []model.Candle) []model.Candle {
	base := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	for i := range candles {
		candles[i].Time = base.Add(time.Duration(i) * time.Hour)
	}
	return candles
}

var (
	retestBearish = candle(1.0940, 1.0965, 1.0935, 1.0960)
	insideCandle  = candle(1.0960, 1.0990, 1.0955, 1.0980)
	breakBearish  = candle(1.0970, 1.0975, 1.0930, 1.0940)
	belowCandle   = candle(1.0935, 1.0945, 1.0920, 1.0925)
	reclaimAbove  = candle(1.0960, 1.1015, 1.0955, 1.1010)
)

// mirror reflects candles and zone around a fixed price so a bearish setup
// becomes the equivalent bullish one.
func mirror(candles []model.Candle, zone model.AOIZone) ([]model.Candle, model.AOIZone) {
	const k = 2.2
	out := make([]model.Candle, len(candles))
	for i, c := range candles {
		out[i] = model.Candle{Time: c.Time, Open: k - c.Open, High: k - c.Low, Low: k - c.High, Close: k - c.Close}
	}
	z := zone
	z.LowerBound, z.UpperBound = k-zone.UpperBound, k-zone.LowerBound
	return out, z
}

func TestFindPattern(t *testing.T) {
	tests := []struct {
		name        string
		candles     []model.Candle
		wantNil     bool
		retest      int
		brk         int
		breakIsLast bool
	}{
		{
			name:        "break on last candle",
			candles:     []model.Candle{retestBearish, insideCandle, breakBearish},
			retest:      0,
			brk:         2,
			breakIsLast: true,
		},
		{
			name:    "last candle fully beyond steps back to break",
			candles: []model.Candle{retestBearish, insideCandle, breakBearish, belowCandle},
			retest:  0,
			brk:     2,
		},
		{
			name:    "fully beyond without preceding break",
			candles: []model.Candle{retestBearish, insideCandle, belowCandle, belowCandle},
			wantNil: true,
		},
		{
			name:    "invalidated by reclaim before break",
			candles: []model.Candle{retestBearish, reclaimAbove, breakBearish},
			wantNil: true,
		},
		{
			name:    "break without retest",
			candles: []model.Candle{insideCandle, insideCandle, breakBearish},
			wantNil: true,
		},
		{
			name:    "single break candle",
			candles: []model.Candle{breakBearish},
			wantNil: true,
		},
		{
			name:    "last candle neither break nor beyond",
			candles: []model.Candle{retestBearish, insideCandle, insideCandle},
			wantNil: true,
		},
		{
			name:        "nearest retest wins",
			candles:     []model.Candle{retestBearish, insideCandle, retestBearish, breakBearish},
			retest:      2,
			brk:         3,
			breakIsLast: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candles := stamp(tt.candles)

			got := FindPattern(candles, testZone, model.TrendBearish)
			if tt.wantNil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, model.TrendBearish, got.Direction)
				assert.Equal(t, tt.retest, got.RetestIndex)
				assert.Equal(t, tt.brk, got.BreakIndex)
				assert.Equal(t, tt.breakIsLast, got.BreakIsLast)
				assert.Equal(t, candles[tt.retest:tt.brk+1], got.Candles)
				assert.Equal(t, candles[tt.brk], got.BreakCandle())
			}

			mirrored, zone := mirror(candles, testZone)
			bull := FindPattern(mirrored, zone, model.TrendBullish)
			if tt.wantNil {
				assert.Nil(t, bull)
				return
			}
			require.NotNil(t, bull)
			assert.Equal(t, model.TrendBullish, bull.Direction)
			assert.Equal(t, got.RetestIndex, bull.RetestIndex)
			assert.Equal(t, got.BreakIndex, bull.BreakIndex)
			assert.Equal(t, got.BreakIsLast, bull.BreakIsLast)
		})
	}
}

func TestFindPattern_IndicesRelativeToCallerSlice(t *testing.T) {
	candles := make([]model.Candle, 0, 20)
	for i := 0; i < 17; i++ {
		candles = append(candles, insideCandle)
	}
	candles = append(candles, retestBearish, insideCandle, breakBearish)
	candles = stamp(candles)

	got := FindPattern(candles, testZone, model.TrendBearish)

	require.NotNil(t, got)
	assert.Equal(t, 17, got.RetestIndex)
	assert.Equal(t, 19, got.BreakIndex)
	assert.Len(t, got.Candles, 3)
}

func TestFindPattern_RetestOutsideWindow(t *testing.T) {
	candles := []model.Candle{retestBearish}
	for i := 0; i < 18; i++ {
		candles = append(candles, insideCandle)
	}
	candles = append(candles, breakBearish)

	assert.Nil(t, FindPattern(stamp(candles), testZone, model.TrendBearish))
}

func TestFindPattern_InvertedZoneBounds(t *testing.T) {
	candles := stamp([]model.Candle{retestBearish, insideCandle, breakBearish})
	inverted := model.AOIZone{LowerBound: 1.1000, UpperBound: 1.0950}

	got := FindPattern(candles, inverted, model.TrendBearish)

	require.NotNil(t, got)
	assert.Equal(t, 1.0950, got.Zone.LowerBound)
	assert.Equal(t, 1.1000, got.Zone.UpperBound)
}

func TestFindPattern_NoPattern(t *testing.T) {
	candles := stamp([]model.Candle{retestBearish, insideCandle, breakBearish})

	assert.Nil(t, FindPattern(nil, testZone, model.TrendBearish))
	assert.Nil(t, FindPattern(candles, testZone, model.TrendNeutral))
	assert.Nil(t, FindPattern(candles, testZone, model.TrendBullish))
}
