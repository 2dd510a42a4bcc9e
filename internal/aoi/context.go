// Package aoi discovers, scores and classifies Areas of Interest: price bands
// where the market has reversed several times.
package aoi

import (
	"math"

	"ForexSentinel/internal/calculator"
	"ForexSentinel/internal/model"
)

// Context carries the numeric bounds of one AOI analysis cycle for a
// symbol/timeframe. All prices are in quote units.
type Context struct {
	Settings              model.AOISettings
	PipSize               float64
	BaseLow               float64
	BaseHigh              float64
	MinHeightPrice        float64
	MaxHeightPrice        float64
	OverlapTolerancePrice float64
	TolerancePrice        float64 // slack of the extended band
	MaxAgeBars            int
}

// BuildContext derives the height bounds from ATR and the configured floors.
// baseHigh/baseLow describe the higher-timeframe range the zones must sit in.
// It returns false when ATR or the pip size is unusable, or when the base range
// is narrower than MinRangePips; the caller skips the AOI pipeline for that cycle.
func BuildContext(settings model.AOISettings, pipSize, atrPips, baseHigh, baseLow float64) (*Context, bool) {
	if pipSize <= 0 || atrPips <= 0 || math.IsNaN(atrPips) {
		return nil, false
	}
	lower, upper := calculator.NormalizeRange(baseLow, baseHigh)
	if calculator.PriceToPips(upper-lower, pipSize) < settings.MinRangePips {
		return nil, false
	}

	minHeightPips := math.Max(settings.MinHeightPipsFloor, atrPips*settings.MinHeightATRMultiplier)
	maxHeightPips := math.Max(atrPips*settings.MaxHeightATRMultiplier, settings.MaxHeightPipsFloor)

	return &Context{
		Settings:              settings,
		PipSize:               pipSize,
		BaseLow:               lower,
		BaseHigh:              upper,
		MinHeightPrice:        calculator.PipsToPrice(minHeightPips, pipSize),
		MaxHeightPrice:        calculator.PipsToPrice(maxHeightPips, pipSize),
		OverlapTolerancePrice: calculator.PipsToPrice(settings.OverlapTolerancePips, pipSize),
		TolerancePrice:        (upper - lower) * settings.BoundToleranceRatio,
		MaxAgeBars:            settings.MaxAgeBars(),
	}, true
}

// Band is the inclusive price interval a set of candidates is searched in.
type Band struct {
	Name string
	Low  float64
	High float64
}

// Bands returns the core band and, for a directional trend, the extended band
// that relaxes the edge zones form on in that trend: below the range for a
// bullish trend, above it for a bearish one.
func (c *Context) Bands(trend model.TrendDirection) []Band {
	bands := []Band{{Name: "core", Low: c.BaseLow, High: c.BaseHigh}}
	switch trend {
	case model.TrendBullish:
		bands = append(bands, Band{Name: "extended", Low: c.BaseLow - c.TolerancePrice, High: c.BaseHigh})
	case model.TrendBearish:
		bands = append(bands, Band{Name: "extended", Low: c.BaseLow, High: c.BaseHigh + c.TolerancePrice})
	}
	return bands
}

type zoneKey struct {
	lower, upper float64
}

// keyFor rounds bounds to 1e-5 of a pip so equal zones from different passes collide.
func (c *Context) keyFor(lower, upper float64) zoneKey {
	return zoneKey{
		lower: math.Round(lower/c.PipSize*1e5) / 1e5,
		upper: math.Round(upper/c.PipSize*1e5) / 1e5,
	}
}
