// Package strategy runs the trend, AOI and entry analyses for one symbol and
// timeframe on already fetched market data.
package strategy

import (
	"ForexSentinel/internal/aoi"
	"ForexSentinel/internal/calculator"
	"ForexSentinel/internal/entry"
	"ForexSentinel/internal/model"
	"ForexSentinel/internal/structure"
)

// TrendResult is the structure analysis of one timeframe. Swing indices are
// relative to the analysed window, the last Lookback bars.
type TrendResult struct {
	Trend  model.TrendDirection
	High   *model.SwingPoint
	Low    *model.SwingPoint
	Swings []model.SwingPoint
}

// HighPrice returns the structural high, or nil when none is established.
func (r TrendResult) HighPrice() *float64 {
	if r.High == nil {
		return nil
	}
	p := r.High.Price
	return &p
}

// LowPrice returns the structural low, or nil when none is established.
func (r TrendResult) LowPrice() *float64 {
	if r.Low == nil {
		return nil
	}
	p := r.Low.Price
	return &p
}

// AnalyzeTrend detects swings on the close series and tracks market structure.
func AnalyzeTrend(bars []model.Candle, params model.SwingParams) TrendResult {
	closes := calculator.ExtractCloses(tail(bars, params.Lookback))
	swings := structure.DetectSwings(closes, params.Distance, params.Prominence)
	res := structure.TrackStructure(swings)
	return TrendResult{
		Trend:  res.Trend,
		High:   res.High,
		Low:    res.Low,
		Swings: swings,
	}
}

// AOIRequest bundles the inputs of one AOI analysis.
type AOIRequest struct {
	Snapshot model.MarketSnapshot
	Settings model.AOISettings
	Params   model.SwingParams
	Trend    model.TrendDirection
	BaseHigh float64
	BaseLow  float64
}

// AOIResult is the outcome of one AOI analysis. Skipped is set when the
// volatility context could not be built; Zones is then empty.
type AOIResult struct {
	Zones   []model.AOIZone
	Context *aoi.Context
	Swings  int
	Skipped bool
}

// Tradable returns the zones classified as tradable.
func (r AOIResult) Tradable() []model.AOIZone {
	var out []model.AOIZone
	for _, z := range r.Zones {
		if z.Type == model.ZoneTradable {
			out = append(out, z)
		}
	}
	return out
}

// AnalyzeAOI builds the AOI context and runs the zone pipeline on the last
// AOILookback bars of the snapshot.
func AnalyzeAOI(req AOIRequest) AOIResult {
	// Step a: volatility context
	ctx, ok := aoi.BuildContext(req.Settings, req.Snapshot.PipSize, req.Snapshot.ATRPips, req.BaseHigh, req.BaseLow)
	if !ok {
		return AOIResult{Skipped: true}
	}

	lookback := req.Params.AOILookback
	if lookback <= 0 {
		lookback = req.Params.Lookback
	}
	bars := tail(req.Snapshot.Candles, lookback)
	if len(bars) == 0 {
		return AOIResult{Context: ctx}
	}

	// Step b: swings, optionally reduced to structural points
	closes := calculator.ExtractCloses(bars)
	swings := structure.DetectSwings(closes, req.Params.Distance, req.Params.Prominence)
	if req.Settings.StructuralSwingsOnly {
		swings = structure.StructuralSwings(swings)
	}

	// Step c: cluster, filter, classify and rank
	lastBar := len(closes) - 1
	zones := aoi.Generate(swings, lastBar, closes[lastBar], req.Trend, ctx)

	return AOIResult{Zones: zones, Context: ctx, Swings: len(swings)}
}

// ScanEntries runs the entry detector against every tradable zone.
func ScanEntries(candles []model.Candle, zones []model.AOIZone, direction model.TrendDirection) []model.EntryPattern {
	if !direction.IsDirectional() {
		return nil
	}
	var out []model.EntryPattern
	for _, z := range zones {
		if z.Type != model.ZoneTradable {
			continue
		}
		if p := entry.FindPattern(candles, z, direction); p != nil {
			out = append(out, *p)
		}
	}
	return out
}

func tail(bars []model.Candle, n int) []model.Candle {
	if n <= 0 || len(bars) <= n {
		return bars
	}
	return bars[len(bars)-n:]
}
