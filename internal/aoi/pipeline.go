package aoi

import (
	"ForexSentinel/internal/model"
)

// Generate runs the full AOI pipeline for one symbol and timeframe: candidates
// per band, post-processing per band, union, classification and ranking.
func Generate(swings []model.SwingPoint, lastBarIndex int, currentPrice float64, trend model.TrendDirection, ctx *Context) []model.AOIZone {
	if ctx == nil || len(swings) == 0 {
		return nil
	}

	bands := ctx.Bands(trend)
	perBand := make([][]model.AOIZoneCandidate, 0, len(bands))
	for _, band := range bands {
		zones := FindCandidates(swings, lastBarIndex, band, ctx)
		zones = FilterByBounds(zones, band, ctx)
		zones = MergeNearby(zones, ctx)
		zones = FilterByAge(zones, lastBarIndex, ctx)
		zones = FilterOverlapping(zones, ctx)
		perBand = append(perBand, zones)
	}

	union := UnionBands(perBand, ctx)
	if len(union) == 0 {
		return nil
	}
	classified := Classify(union, currentPrice, trend, ctx.Settings.AlignmentWeight)
	return Rank(classified, ctx.Settings.MaxZonesPerSymbol)
}
