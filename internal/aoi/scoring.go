package aoi

import (
	"sort"

	"ForexSentinel/internal/model"
)

// Classify labels zones against the current price and trend. In a bearish
// trend zones strictly above price are tradable, in a bullish trend zones
// strictly below price are; a neutral trend yields only reference zones.
// Tradable scores are multiplied by alignmentWeight.
func Classify(zones []model.AOIZoneCandidate, currentPrice float64, trend model.TrendDirection, alignmentWeight float64) []model.AOIZone {
	out := make([]model.AOIZone, 0, len(zones))
	for _, z := range zones {
		tradable := false
		switch trend {
		case model.TrendBearish:
			tradable = z.LowerBound > currentPrice
		case model.TrendBullish:
			tradable = z.UpperBound < currentPrice
		}

		zone := model.AOIZone{
			LowerBound:     z.LowerBound,
			UpperBound:     z.UpperBound,
			Height:         z.Height,
			Score:          z.Score,
			Touches:        z.Touches,
			LastSwingIndex: z.LastSwingIndex,
			Type:           model.ZoneReference,
		}
		if tradable {
			zone.Type = model.ZoneTradable
			zone.Score *= alignmentWeight
		}
		out = append(out, zone)
	}
	return out
}

// Rank orders zones by score, highest first, and keeps at most limit of them.
// A non-positive limit keeps all zones.
func Rank(zones []model.AOIZone, limit int) []model.AOIZone {
	out := make([]model.AOIZone, len(zones))
	copy(out, zones)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
