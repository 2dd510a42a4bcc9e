package aoi

import (
	"math"
	"sort"

	"ForexSentinel/internal/model"
)

// FindCandidates clusters swings into candidate zones inside band.
//
// Every pair of swings (i, j) in price order with at least MinTouches-1 swings
// between them bounds a candidate. A candidate survives when its height lies in
// [MinHeightPrice, MaxHeightPrice], at least MinTouches swings fall inside it,
// and those swings are at least MinSwingGapBars apart in time. Candidates that
// round to the same pip bounds keep the best score.
func FindCandidates(swings []model.SwingPoint, lastBarIndex int, band Band, ctx *Context) []model.AOIZoneCandidate {
	minTouches := ctx.Settings.MinTouches
	if minTouches < 1 {
		minTouches = 1
	}

	chrono := make([]model.SwingPoint, len(swings))
	copy(chrono, swings)
	sort.SliceStable(chrono, func(i, j int) bool { return chrono[i].Index < chrono[j].Index })

	byPrice := make([]model.SwingPoint, len(swings))
	copy(byPrice, swings)
	sort.SliceStable(byPrice, func(i, j int) bool { return byPrice[i].Price < byPrice[j].Price })

	var out []model.AOIZoneCandidate
	seen := make(map[zoneKey]int)
	total := len(byPrice)

	for i := 0; i < total; i++ {
		lower := byPrice[i].Price
		if lower < band.Low {
			continue
		}
		for j := i + minTouches - 1; j < total; j++ {
			upper := byPrice[j].Price
			height := upper - lower
			if upper > band.High || height > ctx.MaxHeightPrice {
				break
			}
			if height < ctx.MinHeightPrice {
				continue
			}

			members := membersWithin(chrono, lower, upper)
			if len(members) < minTouches {
				continue
			}
			if !hasSufficientSpacing(members, ctx.Settings.MinSwingGapBars) {
				continue
			}

			last := members[len(members)-1]
			cand := model.AOIZoneCandidate{
				LowerBound:     lower,
				UpperBound:     upper,
				Height:         height,
				Touches:        len(members),
				Score:          ScoreZone(lower, upper, len(members), last, lastBarIndex, ctx),
				LastSwingIndex: last,
			}

			key := ctx.keyFor(lower, upper)
			if pos, ok := seen[key]; ok {
				if cand.Score > out[pos].Score {
					out[pos] = cand
				}
				continue
			}
			seen[key] = len(out)
			out = append(out, cand)
		}
	}
	return out
}

// membersWithin returns the chronological indices of swings priced inside [lower, upper].
func membersWithin(chrono []model.SwingPoint, lower, upper float64) []int {
	var idx []int
	for _, s := range chrono {
		if s.Price >= lower && s.Price <= upper {
			idx = append(idx, s.Index)
		}
	}
	return idx
}

func hasSufficientSpacing(indices []int, minGap int) bool {
	for i := 1; i < len(indices); i++ {
		if indices[i]-indices[i-1] < minGap {
			return false
		}
	}
	return true
}

// ScoreZone rewards tight, frequently touched, recently active zones, with up
// to a 20% bonus for zones near the edges of the base range.
func ScoreZone(lower, upper float64, touches, lastSwingIndex, lastBarIndex int, ctx *Context) float64 {
	height := upper - lower
	density := math.Pow(float64(touches), 1.2) / math.Max(height, 1e-6)

	barsSinceLast := float64(lastBarIndex - lastSwingIndex)
	recency := 1 / (1 + barsSinceLast/100.0)

	zoneMid := (upper + lower) / 2
	rangeMid := (ctx.BaseHigh + ctx.BaseLow) / 2
	rangeHalf := math.Max((ctx.BaseHigh-ctx.BaseLow)/2, 1e-9)
	extremity := 1 + 0.2*math.Abs(zoneMid-rangeMid)/rangeHalf

	return density * recency * extremity
}
