package aoi

import (
	"sort"

	"ForexSentinel/internal/model"
)

// FilterByBounds keeps zones whose edges both lie inside band and whose height
// does not exceed the context maximum.
func FilterByBounds(zones []model.AOIZoneCandidate, band Band, ctx *Context) []model.AOIZoneCandidate {
	out := make([]model.AOIZoneCandidate, 0, len(zones))
	for _, z := range zones {
		if z.LowerBound < band.Low || z.LowerBound > band.High {
			continue
		}
		if z.UpperBound < band.Low || z.UpperBound > band.High {
			continue
		}
		if z.Height > ctx.MaxHeightPrice {
			continue
		}
		out = append(out, z)
	}
	return out
}

// MergeNearby folds zones that sit within the overlap tolerance of each other,
// as long as the merged zone stays under the maximum height.
func MergeNearby(zones []model.AOIZoneCandidate, ctx *Context) []model.AOIZoneCandidate {
	if len(zones) == 0 {
		return nil
	}
	sorted := sortedByLower(zones)
	tol := ctx.OverlapTolerancePrice

	merged := []model.AOIZoneCandidate{sorted[0]}
	for _, z := range sorted[1:] {
		last := &merged[len(merged)-1]
		if z.LowerBound > last.UpperBound+tol {
			merged = append(merged, z)
			continue
		}
		lower := min(last.LowerBound, z.LowerBound)
		upper := max(last.UpperBound, z.UpperBound)
		if upper-lower > ctx.MaxHeightPrice {
			merged = append(merged, z)
			continue
		}
		*last = model.AOIZoneCandidate{
			LowerBound:     lower,
			UpperBound:     upper,
			Height:         upper - lower,
			Touches:        last.Touches + z.Touches,
			Score:          max(last.Score, z.Score),
			LastSwingIndex: max(last.LastSwingIndex, z.LastSwingIndex),
		}
	}
	return merged
}

// FilterByAge drops zones whose last touch is older than MaxAgeBars.
func FilterByAge(zones []model.AOIZoneCandidate, lastBarIndex int, ctx *Context) []model.AOIZoneCandidate {
	cutoff := lastBarIndex - ctx.MaxAgeBars
	out := make([]model.AOIZoneCandidate, 0, len(zones))
	for _, z := range zones {
		if z.LastSwingIndex >= cutoff {
			out = append(out, z)
		}
	}
	return out
}

// FilterOverlapping greedily accepts zones by descending score, rejecting any
// zone that comes within the overlap tolerance of an accepted one. The result
// is sorted by lower bound.
func FilterOverlapping(zones []model.AOIZoneCandidate, ctx *Context) []model.AOIZoneCandidate {
	if len(zones) == 0 {
		return nil
	}
	ranked := make([]model.AOIZoneCandidate, len(zones))
	copy(ranked, zones)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	tol := ctx.OverlapTolerancePrice
	var selected []model.AOIZoneCandidate
	for _, z := range ranked {
		clash := false
		for _, s := range selected {
			if !(z.UpperBound < s.LowerBound-tol || z.LowerBound > s.UpperBound+tol) {
				clash = true
				break
			}
		}
		if !clash {
			selected = append(selected, z)
		}
	}
	return sortedByLower(selected)
}

// UnionBands combines the per-band results. Zones with identical rounded bounds
// keep the higher score, and the union is de-overlapped again.
func UnionBands(perBand [][]model.AOIZoneCandidate, ctx *Context) []model.AOIZoneCandidate {
	var union []model.AOIZoneCandidate
	seen := make(map[zoneKey]int)
	for _, zones := range perBand {
		for _, z := range zones {
			key := ctx.keyFor(z.LowerBound, z.UpperBound)
			if pos, ok := seen[key]; ok {
				if z.Score > union[pos].Score {
					union[pos] = z
				}
				continue
			}
			seen[key] = len(union)
			union = append(union, z)
		}
	}
	return FilterOverlapping(union, ctx)
}

func sortedByLower(zones []model.AOIZoneCandidate) []model.AOIZoneCandidate {
	out := make([]model.AOIZoneCandidate, len(zones))
	copy(out, zones)
	sort.SliceStable(out, func(i, j int) bool { return out[i].LowerBound < out[j].LowerBound })
	return out
}
