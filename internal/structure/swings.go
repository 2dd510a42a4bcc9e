// Package structure extracts swing points from a price series and tracks the
// market structure trend they form.
package structure

import (
	"sort"

	"ForexSentinel/internal/model"
)

// DetectSwings finds swing highs and lows in prices, ordered chronologically.
// A synthetic point of the opposite kind is appended one bar after the last
// detected swing, priced at the final close, so the unresolved move of the most
// recent bars is evaluated against the structure. Returns nil when no swing is found.
func DetectSwings(prices []float64, distance int, prominence float64) []model.SwingPoint {
	if len(prices) < 3 {
		return nil
	}

	highs := findPeaks(prices, distance, prominence)

	negated := make([]float64, len(prices))
	for i, p := range prices {
		negated[i] = -p
	}
	lows := findPeaks(negated, distance, prominence)

	swings := make([]model.SwingPoint, 0, len(highs)+len(lows)+1)
	for _, idx := range highs {
		swings = append(swings, model.SwingPoint{Index: idx, Price: prices[idx], Kind: model.SwingHigh})
	}
	for _, idx := range lows {
		swings = append(swings, model.SwingPoint{Index: idx, Price: prices[idx], Kind: model.SwingLow})
	}
	if len(swings) == 0 {
		return nil
	}

	sort.SliceStable(swings, func(i, j int) bool { return swings[i].Index < swings[j].Index })
	return append(swings, trailingPoint(prices, swings[len(swings)-1]))
}

func trailingPoint(prices []float64, last model.SwingPoint) model.SwingPoint {
	kind := model.SwingLow
	if last.Kind == model.SwingLow {
		kind = model.SwingHigh
	}
	return model.SwingPoint{Index: last.Index + 1, Price: prices[len(prices)-1], Kind: kind}
}
