package strategy

import "ForexSentinel/internal/model"

// Consensus derives one trend from several timeframes listed in order, lowest
// first. With three or more timeframes the middle one of the first three wins
// when it agrees with a neighbour; with two they must agree. Any timeframe
// without a known trend means there is no consensus.
func Consensus(trends map[string]model.TrendDirection, order []string) (model.TrendDirection, bool) {
	if len(order) < 2 {
		return "", false
	}
	values := make([]model.TrendDirection, 0, len(order))
	for _, tf := range order {
		t, ok := trends[tf]
		if !ok || t == "" {
			return "", false
		}
		values = append(values, t)
	}

	if len(values) >= 3 {
		if values[0] == values[1] || values[1] == values[2] {
			return values[1], true
		}
		return "", false
	}
	if values[0] == values[1] {
		return values[0], true
	}
	return "", false
}
