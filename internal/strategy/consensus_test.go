package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ForexSentinel/internal/model"
)

func TestConsensus(t *testing.T) {
	bull, bear, neutral := model.TrendBullish, model.TrendBearish, model.TrendNeutral
	order := []string{"4H", "1D", "1W"}

	tests := []struct {
		name    string
		trends  map[string]model.TrendDirection
		order   []string
		want    model.TrendDirection
		aligned bool
	}{
		{"all agree", map[string]model.TrendDirection{"4H": bull, "1D": bull, "1W": bull}, order, bull, true},
		{"middle agrees with lower", map[string]model.TrendDirection{"4H": bear, "1D": bear, "1W": bull}, order, bear, true},
		{"middle agrees with higher", map[string]model.TrendDirection{"4H": bull, "1D": bear, "1W": bear}, order, bear, true},
		{"middle alone", map[string]model.TrendDirection{"4H": bull, "1D": neutral, "1W": bear}, order, "", false},
		{"neutral consensus", map[string]model.TrendDirection{"4H": neutral, "1D": neutral, "1W": bull}, order, neutral, true},
		{"missing timeframe", map[string]model.TrendDirection{"4H": bull, "1D": bull}, order, "", false},
		{"two agree", map[string]model.TrendDirection{"1D": bull, "1W": bull}, []string{"1D", "1W"}, bull, true},
		{"two disagree", map[string]model.TrendDirection{"1D": bull, "1W": bear}, []string{"1D", "1W"}, "", false},
		{"single timeframe", map[string]model.TrendDirection{"1D": bull}, []string{"1D"}, "", false},
		{"empty order", map[string]model.TrendDirection{"1D": bull}, nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Consensus(tt.trends, tt.order)
			assert.Equal(t, tt.aligned, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
