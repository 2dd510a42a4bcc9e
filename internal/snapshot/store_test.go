package snapshot

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ForexSentinel/internal/model"
)

func TestLessTimeframe(t *testing.T) {
	tfs := []string{"1W", "XX", "1H", "1D", "4H"}
	for i := 0; i < len(tfs); i++ {
		for j := i + 1; j < len(tfs); j++ {
			if LessTimeframe(tfs[j], tfs[i]) {
				tfs[i], tfs[j] = tfs[j], tfs[i]
			}
		}
	}
	assert.Equal(t, []string{"1H", "4H", "1D", "1W", "XX"}, tfs)
}

func TestStore_Trends(t *testing.T) {
	s := NewStore(0)
	s.SetTrend(model.TrendRecord{Symbol: "GBPUSD", Timeframe: "1D", Trend: model.TrendBearish})
	s.SetTrend(model.TrendRecord{Symbol: "EURUSD", Timeframe: "1W", Trend: model.TrendBullish})
	s.SetTrend(model.TrendRecord{Symbol: "EURUSD", Timeframe: "4H", Trend: model.TrendNeutral})
	s.SetTrend(model.TrendRecord{Symbol: "EURUSD", Timeframe: "4H", Trend: model.TrendBullish})

	all := s.Trends()
	require.Len(t, all, 3)
	assert.Equal(t, "EURUSD", all[0].Symbol)
	assert.Equal(t, "4H", all[0].Timeframe)
	assert.Equal(t, "1W", all[1].Timeframe)
	assert.Equal(t, "GBPUSD", all[2].Symbol)

	rec, ok := s.Trend("EURUSD", "4H")
	require.True(t, ok)
	assert.Equal(t, model.TrendBullish, rec.Trend)

	_, ok = s.Trend("USDJPY", "4H")
	assert.False(t, ok)

	assert.Equal(t, map[string]model.TrendDirection{"4H": model.TrendBullish, "1W": model.TrendBullish}, s.TrendMap("EURUSD"))
	assert.Len(t, s.TrendsFor("GBPUSD"), 1)
}

func TestStore_Zones(t *testing.T) {
	s := NewStore(0)
	zones := []model.AOIZone{{LowerBound: 1.1, UpperBound: 1.11, Type: model.ZoneTradable}}
	s.SetZones(ZoneSet{Symbol: "EURUSD", Timeframe: "1D", Zones: zones})
	s.SetZones(ZoneSet{Symbol: "EURUSD", Timeframe: "4H"})

	zones[0].LowerBound = 9 // the store holds its own copy

	got, ok := s.Zones("EURUSD", "1D")
	require.True(t, ok)
	assert.Equal(t, 1.1, got.Zones[0].LowerBound)

	sets := s.ZonesFor("EURUSD")
	require.Len(t, sets, 2)
	assert.Equal(t, "4H", sets[0].Timeframe)
	assert.Empty(t, s.ZonesFor("USDJPY"))
}

func sig(i int) model.EntrySignal {
	return model.EntrySignal{
		Symbol:     "EURUSD",
		ZoneLower:  1.1,
		ZoneUpper:  1.11,
		SignalTime: time.Date(2025, 3, 3, i, 0, 0, 0, time.UTC),
	}
}

func TestStore_Signals(t *testing.T) {
	s := NewStore(3)

	assert.True(t, s.AddSignal(sig(0)))
	assert.False(t, s.AddSignal(sig(0)))
	for i := 1; i < 5; i++ {
		assert.True(t, s.AddSignal(sig(i)))
	}

	got := s.Signals(0)
	require.Len(t, got, 3)
	assert.Equal(t, 4, got[0].SignalTime.Hour())
	assert.Equal(t, 2, got[2].SignalTime.Hour())
	assert.Len(t, s.Signals(2), 2)

	// evicted signals are no longer remembered
	assert.True(t, s.AddSignal(sig(0)))
}

func TestStore_Concurrent(t *testing.T) {
	s := NewStore(50)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sym := fmt.Sprintf("SYM%d", i)
			s.SetTrend(model.TrendRecord{Symbol: sym, Timeframe: "4H", Trend: model.TrendBullish})
			s.SetZones(ZoneSet{Symbol: sym, Timeframe: "4H"})
			s.AddSignal(model.EntrySignal{Symbol: sym})
			_ = s.Trends()
			_ = s.Signals(5)
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Trends(), 20)
	assert.Len(t, s.Signals(0), 20)
}
