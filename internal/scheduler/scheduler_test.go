package scheduler

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ForexSentinel/internal/collector"
	"ForexSentinel/internal/config"
	"ForexSentinel/internal/model"
	"ForexSentinel/internal/recorder"
	"ForexSentinel/internal/snapshot"
	"ForexSentinel/internal/strategy"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// gatedFetcher blocks every fetch until release is closed.
type gatedFetcher struct {
	release chan struct{}
	started chan struct{}
	once    sync.Once
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{release: make(chan struct{}), started: make(chan struct{})}
}

func (f *gatedFetcher) Name() string { return "gated" }

func (f *gatedFetcher) FetchCandles(ctx context.Context, symbol, timeframe string, count int) ([]model.Candle, error) {
	f.once.Do(func() { close(f.started) })
	<-f.release
	return (&collector.MockFetcher{Price: 1.1}).FetchCandles(ctx, symbol, timeframe, count)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Symbols = []string{"EURUSD"}
	cfg.Schedule.MaxParallel = 2
	return cfg
}

func newTestScheduler(t *testing.T, fetcher collector.Fetcher) (*Scheduler, *fakeNotifier) {
	t.Helper()
	n := &fakeNotifier{}
	s := NewScheduler(context.Background(), testConfig(t), collector.NewCollector(fetcher, zerolog.Nop()),
		n, recorder.NewNoopRecorder(), snapshot.NewStore(10), zerolog.Nop())
	return s, n
}

func seedTrends(store *snapshot.Store, symbol string, trends map[string]model.TrendDirection) {
	for tf, tr := range trends {
		store.SetTrend(model.TrendRecord{Symbol: symbol, Timeframe: tf, Trend: tr, AnalyzedAt: time.Now()})
	}
}

func entryCandles() []model.Candle {
	base := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	bars := []model.Candle{
		{Open: 1.0940, High: 1.0965, Low: 1.0935, Close: 1.0960},
		{Open: 1.0960, High: 1.0990, Low: 1.0955, Close: 1.0980},
		{Open: 1.0970, High: 1.0975, Low: 1.0930, Close: 1.0940},
	}
	for i := range bars {
		bars[i].Time = base.Add(time.Duration(i) * time.Hour)
	}
	return bars
}

func TestRunJob_EntrySignal(t *testing.T) {
	fetcher := &collector.MockFetcher{Candles: map[string][]model.Candle{"1H": entryCandles()}}
	s, n := newTestScheduler(t, fetcher)

	seedTrends(s.Store, "EURUSD", map[string]model.TrendDirection{
		"4H": model.TrendBearish, "1D": model.TrendBearish, "1W": model.TrendBearish,
	})
	s.Store.SetZones(snapshot.ZoneSet{
		Symbol:    "EURUSD",
		Timeframe: "4H",
		Trend:     model.TrendBearish,
		Zones:     []model.AOIZone{{LowerBound: 1.0950, UpperBound: 1.1000, Type: model.ZoneTradable}},
	})

	job := config.JobConfig{Timeframe: "1H", Entry: true}
	s.RunJob(job)

	signals := s.Store.Signals(0)
	require.Len(t, signals, 1)
	sig := signals[0]
	assert.NotEmpty(t, sig.ID)
	assert.Equal(t, "EURUSD", sig.Symbol)
	assert.Equal(t, "1H", sig.Timeframe)
	assert.Equal(t, "4H", sig.ZoneTimeframe)
	assert.Equal(t, model.TrendBearish, sig.Direction)
	assert.InDelta(t, 1.0940, sig.EntryPrice, 1e-9)
	assert.Equal(t, entryCandles()[2].Time, sig.SignalTime)
	assert.Len(t, sig.Candles, 3)
	assert.Equal(t, model.TrendBearish, sig.TrendSnapshot["1D"])
	assert.Equal(t, 1, n.count())

	// same pattern on the next run is not reported again
	s.RunJob(job)
	assert.Len(t, s.Store.Signals(0), 1)
	assert.Equal(t, 1, n.count())
}

func TestRunJob_EntryRequiresAlignment(t *testing.T) {
	fetcher := &collector.MockFetcher{Candles: map[string][]model.Candle{"1H": entryCandles()}}
	s, n := newTestScheduler(t, fetcher)

	seedTrends(s.Store, "EURUSD", map[string]model.TrendDirection{
		"4H": model.TrendBullish, "1D": model.TrendBearish, "1W": model.TrendNeutral,
	})
	s.Store.SetZones(snapshot.ZoneSet{
		Symbol:    "EURUSD",
		Timeframe: "4H",
		Zones:     []model.AOIZone{{LowerBound: 1.0950, UpperBound: 1.1000, Type: model.ZoneTradable}},
	})

	s.RunJob(config.JobConfig{Timeframe: "1H", Entry: true})
	assert.Empty(t, s.Store.Signals(0))
	assert.Zero(t, n.count())
}

func TestRunJob_ZonesClearedWhenNotAligned(t *testing.T) {
	s, _ := newTestScheduler(t, &collector.MockFetcher{Price: 1.1})
	seedTrends(s.Store, "EURUSD", map[string]model.TrendDirection{
		"4H": model.TrendBullish, "1D": model.TrendBearish, "1W": model.TrendNeutral,
	})
	s.Store.SetZones(snapshot.ZoneSet{
		Symbol:    "EURUSD",
		Timeframe: "4H",
		Zones:     []model.AOIZone{{LowerBound: 1.0950, UpperBound: 1.1000}},
	})

	s.RunJob(config.JobConfig{Timeframe: "4H", AOI: true})

	set, ok := s.Store.Zones("EURUSD", "4H")
	require.True(t, ok)
	assert.Empty(t, set.Zones)
	assert.Equal(t, model.TrendNeutral, set.Trend)
}

func TestRunJob_ZonesWhenAligned(t *testing.T) {
	s, _ := newTestScheduler(t, &collector.MockFetcher{Price: 1.1})
	seedTrends(s.Store, "EURUSD", map[string]model.TrendDirection{
		"4H": model.TrendBullish, "1D": model.TrendBullish, "1W": model.TrendBullish,
	})

	s.RunJob(config.JobConfig{Timeframe: "4H", AOI: true})

	set, ok := s.Store.Zones("EURUSD", "4H")
	require.True(t, ok)
	assert.Equal(t, model.TrendBullish, set.Trend)
	limit := s.Config.AOI["4H"].MaxZonesPerSymbol
	assert.LessOrEqual(t, len(set.Zones), limit)
	for _, z := range set.Zones {
		assert.LessOrEqual(t, z.LowerBound, z.UpperBound)
	}
}

func TestRunJob_Trend(t *testing.T) {
	s, _ := newTestScheduler(t, &collector.MockFetcher{Price: 1.1})

	s.RunJob(config.JobConfig{Timeframe: "1D", Trend: true})

	rec, ok := s.Store.Trend("EURUSD", "1D")
	require.True(t, ok)
	assert.Equal(t, "1D", rec.Timeframe)
	assert.False(t, rec.AnalyzedAt.IsZero())
}

func TestRunJob_FetchErrorIsContained(t *testing.T) {
	s, n := newTestScheduler(t, &collector.MockFetcher{Err: errors.New("upstream down")})

	s.RunJob(config.JobConfig{Timeframe: "1D", Trend: true, AOI: true})

	_, ok := s.Store.Trend("EURUSD", "1D")
	assert.False(t, ok)
	assert.Zero(t, n.count())
}

func TestFetchCount(t *testing.T) {
	s, _ := newTestScheduler(t, &collector.MockFetcher{})
	s.Config.DataSource.CandleCount = 50
	s.Config.Swing["4H"] = model.SwingParams{Lookback: 100, AOILookback: 180}
	s.Config.Entry.CandleCount = 30

	assert.Equal(t, 100, s.fetchCount(config.JobConfig{Timeframe: "4H", Trend: true}))
	assert.Equal(t, 180, s.fetchCount(config.JobConfig{Timeframe: "4H", AOI: true}))
	s.Config.Entry.CandleCount = 400
	assert.Equal(t, 400, s.fetchCount(config.JobConfig{Timeframe: "4H", Entry: true}))
}

func TestRegisterAll(t *testing.T) {
	s, _ := newTestScheduler(t, &collector.MockFetcher{})
	require.NoError(t, s.RegisterAll())
	assert.Len(t, s.Cron.Entries(), len(s.Config.Schedule.Jobs))

	s, _ = newTestScheduler(t, &collector.MockFetcher{})
	s.Config.Schedule.Jobs = []config.JobConfig{{Timeframe: "1H", Cron: "not a cron"}}
	err := s.RegisterAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "register 1H job")
}

func TestHandleCommand(t *testing.T) {
	s, _ := newTestScheduler(t, &collector.MockFetcher{})
	seedTrends(s.Store, "EURUSD", map[string]model.TrendDirection{"1D": model.TrendBullish})

	assert.Contains(t, s.HandleCommand("/trends"), "EURUSD")
	assert.Equal(t, "Usage: /aoi SYMBOL", s.HandleCommand("/aoi"))
	assert.Equal(t, "No AOI data for GBPUSD.", s.HandleCommand("/aoi gbpusd"))
	assert.Equal(t, "No entry signals yet.", s.HandleCommand("/signals"))
	assert.Equal(t, helpText, s.HandleCommand("/unknown"))
	assert.Equal(t, helpText, s.HandleCommand("   "))
}

func TestRunAllNow_TrendsBeforeZones(t *testing.T) {
	s, _ := newTestScheduler(t, &collector.MockFetcher{Price: 1.1})
	s.Config.Schedule.Jobs = []config.JobConfig{
		{Timeframe: "4H", Trend: true, AOI: true},
		{Timeframe: "1D", Trend: true, AOI: true},
		{Timeframe: "1W", Trend: true},
	}

	s.RunAllNow()

	for _, tf := range []string{"4H", "1D", "1W"} {
		_, ok := s.Store.Trend("EURUSD", tf)
		assert.True(t, ok, tf)
	}
	for _, tf := range []string{"4H", "1D"} {
		set, ok := s.Store.Zones("EURUSD", tf)
		require.True(t, ok, tf)
		want, aligned := strategy.Consensus(s.Store.TrendMap("EURUSD"), s.Config.AOI[tf].TrendAlignmentTimeframes)
		if aligned {
			assert.Equal(t, want, set.Trend, tf)
		} else {
			assert.Equal(t, model.TrendNeutral, set.Trend, tf)
		}
	}
}

func TestTriggerRunAll_SingleRunAndStopWaits(t *testing.T) {
	f := newGatedFetcher()
	s, _ := newTestScheduler(t, f)
	s.Config.Schedule.Jobs = []config.JobConfig{{Timeframe: "1D", Cron: "0 5 0 * * *", Trend: true}}

	require.True(t, s.TriggerRunAll())
	<-f.started
	assert.False(t, s.TriggerRunAll())
	assert.Equal(t, "A run is already in progress.", s.HandleCommand("/run"))

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
		t.Fatal("Stop returned while a manual run was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(f.release)
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not return after the run finished")
	}

	_, ok := s.Store.Trend("EURUSD", "1D")
	assert.True(t, ok, "run completed before Stop returned")
	assert.False(t, s.running.Load())
}

func TestTrySend_NilNotifier(t *testing.T) {
	s, _ := newTestScheduler(t, &collector.MockFetcher{})
	s.Notifier = nil
	assert.NotPanics(t, func() { s.trySend("hello") })
}
