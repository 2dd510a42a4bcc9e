package collector

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"ForexSentinel/internal/calculator"
	"ForexSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Candles map[string][]model.Candle // keyed by timeframe
	Err     error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCandles(_ context.Context, _ string, timeframe string, count int) ([]model.Candle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if bars, ok := m.Candles[timeframe]; ok {
		return lastN(bars, count), nil
	}
	dur, err := TimeframeDuration(timeframe)
	if err != nil {
		return nil, err
	}
	return generateMockCandles(m.Price, count, dur), nil
}

// generateMockCandles produces a gentle wave around basePrice.
func generateMockCandles(basePrice float64, count int, step time.Duration) []model.Candle {
	bars := make([]model.Candle, count)
	start := time.Now().UTC().Truncate(step).Add(-time.Duration(count) * step)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.004*math.Sin(float64(i)/3))
		bars[i] = model.Candle{
			Time:   start.Add(time.Duration(i) * step),
			Open:   p * 0.9995,
			High:   p * 1.001,
			Low:    p * 0.999,
			Close:  p,
			Volume: 1000,
		}
	}
	return bars
}

// Collector fetches candles and derives the per-symbol market snapshot.
type Collector struct {
	Fetcher   Fetcher
	ATRPeriod int
	logger    zerolog.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, logger zerolog.Logger) *Collector {
	return &Collector{
		Fetcher:   fetcher,
		ATRPeriod: calculator.DefaultATRPeriod,
		logger:    logger.With().Str("component", "collector").Logger(),
	}
}

// Collect fetches count candles of symbol/timeframe and computes pip size and ATR.
// An ATR failure is not fatal: the snapshot carries ATRPips 0 and the AOI
// stage skips the symbol.
func (c *Collector) Collect(ctx context.Context, symbol, timeframe string, count int) (*model.MarketSnapshot, error) {
	bars, err := c.Fetcher.FetchCandles(ctx, symbol, timeframe, count)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %s candles: %w", symbol, timeframe, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch %s %s candles: %w", symbol, timeframe, ErrNoData)
	}

	snap := &model.MarketSnapshot{
		Symbol:       symbol,
		Timeframe:    timeframe,
		Candles:      bars,
		Closes:       calculator.ExtractCloses(bars),
		CurrentPrice: bars[len(bars)-1].Close,
		PipSize:      calculator.PipSize(symbol),
		FetchedAt:    time.Now().UTC(),
	}

	if atr, err := calculator.CalculateATRPips(bars, c.ATRPeriod, snap.PipSize); err != nil {
		c.logger.Warn().
			Err(err).
			Str("symbol", symbol).
			Str("timeframe", timeframe).
			Msg("ATR calculation failed, AOI analysis will be skipped")
	} else {
		snap.ATRPips = atr
	}

	return snap, nil
}
