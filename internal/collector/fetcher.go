package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"ForexSentinel/internal/model"
)

var (
	// ErrNoData is returned when a source answers without any usable candles.
	ErrNoData = errors.New("no candle data")
	// ErrUnsupportedTimeframe is returned for timeframes outside 1H/4H/1D/1W.
	ErrUnsupportedTimeframe = errors.New("unsupported timeframe")
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchCandles returns up to count closed candles in chronological order.
	FetchCandles(ctx context.Context, symbol, timeframe string, count int) ([]model.Candle, error)
	Name() string
}

// TimeframeDuration returns the bar length of a timeframe label.
func TimeframeDuration(timeframe string) (time.Duration, error) {
	switch timeframe {
	case "1H":
		return time.Hour, nil
	case "4H":
		return 4 * time.Hour, nil
	case "1D":
		return 24 * time.Hour, nil
	case "1W":
		return 7 * 24 * time.Hour, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedTimeframe, timeframe)
}

func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

func lastN(bars []model.Candle, n int) []model.Candle {
	if n > 0 && len(bars) > n {
		return bars[len(bars)-n:]
	}
	return bars
}
