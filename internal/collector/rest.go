package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"ForexSentinel/internal/model"
)

// RESTFetcher implements Fetcher against a generic candle REST API:
//
//	GET {base}/api/v1/candles?symbol=EURUSD&timeframe=4H&limit=200
//
// Timeframes the API does not serve are built from finer candles: 4H from
// 1H, 1W from 1D.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restCandle is the expected JSON shape of one candle.
type restCandle struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (f *RESTFetcher) FetchCandles(ctx context.Context, symbol, timeframe string, count int) ([]model.Candle, error) {
	if _, err := TimeframeDuration(timeframe); err != nil {
		return nil, err
	}
	bars, err := f.fetchCandles(ctx, symbol, timeframe, count)
	if err == nil {
		return bars, nil
	}

	switch timeframe {
	case "4H":
		hourly, hErr := f.fetchCandles(ctx, symbol, "1H", count*4+4)
		if hErr != nil {
			return nil, fmt.Errorf("4H fetch failed: %w; 1H fallback also failed: %w", err, hErr)
		}
		return lastN(aggregateIntraday(hourly, 4*time.Hour), count), nil
	case "1W":
		daily, dErr := f.fetchCandles(ctx, symbol, "1D", count*7)
		if dErr != nil {
			return nil, fmt.Errorf("1W fetch failed: %w; 1D fallback also failed: %w", err, dErr)
		}
		return lastN(aggregateDailyToWeekly(daily), count), nil
	}
	return nil, err
}

func (f *RESTFetcher) fetchCandles(ctx context.Context, symbol, timeframe string, count int) ([]model.Candle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("timeframe", timeframe)
	q.Set("limit", fmt.Sprint(count))
	endpoint := f.BaseURL + "/api/v1/candles?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch candles: status %d, body: %s", resp.StatusCode, string(body))
	}
	var raw []restCandle
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode candles: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s %s: %w", symbol, timeframe, ErrNoData)
	}
	bars := make([]model.Candle, len(raw))
	for i, rc := range raw {
		bars[i] = model.Candle{
			Time:   time.Unix(rc.Timestamp, 0).UTC(),
			Open:   rc.Open,
			High:   rc.High,
			Low:    rc.Low,
			Close:  rc.Close,
			Volume: rc.Volume,
		}
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
