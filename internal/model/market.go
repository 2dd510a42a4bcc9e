package model

import "time"

// Candle represents a single closed OHLCV bar.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// MarketSnapshot holds raw price data and derived volatility for one symbol/timeframe.
type MarketSnapshot struct {
	Symbol       string
	Timeframe    string
	Candles      []Candle
	Closes       []float64
	CurrentPrice float64
	PipSize      float64
	ATRPips      float64 // 0 when ATR could not be computed
	FetchedAt    time.Time
}

// LastBarIndex returns the index of the most recent bar, or -1 when empty.
func (s *MarketSnapshot) LastBarIndex() int {
	return len(s.Closes) - 1
}
