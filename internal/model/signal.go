package model

import "time"

// EntryPattern is a break-then-retest sequence found against a single zone.
type EntryPattern struct {
	Direction   TrendDirection
	Zone        AOIZone
	RetestIndex int
	BreakIndex  int
	Candles     []Candle // RetestIndex..BreakIndex inclusive
	BreakIsLast bool     // break candle is the newest candle in the window
}

// BreakCandle returns the candle that closed out of the zone.
func (p *EntryPattern) BreakCandle() Candle {
	return p.Candles[len(p.Candles)-1]
}

// EntrySignal is a detected pattern enriched with the context it was found in.
type EntrySignal struct {
	ID            string                    `json:"id"`
	Symbol        string                    `json:"symbol"`
	Timeframe     string                    `json:"timeframe"`
	ZoneTimeframe string                    `json:"zone_timeframe"`
	Direction     TrendDirection            `json:"direction"`
	ZoneLower     float64                   `json:"zone_lower"`
	ZoneUpper     float64                   `json:"zone_upper"`
	SignalTime    time.Time                 `json:"signal_time"`
	EntryPrice    float64                   `json:"entry_price"`
	TrendSnapshot map[string]TrendDirection `json:"trend_snapshot"`
	Candles       []Candle                  `json:"candles"`
}

// TrendRecord is the trend state of one symbol/timeframe after an analysis cycle.
type TrendRecord struct {
	Symbol     string         `json:"symbol"`
	Timeframe  string         `json:"timeframe"`
	Trend      TrendDirection `json:"trend"`
	High       *float64       `json:"high"`
	Low        *float64       `json:"low"`
	AnalyzedAt time.Time      `json:"analyzed_at"`
}
