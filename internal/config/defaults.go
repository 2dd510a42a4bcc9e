package config

import "ForexSentinel/internal/model"

// DefaultSymbols are the forex pairs analysed when none are configured.
var DefaultSymbols = []string{
	"EURUSD", "GBPUSD", "USDJPY", "USDCHF", "USDCAD", "AUDUSD", "NZDUSD",
	"EURGBP", "EURJPY", "GBPJPY",
}

// DefaultJobs mirror the production cadence: 4H and 1D refresh trend and
// zones, 1W refreshes trend only, 1H scans for entries.
var DefaultJobs = []JobConfig{
	{Timeframe: "1H", Cron: "0 1 * * * 1-5", Trend: true, Entry: true},
	{Timeframe: "4H", Cron: "0 2 */4 * * *", Trend: true, AOI: true},
	{Timeframe: "1D", Cron: "0 5 0 * * *", Trend: true, AOI: true},
	{Timeframe: "1W", Cron: "0 10 0 * * 1", Trend: true},
}

// DefaultSwingParams holds swing detection parameters per timeframe.
var DefaultSwingParams = map[string]model.SwingParams{
	"1H": {Lookback: 100, AOILookback: 240, Distance: 1, Prominence: 0.0004},
	"4H": {Lookback: 100, AOILookback: 180, Distance: 1, Prominence: 0.0004},
	"1D": {Lookback: 100, AOILookback: 140, Distance: 1, Prominence: 0.0004},
	"1W": {Lookback: 100, Distance: 1, Prominence: 0.0004},
}

// DefaultAOISettings holds the AOI rules per timeframe.
var DefaultAOISettings = map[string]model.AOISettings{
	"1H": {
		TimeframeHours:           1,
		MinTouches:               3,
		MinRangePips:             15,
		MinSwingGapBars:          12,
		OverlapTolerancePips:     8,
		MaxAgeDays:               5,
		MaxZonesPerSymbol:        3,
		MinHeightATRMultiplier:   0.15,
		MinHeightPipsFloor:       5,
		MaxHeightPipsFloor:       30,
		MaxHeightATRMultiplier:   0.5,
		AlignmentWeight:          1.5,
		TrendAlignmentTimeframes: []string{"1H", "4H", "1D"},
		BoundToleranceRatio:      0.05,
		StructuralSwingsOnly:     true,
	},
	"4H": {
		TimeframeHours:           4,
		MinTouches:               3,
		MinRangePips:             30,
		MinSwingGapBars:          6,
		OverlapTolerancePips:     10,
		MaxAgeDays:               5,
		MaxZonesPerSymbol:        3,
		MinHeightATRMultiplier:   0.2,
		MinHeightPipsFloor:       10,
		MaxHeightPipsFloor:       50,
		MaxHeightATRMultiplier:   0.7,
		AlignmentWeight:          1.5,
		TrendAlignmentTimeframes: []string{"4H", "1D", "1W"},
		BoundToleranceRatio:      0.05,
		StructuralSwingsOnly:     true,
	},
	"1D": {
		TimeframeHours:           24,
		MinTouches:               3,
		MinRangePips:             60,
		MinSwingGapBars:          3,
		OverlapTolerancePips:     15,
		MaxAgeDays:               25,
		MaxZonesPerSymbol:        2,
		MinHeightATRMultiplier:   0.25,
		MinHeightPipsFloor:       10,
		MaxHeightPipsFloor:       100,
		MaxHeightATRMultiplier:   0.35,
		AlignmentWeight:          1.25,
		TrendAlignmentTimeframes: []string{"4H", "1D", "1W"},
		BoundToleranceRatio:      0.05,
		StructuralSwingsOnly:     true,
	},
}
