package model

// SwingParams controls swing detection and history depth for a timeframe.
type SwingParams struct {
	Lookback    int     `yaml:"lookback"`
	AOILookback int     `yaml:"aoi_lookback"`
	Distance    int     `yaml:"distance"`
	Prominence  float64 `yaml:"prominence"`
}

// AOISettings holds the AOI rules tied to a specific timeframe.
type AOISettings struct {
	Timeframe                string   `yaml:"-"`
	TimeframeHours           int      `yaml:"timeframe_hours"`
	MinTouches               int      `yaml:"min_touches"`
	MinRangePips             float64  `yaml:"min_range_pips"`
	MinSwingGapBars          int      `yaml:"min_swing_gap_bars"`
	OverlapTolerancePips     float64  `yaml:"overlap_tolerance_pips"`
	MaxAgeDays               int      `yaml:"max_age_days"`
	MaxZonesPerSymbol        int      `yaml:"max_zones_per_symbol"`
	MinHeightATRMultiplier   float64  `yaml:"min_height_atr_multiplier"`
	MinHeightPipsFloor       float64  `yaml:"min_height_pips_floor"`
	MaxHeightPipsFloor       float64  `yaml:"max_height_pips_floor"`
	MaxHeightATRMultiplier   float64  `yaml:"max_height_atr_multiplier"`
	AlignmentWeight          float64  `yaml:"alignment_weight"`
	TrendAlignmentTimeframes []string `yaml:"trend_alignment_timeframes"`
	BaseTimeframe            string   `yaml:"base_timeframe"`
	BoundToleranceRatio      float64  `yaml:"bound_tolerance_ratio"`
	StructuralSwingsOnly     bool     `yaml:"structural_swings_only"`
}

// MaxAgeBars converts the day-based age limit into bars of this timeframe.
func (s AOISettings) MaxAgeBars() int {
	if s.TimeframeHours <= 0 {
		return 0
	}
	return s.MaxAgeDays * 24 / s.TimeframeHours
}
