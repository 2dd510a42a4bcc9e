package model

// ZoneType labels a classified AOI zone relative to price and trend.
type ZoneType string

const (
	ZoneTradable  ZoneType = "tradable"
	ZoneReference ZoneType = "reference"
)

// AOIZoneCandidate is an unclassified price band produced by clustering.
type AOIZoneCandidate struct {
	LowerBound     float64
	UpperBound     float64
	Height         float64
	Touches        int
	Score          float64
	LastSwingIndex int
}

// AOIZone is a classified area of interest, the terminal output of the AOI pipeline.
type AOIZone struct {
	LowerBound     float64  `json:"lower_bound"`
	UpperBound     float64  `json:"upper_bound"`
	Height         float64  `json:"height"`
	Score          float64  `json:"score"`
	Touches        int      `json:"touches"`
	LastSwingIndex int      `json:"last_swing_index"`
	Type           ZoneType `json:"type"`
}

// Bounds returns the zone edges ordered low to high.
func (z AOIZone) Bounds() (lower, upper float64) {
	if z.LowerBound <= z.UpperBound {
		return z.LowerBound, z.UpperBound
	}
	return z.UpperBound, z.LowerBound
}
