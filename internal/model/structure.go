package model

// SwingKind distinguishes peaks from troughs.
type SwingKind uint8

const (
	SwingHigh SwingKind = iota + 1
	SwingLow
)

func (k SwingKind) String() string {
	switch k {
	case SwingHigh:
		return "H"
	case SwingLow:
		return "L"
	default:
		return "?"
	}
}

// SwingPoint is a local price extremum at a bar position.
type SwingPoint struct {
	Index int       `json:"index"`
	Price float64   `json:"price"`
	Kind  SwingKind `json:"kind"`
}

// TrendDirection is the structural trend classification.
type TrendDirection string

const (
	TrendNeutral TrendDirection = "neutral"
	TrendBullish TrendDirection = "bullish"
	TrendBearish TrendDirection = "bearish"
)

// ParseTrend normalizes a raw trend label. Unknown labels return false.
func ParseTrend(raw string) (TrendDirection, bool) {
	switch raw {
	case "bullish", "BULLISH", "Bullish":
		return TrendBullish, true
	case "bearish", "BEARISH", "Bearish":
		return TrendBearish, true
	case "neutral", "NEUTRAL", "Neutral":
		return TrendNeutral, true
	}
	return "", false
}

// IsDirectional reports whether the trend is Bullish or Bearish.
func (t TrendDirection) IsDirectional() bool {
	return t == TrendBullish || t == TrendBearish
}

// StructuralState is the currently confirmed structural high and low.
type StructuralState struct {
	High SwingPoint
	Low  SwingPoint
}

// StructureResult is the terminal view of one structure tracking pass.
// High and Low are nil when the trend could not be established.
type StructureResult struct {
	Trend TrendDirection
	High  *SwingPoint
	Low   *SwingPoint
}
