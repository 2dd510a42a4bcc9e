package calculator

import "strings"

// PipSize returns the pip size for a forex symbol. JPY-quoted pairs use 0.01.
func PipSize(symbol string) float64 {
	if strings.HasSuffix(strings.ToUpper(symbol), "JPY") {
		return 0.01
	}
	return 0.0001
}

// PriceToPips converts a price difference to pips. Returns 0 for a zero pip size.
func PriceToPips(diff, pipSize float64) float64 {
	if pipSize == 0 {
		return 0
	}
	return diff / pipSize
}

// PipsToPrice converts a pip count back into a raw price difference.
func PipsToPrice(pips, pipSize float64) float64 {
	return pips * pipSize
}
