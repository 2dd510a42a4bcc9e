package notifier

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"ForexSentinel/internal/calculator"
	"ForexSentinel/internal/model"
	"ForexSentinel/internal/snapshot"
)

// priceFmt prints prices one digit finer than a pip.
func priceFmt(symbol string, price float64) string {
	if calculator.PipSize(symbol) >= 0.01 {
		return fmt.Sprintf("%.3f", price)
	}
	return fmt.Sprintf("%.5f", price)
}

func trendIcon(t model.TrendDirection) string {
	switch t {
	case model.TrendBullish:
		return "🟢"
	case model.TrendBearish:
		return "🔴"
	}
	return "⚪"
}

// FormatEntrySignal formats a detected entry into a Telegram message.
func FormatEntrySignal(sig model.EntrySignal) string {
	var b strings.Builder

	action := "SELL"
	if sig.Direction == model.TrendBullish {
		action = "BUY"
	}
	b.WriteString(fmt.Sprintf("🎯 <b>%s %s</b> | %s entry\n\n", action, html.EscapeString(sig.Symbol), sig.Timeframe))
	b.WriteString(fmt.Sprintf("AOI (%s): %s – %s\n", sig.ZoneTimeframe,
		priceFmt(sig.Symbol, sig.ZoneLower), priceFmt(sig.Symbol, sig.ZoneUpper)))
	b.WriteString(fmt.Sprintf("Break close: %s\n", priceFmt(sig.Symbol, sig.EntryPrice)))
	b.WriteString(fmt.Sprintf("Break time: %s UTC\n", sig.SignalTime.UTC().Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Pattern candles: %d\n", len(sig.Candles)))

	if len(sig.TrendSnapshot) > 0 {
		tfs := make([]string, 0, len(sig.TrendSnapshot))
		for tf := range sig.TrendSnapshot {
			tfs = append(tfs, tf)
		}
		sortTimeframes(tfs)
		b.WriteString("\nTrend: ")
		for i, tf := range tfs {
			if i > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(fmt.Sprintf("%s %s", tf, trendIcon(sig.TrendSnapshot[tf])))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatTrends renders one line per symbol with the trend of each timeframe.
// records must be ordered by symbol.
func FormatTrends(records []model.TrendRecord) string {
	if len(records) == 0 {
		return "No trend data yet."
	}
	var b strings.Builder
	b.WriteString("📈 <b>Trends</b>\n\n")

	current := ""
	for _, rec := range records {
		if rec.Symbol != current {
			if current != "" {
				b.WriteString("\n")
			}
			current = rec.Symbol
			b.WriteString(fmt.Sprintf("<code>%-7s</code>", html.EscapeString(rec.Symbol)))
		}
		b.WriteString(fmt.Sprintf(" %s %s", rec.Timeframe, trendIcon(rec.Trend)))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatZones lists the zones of one symbol across timeframes.
func FormatZones(symbol string, sets []snapshot.ZoneSet) string {
	if len(sets) == 0 {
		return fmt.Sprintf("No AOI data for %s.", html.EscapeString(symbol))
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🧱 <b>AOI %s</b>\n", html.EscapeString(symbol)))
	for _, set := range sets {
		b.WriteString(fmt.Sprintf("\n<b>%s</b> (trend %s)\n", set.Timeframe, trendIcon(set.Trend)))
		if len(set.Zones) == 0 {
			b.WriteString("  none\n")
			continue
		}
		for _, z := range set.Zones {
			marker := "·"
			if z.Type == model.ZoneTradable {
				marker = "★"
			}
			b.WriteString(fmt.Sprintf("  %s %s – %s  touches %d  score %.1f\n", marker,
				priceFmt(symbol, z.LowerBound), priceFmt(symbol, z.UpperBound), z.Touches, z.Score))
		}
	}
	return b.String()
}

// FormatSignals lists recent entry signals, newest first.
func FormatSignals(signals []model.EntrySignal) string {
	if len(signals) == 0 {
		return "No entry signals yet."
	}
	var b strings.Builder
	b.WriteString("🎯 <b>Recent signals</b>\n\n")
	for _, s := range signals {
		b.WriteString(fmt.Sprintf("%s %s %s @ %s (%s)\n",
			s.SignalTime.UTC().Format("01-02 15:04"), html.EscapeString(s.Symbol), s.Direction,
			priceFmt(s.Symbol, s.EntryPrice), s.ZoneTimeframe))
	}
	return b.String()
}

func sortTimeframes(tfs []string) {
	sort.Slice(tfs, func(i, j int) bool { return snapshot.LessTimeframe(tfs[i], tfs[j]) })
}
