package collector

import (
	"time"

	"ForexSentinel/internal/model"
)

// aggregateIntraday folds hourly candles into buckets of period aligned to
// UTC midnight, e.g. 4H candles opening at 00, 04, 08, ...
func aggregateIntraday(hourly []model.Candle, period time.Duration) []model.Candle {
	return aggregate(hourly, func(t time.Time) int64 {
		return t.UTC().Truncate(period).Unix()
	})
}

// aggregateDailyToWeekly converts daily bars into ISO weekly bars.
func aggregateDailyToWeekly(daily []model.Candle) []model.Candle {
	return aggregate(daily, func(t time.Time) int64 {
		year, week := t.ISOWeek()
		return int64(year*100 + week)
	})
}

func aggregate(bars []model.Candle, bucket func(time.Time) int64) []model.Candle {
	if len(bars) == 0 {
		return nil
	}
	var out []model.Candle
	cur := bars[0]
	curKey := bucket(cur.Time)

	for _, b := range bars[1:] {
		key := bucket(b.Time)
		if key != curKey {
			out = append(out, cur)
			cur, curKey = b, key
			continue
		}
		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low < cur.Low {
			cur.Low = b.Low
		}
		cur.Close = b.Close
		cur.Volume += b.Volume
	}
	return append(out, cur)
}
