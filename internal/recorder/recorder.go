package recorder

import (
	"context"

	"ForexSentinel/internal/model"
)

// Recorder persists analysis results for later inspection.
type Recorder interface {
	// RecordTrend upserts the latest trend of a symbol/timeframe and appends it to history.
	RecordTrend(ctx context.Context, rec *model.TrendRecord) error
	// ReplaceAOIs clears the stored zones of symbol/timeframe and inserts zones.
	ReplaceAOIs(ctx context.Context, symbol, timeframe string, zones []model.AOIZone) error
	RecordSignal(ctx context.Context, sig *model.EntrySignal) error
	Close() error
}
