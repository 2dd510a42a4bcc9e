package recorder

import (
	"context"

	"ForexSentinel/internal/model"
)

// NoopRecorder is a no-op implementation used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordTrend(_ context.Context, _ *model.TrendRecord) error { return nil }
func (n *NoopRecorder) ReplaceAOIs(_ context.Context, _, _ string, _ []model.AOIZone) error {
	return nil
}
func (n *NoopRecorder) RecordSignal(_ context.Context, _ *model.EntrySignal) error { return nil }
func (n *NoopRecorder) Close() error { return nil }
