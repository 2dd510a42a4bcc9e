package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ForexSentinel/internal/config"
	"ForexSentinel/internal/recorder"
)

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		raw  string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			for _, pretty := range []bool{false, true} {
				logger := newLogger(tt.raw, pretty)
				assert.Equal(t, tt.want, logger.GetLevel())
			}
		})
	}
}

func TestNewRecorder(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	cfg.Database.Driver = "none"
	rec := newRecorder(ctx, cfg, zerolog.Nop())
	assert.IsType(t, &recorder.NoopRecorder{}, rec)

	cfg.Database.Driver = "sqlite"
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "nested", "bot.db")
	rec = newRecorder(ctx, cfg, zerolog.Nop())
	require.IsType(t, &recorder.SQLiteRecorder{}, rec)
	require.NoError(t, rec.Close())

	cfg.Database.Driver = "postgres"
	cfg.Database.PostgresDSN = "postgres://sentinel@127.0.0.1:1/sentinel?connect_timeout=1"
	rec = newRecorder(ctx, cfg, zerolog.Nop())
	assert.IsType(t, &recorder.NoopRecorder{}, rec)
}
