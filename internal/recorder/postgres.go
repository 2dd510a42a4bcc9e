package recorder

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"ForexSentinel/internal/model"
)

// PoolConfig sizes the Postgres connection pool.
type PoolConfig struct {
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxConns:          5,
		MinConns:          1,
		MaxConnLifetime:   30 * time.Minute,
		MaxConnIdleTime:   5 * time.Minute,
		HealthCheckPeriod: 30 * time.Second,
	}
}

// PoolConfigFromEnv applies DB_MAX_CONNS, DB_MIN_CONNS, DB_MAX_CONN_LIFETIME,
// DB_MAX_CONN_IDLE_TIME and DB_HEALTHCHECK_PERIOD on top of the defaults.
func PoolConfigFromEnv() PoolConfig {
	cfg := DefaultPoolConfig()

	if v := strings.TrimSpace(os.Getenv("DB_MAX_CONNS")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			cfg.MaxConns = int32(n)
		}
	}
	if v := strings.TrimSpace(os.Getenv("DB_MIN_CONNS")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			cfg.MinConns = int32(n)
		}
	}
	if v := strings.TrimSpace(os.Getenv("DB_MAX_CONN_LIFETIME")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.MaxConnLifetime = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("DB_MAX_CONN_IDLE_TIME")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.MaxConnIdleTime = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("DB_HEALTHCHECK_PERIOD")); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HealthCheckPeriod = d
		}
	}

	if cfg.MaxConns < 1 {
		cfg.MaxConns = 1
	}
	if cfg.MinConns < 0 {
		cfg.MinConns = 0
	}
	if cfg.MinConns > cfg.MaxConns {
		cfg.MinConns = cfg.MaxConns
	}
	return cfg
}

// PostgresRecorder persists analysis results to Postgres through a pgx pool.
type PostgresRecorder struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPostgresRecorder connects, pings and migrates the database.
func NewPostgresRecorder(ctx context.Context, dsn string, cfg PoolConfig, logger zerolog.Logger) (*PostgresRecorder, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	r := &PostgresRecorder{pool: pool, logger: logger.With().Str("component", "postgres_recorder").Logger()}
	if err := r.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	r.logger.Info().Int32("max_conns", cfg.MaxConns).Msg("postgres recorder opened")
	return r, nil
}

func (r *PostgresRecorder) migrate(ctx context.Context) error {
	stmts := []string{
		`create table if not exists trends (
			symbol text not null,
			timeframe text not null,
			trend text not null,
			high double precision null,
			low double precision null,
			analyzed_at timestamptz not null,
			primary key (symbol, timeframe)
		);`,
		`create table if not exists trend_history (
			id bigserial primary key,
			symbol text not null,
			timeframe text not null,
			trend text not null,
			high double precision null,
			low double precision null,
			analyzed_at timestamptz not null
		);`,
		`create index if not exists idx_trend_history_symbol on trend_history(symbol, timeframe, analyzed_at);`,
		`create table if not exists aoi_zones (
			id bigserial primary key,
			symbol text not null,
			timeframe text not null,
			lower_bound double precision not null,
			upper_bound double precision not null,
			height double precision not null default 0,
			score double precision not null default 0,
			touches int not null default 0,
			last_swing_index int not null default 0,
			zone_type text not null,
			created_at timestamptz not null default now()
		);`,
		`create index if not exists idx_aoi_symbol on aoi_zones(symbol, timeframe);`,
		`create table if not exists entry_signals (
			id uuid primary key,
			symbol text not null,
			timeframe text not null,
			zone_timeframe text not null default '',
			direction text not null,
			zone_lower double precision not null,
			zone_upper double precision not null,
			signal_time timestamptz not null,
			entry_price double precision not null,
			trend_snapshot jsonb not null default '{}'::jsonb,
			candles jsonb not null default '[]'::jsonb
		);`,
		`create index if not exists idx_signals_ts on entry_signals(signal_time);`,
	}
	for _, s := range stmts {
		if _, err := r.pool.Exec(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *PostgresRecorder) RecordTrend(ctx context.Context, rec *model.TrendRecord) error {
	batch := &pgx.Batch{}
	batch.Queue(`insert into trends (symbol, timeframe, trend, high, low, analyzed_at)
		values ($1,$2,$3,$4,$5,$6)
		on conflict (symbol, timeframe) do update set
			trend = excluded.trend, high = excluded.high, low = excluded.low, analyzed_at = excluded.analyzed_at`,
		rec.Symbol, rec.Timeframe, string(rec.Trend), rec.High, rec.Low, rec.AnalyzedAt)
	batch.Queue(`insert into trend_history (symbol, timeframe, trend, high, low, analyzed_at)
		values ($1,$2,$3,$4,$5,$6)`,
		rec.Symbol, rec.Timeframe, string(rec.Trend), rec.High, rec.Low, rec.AnalyzedAt)

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("record trend: %w", err)
	}
	return nil
}

func (r *PostgresRecorder) ReplaceAOIs(ctx context.Context, symbol, timeframe string, zones []model.AOIZone) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `delete from aoi_zones where symbol = $1 and timeframe = $2`, symbol, timeframe); err != nil {
			return fmt.Errorf("clear zones: %w", err)
		}
		for _, z := range zones {
			if _, err := tx.Exec(ctx, `insert into aoi_zones
				(symbol, timeframe, lower_bound, upper_bound, height, score, touches, last_swing_index, zone_type)
				values ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
				symbol, timeframe, z.LowerBound, z.UpperBound, z.Height, z.Score,
				z.Touches, z.LastSwingIndex, string(z.Type),
			); err != nil {
				return fmt.Errorf("insert zone: %w", err)
			}
		}
		return nil
	})
}

func (r *PostgresRecorder) RecordSignal(ctx context.Context, sig *model.EntrySignal) error {
	trends, candles, err := encodeSignal(sig)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `insert into entry_signals
		(id, symbol, timeframe, zone_timeframe, direction, zone_lower, zone_upper,
		 signal_time, entry_price, trend_snapshot, candles)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10::jsonb,$11::jsonb)
		on conflict (id) do nothing`,
		sig.ID, sig.Symbol, sig.Timeframe, sig.ZoneTimeframe, string(sig.Direction),
		sig.ZoneLower, sig.ZoneUpper, sig.SignalTime, sig.EntryPrice, trends, candles,
	)
	if err != nil {
		return fmt.Errorf("insert signal: %w", err)
	}
	return nil
}

func (r *PostgresRecorder) Close() error {
	r.logger.Info().Msg("closing postgres recorder")
	r.pool.Close()
	return nil
}
