package recorder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"ForexSentinel/internal/model"
)

// SQLiteRecorder persists analysis results to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger zerolog.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode keeps external readers unblocked while jobs write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger.With().Str("component", "sqlite_recorder").Logger()}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trends (
			symbol      TEXT NOT NULL,
			timeframe   TEXT NOT NULL,
			trend       TEXT NOT NULL,
			high        REAL,
			low         REAL,
			analyzed_at INTEGER NOT NULL,
			PRIMARY KEY (symbol, timeframe)
		)`,

		`CREATE TABLE IF NOT EXISTS trend_history (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol      TEXT NOT NULL,
			timeframe   TEXT NOT NULL,
			trend       TEXT NOT NULL,
			high        REAL,
			low         REAL,
			analyzed_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trend_history_symbol ON trend_history(symbol, timeframe, analyzed_at)`,

		`CREATE TABLE IF NOT EXISTS aoi_zones (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol           TEXT NOT NULL,
			timeframe        TEXT NOT NULL,
			lower_bound      REAL NOT NULL,
			upper_bound      REAL NOT NULL,
			height           REAL,
			score            REAL,
			touches          INTEGER,
			last_swing_index INTEGER,
			zone_type        TEXT NOT NULL,
			created_at       INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_aoi_symbol ON aoi_zones(symbol, timeframe)`,

		`CREATE TABLE IF NOT EXISTS entry_signals (
			id             TEXT PRIMARY KEY,
			symbol         TEXT NOT NULL,
			timeframe      TEXT NOT NULL,
			zone_timeframe TEXT,
			direction      TEXT NOT NULL,
			zone_lower     REAL,
			zone_upper     REAL,
			signal_time    INTEGER NOT NULL,
			entry_price    REAL,
			trend_snapshot TEXT,
			candles        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON entry_signals(signal_time)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTrend(ctx context.Context, rec *model.TrendRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := rec.AnalyzedAt.Unix()
	if _, err := r.db.ExecContext(ctx, `INSERT INTO trends (symbol, timeframe, trend, high, low, analyzed_at)
		VALUES (?,?,?,?,?,?)
		ON CONFLICT(symbol, timeframe) DO UPDATE SET
			trend = excluded.trend, high = excluded.high, low = excluded.low, analyzed_at = excluded.analyzed_at`,
		rec.Symbol, rec.Timeframe, string(rec.Trend), rec.High, rec.Low, ts,
	); err != nil {
		return fmt.Errorf("upsert trend: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `INSERT INTO trend_history
		(symbol, timeframe, trend, high, low, analyzed_at) VALUES (?,?,?,?,?,?)`,
		rec.Symbol, rec.Timeframe, string(rec.Trend), rec.High, rec.Low, ts,
	); err != nil {
		return fmt.Errorf("insert trend history: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) ReplaceAOIs(ctx context.Context, symbol, timeframe string, zones []model.AOIZone) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM aoi_zones WHERE symbol = ? AND timeframe = ?`, symbol, timeframe); err != nil {
		return fmt.Errorf("clear zones: %w", err)
	}
	now := time.Now().Unix()
	for _, z := range zones {
		if _, err := tx.ExecContext(ctx, `INSERT INTO aoi_zones
			(symbol, timeframe, lower_bound, upper_bound, height, score, touches, last_swing_index, zone_type, created_at)
			VALUES (?,?,?,?,?,?,?,?,?,?)`,
			symbol, timeframe, z.LowerBound, z.UpperBound, z.Height, z.Score,
			z.Touches, z.LastSwingIndex, string(z.Type), now,
		); err != nil {
			return fmt.Errorf("insert zone: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordSignal(ctx context.Context, sig *model.EntrySignal) error {
	trends, candles, err := encodeSignal(sig)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, err = r.db.ExecContext(ctx, `INSERT INTO entry_signals
		(id, symbol, timeframe, zone_timeframe, direction, zone_lower, zone_upper,
		 signal_time, entry_price, trend_snapshot, candles)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		sig.ID, sig.Symbol, sig.Timeframe, sig.ZoneTimeframe, string(sig.Direction),
		sig.ZoneLower, sig.ZoneUpper, sig.SignalTime.Unix(), sig.EntryPrice,
		trends, candles,
	)
	if err != nil {
		return fmt.Errorf("insert signal: %w", err)
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}

func encodeSignal(sig *model.EntrySignal) (trends, candles string, err error) {
	t, err := json.Marshal(sig.TrendSnapshot)
	if err != nil {
		return "", "", fmt.Errorf("encode trend snapshot: %w", err)
	}
	c, err := json.Marshal(sig.Candles)
	if err != nil {
		return "", "", fmt.Errorf("encode candles: %w", err)
	}
	return string(t), string(c), nil
}
