package scheduler

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ForexSentinel/internal/calculator"
	"ForexSentinel/internal/collector"
	"ForexSentinel/internal/config"
	"ForexSentinel/internal/model"
	"ForexSentinel/internal/notifier"
	"ForexSentinel/internal/recorder"
	"ForexSentinel/internal/snapshot"
	"ForexSentinel/internal/strategy"
)

// Notifier delivers formatted messages.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron jobs.
type Scheduler struct {
	Cron      *cron.Cron
	Config    *config.Config
	Collector *collector.Collector
	Notifier  Notifier // nil disables notifications
	Recorder  recorder.Recorder
	Store     *snapshot.Store
	Ctx       context.Context
	logger    zerolog.Logger

	running atomic.Bool    // a manual run is in flight
	manual  sync.WaitGroup // manual runs, awaited by Stop
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, cfg *config.Config, col *collector.Collector, n Notifier,
	rec recorder.Recorder, store *snapshot.Store, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Config:    cfg,
		Collector: col,
		Notifier:  n,
		Recorder:  rec,
		Store:     store,
		Ctx:       ctx,
		logger:    logger.With().Str("component", "scheduler").Logger(),
	}
}

// RegisterAll registers one cron entry per configured job.
func (s *Scheduler) RegisterAll() error {
	for _, job := range s.Config.Schedule.Jobs {
		if _, err := s.Cron.AddFunc(job.Cron, func() { s.RunJob(job) }); err != nil {
			return fmt.Errorf("register %s job: %w", job.Timeframe, err)
		}
		s.logger.Info().
			Str("timeframe", job.Timeframe).
			Str("cron", job.Cron).
			Bool("trend", job.Trend).
			Bool("aoi", job.AOI).
			Bool("entry", job.Entry).
			Msg("job registered")
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running cron jobs and manual runs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.manual.Wait()
	s.logger.Info().Msg("scheduler stopped")
}

// TriggerRunAll starts RunAllNow in the background unless a manual run is
// already in flight. It reports whether a run was started.
func (s *Scheduler) TriggerRunAll() bool {
	if !s.running.CompareAndSwap(false, true) {
		return false
	}
	s.manual.Add(1)
	go func() {
		defer s.manual.Done()
		defer s.running.Store(false)
		s.RunAllNow()
	}()
	return true
}

// RunAllNow executes every job once. All trend stages run before any AOI or
// entry stage; within a phase longer timeframes go first.
func (s *Scheduler) RunAllNow() {
	jobs := append([]config.JobConfig(nil), s.Config.Schedule.Jobs...)
	sort.SliceStable(jobs, func(i, j int) bool {
		return snapshot.LessTimeframe(jobs[j].Timeframe, jobs[i].Timeframe)
	})
	for _, job := range jobs {
		if job.Trend {
			s.RunJob(config.JobConfig{Timeframe: job.Timeframe, Trend: true})
		}
	}
	for _, job := range jobs {
		if job.AOI || job.Entry {
			s.RunJob(config.JobConfig{Timeframe: job.Timeframe, AOI: job.AOI, Entry: job.Entry})
		}
	}
}

// RunJob runs the analyses of one job across all symbols.
func (s *Scheduler) RunJob(job config.JobConfig) {
	start := time.Now()
	s.logger.Info().Str("timeframe", job.Timeframe).Msg("running job")

	g := new(errgroup.Group)
	g.SetLimit(s.Config.Schedule.MaxParallel)
	for _, symbol := range s.Config.Symbols {
		g.Go(func() error {
			if err := s.processSymbol(s.Ctx, job, symbol); err != nil {
				s.logger.Error().
					Err(err).
					Str("symbol", symbol).
					Str("timeframe", job.Timeframe).
					Msg("job failed for symbol")
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info().
		Str("timeframe", job.Timeframe).
		Dur("elapsed", time.Since(start)).
		Msg("job finished")
}

func (s *Scheduler) fetchCount(job config.JobConfig) int {
	params := s.Config.Swing[job.Timeframe]
	n := max(params.Lookback, s.Config.DataSource.CandleCount)
	if job.AOI {
		n = max(n, params.AOILookback)
	}
	if job.Entry {
		n = max(n, s.Config.Entry.CandleCount)
	}
	return n
}

func (s *Scheduler) processSymbol(ctx context.Context, job config.JobConfig, symbol string) error {
	snap, err := s.Collector.Collect(ctx, symbol, job.Timeframe, s.fetchCount(job))
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}
	if job.Trend {
		s.updateTrend(ctx, snap)
	}
	if job.AOI {
		s.updateZones(ctx, snap)
	}
	if job.Entry {
		s.scanEntries(ctx, snap)
	}
	return nil
}

func (s *Scheduler) updateTrend(ctx context.Context, snap *model.MarketSnapshot) {
	res := strategy.AnalyzeTrend(snap.Candles, s.Config.Swing[snap.Timeframe])
	rec := model.TrendRecord{
		Symbol:     snap.Symbol,
		Timeframe:  snap.Timeframe,
		Trend:      res.Trend,
		High:       res.HighPrice(),
		Low:        res.LowPrice(),
		AnalyzedAt: time.Now().UTC(),
	}
	s.Store.SetTrend(rec)
	if err := s.Recorder.RecordTrend(ctx, &rec); err != nil {
		s.logger.Error().Err(err).Str("symbol", snap.Symbol).Msg("record trend failed")
	}
	s.logger.Debug().
		Str("symbol", snap.Symbol).
		Str("timeframe", snap.Timeframe).
		Str("trend", string(res.Trend)).
		Int("swings", len(res.Swings)).
		Msg("trend updated")
}

// baseRange returns the structural range of the base timeframe, falling back
// to the range of the fetched bars.
func (s *Scheduler) baseRange(snap *model.MarketSnapshot, settings model.AOISettings) (high, low float64, err error) {
	if rec, ok := s.Store.Trend(snap.Symbol, settings.BaseTimeframe); ok && rec.High != nil && rec.Low != nil {
		return *rec.High, *rec.Low, nil
	}
	return calculator.CalculateRange(snap.Candles, s.Config.Swing[snap.Timeframe].AOILookback)
}

func (s *Scheduler) updateZones(ctx context.Context, snap *model.MarketSnapshot) {
	settings := s.Config.AOI[snap.Timeframe]
	log := s.logger.With().Str("symbol", snap.Symbol).Str("timeframe", snap.Timeframe).Logger()

	trend, aligned := strategy.Consensus(s.Store.TrendMap(snap.Symbol), settings.TrendAlignmentTimeframes)
	if !aligned {
		log.Info().Strs("alignment", settings.TrendAlignmentTimeframes).Msg("trends not aligned, clearing zones")
		s.storeZones(ctx, snap, model.TrendNeutral, nil)
		return
	}

	high, low, err := s.baseRange(snap, settings)
	if err != nil {
		log.Warn().Err(err).Msg("no base range, clearing zones")
		s.storeZones(ctx, snap, trend, nil)
		return
	}

	res := strategy.AnalyzeAOI(strategy.AOIRequest{
		Snapshot: *snap,
		Settings: settings,
		Params:   s.Config.Swing[snap.Timeframe],
		Trend:    trend,
		BaseHigh: high,
		BaseLow:  low,
	})
	if res.Skipped {
		log.Warn().Float64("atr_pips", snap.ATRPips).Msg("AOI context unavailable, clearing zones")
	}
	s.storeZones(ctx, snap, trend, res.Zones)

	log.Info().
		Str("trend", string(trend)).
		Int("swings", res.Swings).
		Int("zones", len(res.Zones)).
		Int("tradable", len(res.Tradable())).
		Msg("zones updated")
}

func (s *Scheduler) storeZones(ctx context.Context, snap *model.MarketSnapshot, trend model.TrendDirection, zones []model.AOIZone) {
	s.Store.SetZones(snapshot.ZoneSet{
		Symbol:    snap.Symbol,
		Timeframe: snap.Timeframe,
		Trend:     trend,
		Zones:     zones,
		UpdatedAt: time.Now().UTC(),
	})
	if err := s.Recorder.ReplaceAOIs(ctx, snap.Symbol, snap.Timeframe, zones); err != nil {
		s.logger.Error().Err(err).Str("symbol", snap.Symbol).Msg("store zones failed")
	}
}

func (s *Scheduler) scanEntries(ctx context.Context, snap *model.MarketSnapshot) {
	trends := s.Store.TrendMap(snap.Symbol)
	direction, aligned := strategy.Consensus(trends, s.Config.Entry.TrendAlignmentTimeframes)
	if !aligned || !direction.IsDirectional() {
		return
	}

	for _, zoneTF := range s.Config.Entry.ZoneTimeframes {
		set, ok := s.Store.Zones(snap.Symbol, zoneTF)
		if !ok {
			continue
		}
		for _, p := range strategy.ScanEntries(snap.Candles, set.Zones, direction) {
			brk := p.BreakCandle()
			sig := model.EntrySignal{
				ID:            uuid.NewString(),
				Symbol:        snap.Symbol,
				Timeframe:     snap.Timeframe,
				ZoneTimeframe: zoneTF,
				Direction:     direction,
				ZoneLower:     p.Zone.LowerBound,
				ZoneUpper:     p.Zone.UpperBound,
				SignalTime:    brk.Time,
				EntryPrice:    brk.Close,
				TrendSnapshot: trends,
				Candles:       p.Candles,
			}
			if !s.Store.AddSignal(sig) {
				continue
			}
			s.logger.Info().
				Str("symbol", sig.Symbol).
				Str("direction", string(sig.Direction)).
				Str("zone_timeframe", zoneTF).
				Float64("entry_price", sig.EntryPrice).
				Msg("entry signal")
			if err := s.Recorder.RecordSignal(ctx, &sig); err != nil {
				s.logger.Error().Err(err).Str("symbol", sig.Symbol).Msg("record signal failed")
			}
			s.trySend(notifier.FormatEntrySignal(sig))
		}
	}
}

const helpText = "Available commands:\n• /trends\n• /aoi SYMBOL\n• /signals\n• /run"

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch strings.ToLower(fields[0]) {
	case "/trends":
		return notifier.FormatTrends(s.Store.Trends())
	case "/aoi":
		if len(fields) < 2 {
			return "Usage: /aoi SYMBOL"
		}
		symbol := strings.ToUpper(fields[1])
		return notifier.FormatZones(symbol, s.Store.ZonesFor(symbol))
	case "/signals":
		return notifier.FormatSignals(s.Store.Signals(10))
	case "/run":
		if !s.TriggerRunAll() {
			return "A run is already in progress."
		}
		return "Running all jobs now."
	default:
		return helpText
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.logger.Error().Err(err).Msg("send notification failed")
	}
}
