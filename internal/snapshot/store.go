// Package snapshot keeps the latest analysis state in memory for the jobs,
// the read API and the Telegram commands.
package snapshot

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"ForexSentinel/internal/model"
)

// DefaultSignalCapacity bounds the recent signal ring.
const DefaultSignalCapacity = 200

var timeframeRank = map[string]int{"1H": 1, "4H": 2, "1D": 3, "1W": 4}

// LessTimeframe orders timeframe labels from shortest to longest.
func LessTimeframe(a, b string) bool {
	ra, oka := timeframeRank[a]
	rb, okb := timeframeRank[b]
	if oka && okb {
		return ra < rb
	}
	if oka != okb {
		return oka
	}
	return a < b
}

// ZoneSet is the latest AOI result of one symbol/timeframe.
type ZoneSet struct {
	Symbol    string               `json:"symbol"`
	Timeframe string               `json:"timeframe"`
	Trend     model.TrendDirection `json:"trend"`
	Zones     []model.AOIZone      `json:"zones"`
	UpdatedAt time.Time            `json:"updated_at"`
}

type key struct {
	symbol, timeframe string
}

// Store is a concurrency-safe view of the latest trends, zones and signals.
type Store struct {
	mu       sync.RWMutex
	trends   map[key]model.TrendRecord
	zones    map[key]ZoneSet
	signals  []model.EntrySignal // oldest first
	seen     map[string]struct{}
	capacity int
}

// NewStore creates an empty store keeping at most capacity recent signals.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultSignalCapacity
	}
	return &Store{
		trends:   make(map[key]model.TrendRecord),
		zones:    make(map[key]ZoneSet),
		seen:     make(map[string]struct{}),
		capacity: capacity,
	}
}

func (s *Store) SetTrend(rec model.TrendRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trends[key{rec.Symbol, rec.Timeframe}] = rec
}

func (s *Store) Trend(symbol, timeframe string) (model.TrendRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.trends[key{symbol, timeframe}]
	return rec, ok
}

// TrendMap returns the known trend of every timeframe of symbol.
func (s *Store) TrendMap(symbol string) map[string]model.TrendDirection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]model.TrendDirection)
	for k, rec := range s.trends {
		if k.symbol == symbol {
			out[k.timeframe] = rec.Trend
		}
	}
	return out
}

// Trends returns all trend records ordered by symbol and timeframe.
func (s *Store) Trends() []model.TrendRecord {
	s.mu.RLock()
	out := make([]model.TrendRecord, 0, len(s.trends))
	for _, rec := range s.trends {
		out = append(out, rec)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Symbol != out[j].Symbol {
			return out[i].Symbol < out[j].Symbol
		}
		return LessTimeframe(out[i].Timeframe, out[j].Timeframe)
	})
	return out
}

// TrendsFor returns the trend records of one symbol ordered by timeframe.
func (s *Store) TrendsFor(symbol string) []model.TrendRecord {
	var out []model.TrendRecord
	for _, rec := range s.Trends() {
		if rec.Symbol == symbol {
			out = append(out, rec)
		}
	}
	return out
}

// SetZones replaces the zones of symbol/timeframe. The slice is copied.
func (s *Store) SetZones(set ZoneSet) {
	set.Zones = append([]model.AOIZone(nil), set.Zones...)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zones[key{set.Symbol, set.Timeframe}] = set
}

func (s *Store) Zones(symbol, timeframe string) (ZoneSet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.zones[key{symbol, timeframe}]
	return set, ok
}

// ZonesFor returns the zone sets of one symbol ordered by timeframe.
func (s *Store) ZonesFor(symbol string) []ZoneSet {
	s.mu.RLock()
	var out []ZoneSet
	for k, set := range s.zones {
		if k.symbol == symbol {
			out = append(out, set)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return LessTimeframe(out[i].Timeframe, out[j].Timeframe) })
	return out
}

// SignalKey identifies a signal by symbol, zone and break candle time.
func SignalKey(sig model.EntrySignal) string {
	return fmt.Sprintf("%s|%.5f|%.5f|%d", sig.Symbol, sig.ZoneLower, sig.ZoneUpper, sig.SignalTime.Unix())
}

// AddSignal appends sig unless an identical signal is already held.
// It reports whether the signal was new.
func (s *Store) AddSignal(sig model.EntrySignal) bool {
	k := SignalKey(sig)
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.seen[k]; dup {
		return false
	}
	s.seen[k] = struct{}{}
	s.signals = append(s.signals, sig)
	if len(s.signals) > s.capacity {
		evicted := s.signals[0]
		delete(s.seen, SignalKey(evicted))
		s.signals = append([]model.EntrySignal(nil), s.signals[1:]...)
	}
	return true
}

// Signals returns up to limit recent signals, newest first. A non-positive
// limit returns all of them.
func (s *Store) Signals(limit int) []model.EntrySignal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := len(s.signals)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]model.EntrySignal, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, s.signals[i])
	}
	return out
}
