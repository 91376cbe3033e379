package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kinneerd/Cordkeeper/internal/domain"
)

// Totals is the result of aggregating log entries: per-size piece counts
// and the combined weighted unit total.
type Totals struct {
	Small         int
	Medium        int
	Large         int
	WeightedUnits float64
}

// Pieces returns the total piece count across all sizes.
func (t Totals) Pieces() int {
	return t.Small + t.Medium + t.Large
}

// Add combines two aggregation results.
func (t Totals) Add(other Totals) Totals {
	return Totals{
		Small:         t.Small + other.Small,
		Medium:        t.Medium + other.Medium,
		Large:         t.Large + other.Large,
		WeightedUnits: t.WeightedUnits + other.WeightedUnits,
	}
}

// Aggregate reduces log entries to per-size counts and weighted units in
// a single linear pass. Empty input yields the zero Totals. The function
// is pure: running it twice over the same entries gives identical totals.
func Aggregate(logs []domain.LogEntry, settings *domain.Settings) Totals {
	var t Totals
	for _, l := range logs {
		switch l.Size {
		case domain.SizeSmall:
			t.Small += l.Quantity
		case domain.SizeLarge:
			t.Large += l.Quantity
		default:
			t.Medium += l.Quantity
		}
		t.WeightedUnits += float64(l.Quantity) * settings.RatioFor(l.Size)
	}
	return t
}

// ToCords converts a weighted unit total into cords. A zero or negative
// divisor yields 0 rather than NaN or Inf; the divisor is user-edited
// configuration, so bad values must not fault the read path.
func ToCords(weightedUnits, unitsPerCord float64) float64 {
	if unitsPerCord <= 0 || weightedUnits <= 0 {
		return 0
	}
	return weightedUnits / unitsPerCord
}

// ProgressFraction returns cords/goal clamped to 1.0, or nil when no
// positive goal is configured. "No goal" and "zero progress" are distinct
// states: nil suppresses the progress display entirely.
func ProgressFraction(cords float64, goal *float64) *float64 {
	if goal == nil || *goal <= 0 {
		return nil
	}
	f := cords / *goal
	if f > 1 {
		f = 1
	}
	return &f
}

// SeasonSnapshot is one consistent view of the current season's
// statistics.
type SeasonSnapshot struct {
	SeasonStart   time.Time
	FireCount     int
	ActiveFire    *domain.Fire
	TotalLogs     int // total pieces burned across all sizes
	SmallCount    int
	MediumCount   int
	LargeCount    int
	WeightedUnits float64
	CordsBurned   float64
	Progress      *float64 // nil when no goal is configured
}

// snapshotKey captures every input the snapshot depends on. version
// stands in for the full record set: fire and settings mutations bump it
// through Invalidate. The remaining fields guard against the season
// window moving (year rollover, anchor edits) and against ratio or goal
// changes reaching the settings instance without a notification.
type snapshotKey struct {
	version      uint64
	seasonStart  time.Time
	unitsPerCord float64
	smallRatio   float64
	mediumRatio  float64
	largeRatio   float64
	goal         float64
	hasGoal      bool
}

// StatsService computes and caches the season statistics snapshot.
type StatsService struct {
	fires    domain.FireRepository
	settings *SettingsService
	now      func() time.Time

	mu     sync.Mutex
	ver    uint64
	key    snapshotKey
	cached *SeasonSnapshot
}

// NewStatsService creates a StatsService. Wire its Invalidate method to
// the fire and settings services so every mutation recomputes the next
// snapshot.
func NewStatsService(fires domain.FireRepository, settings *SettingsService) *StatsService {
	return &StatsService{
		fires:    fires,
		settings: settings,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Invalidate marks the cached snapshot stale. It must be called after
// every fire, log, or settings mutation; reusing a snapshot across such a
// change is invalid.
func (s *StatsService) Invalidate() {
	s.mu.Lock()
	s.ver++
	s.cached = nil
	s.mu.Unlock()
}

// Snapshot returns the statistics snapshot for the season active right
// now, recomputing it only when an input changed since the last call.
func (s *StatsService) Snapshot(ctx context.Context) (*SeasonSnapshot, error) {
	return s.snapshotAt(ctx, s.now())
}

func (s *StatsService) snapshotAt(ctx context.Context, now time.Time) (*SeasonSnapshot, error) {
	cfg := s.settings.Current()
	start := SeasonStart(cfg.SeasonStartMonth, cfg.SeasonStartDay, now)

	s.mu.Lock()
	key := snapshotKey{
		version:      s.ver,
		seasonStart:  start,
		unitsPerCord: cfg.UnitsPerCord,
		smallRatio:   cfg.SmallRatio,
		mediumRatio:  cfg.MediumRatio,
		largeRatio:   cfg.LargeRatio,
	}
	if cfg.SeasonGoal != nil {
		key.goal = *cfg.SeasonGoal
		key.hasGoal = true
	}
	if s.cached != nil && s.key == key {
		snap := s.cached
		s.mu.Unlock()
		return snap, nil
	}
	s.mu.Unlock()

	fires, err := s.fires.ListStartedSince(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("list season fires: %w", err)
	}

	snap := &SeasonSnapshot{
		SeasonStart: start,
		FireCount:   len(fires),
	}

	var agg Totals
	for i := range fires {
		fire := &fires[i]
		if fire.Active() {
			if snap.ActiveFire != nil {
				// Two open fires is an upstream invariant break; report
				// it instead of guessing which one is real.
				return nil, domain.ErrMultipleActiveFires
			}
			snap.ActiveFire = fire
		}
		agg = agg.Add(Aggregate(fire.Logs, cfg))
	}

	snap.SmallCount = agg.Small
	snap.MediumCount = agg.Medium
	snap.LargeCount = agg.Large
	snap.TotalLogs = agg.Pieces()
	snap.WeightedUnits = agg.WeightedUnits
	snap.CordsBurned = ToCords(agg.WeightedUnits, cfg.UnitsPerCord)
	snap.Progress = ProgressFraction(snap.CordsBurned, cfg.SeasonGoal)

	s.mu.Lock()
	s.key = key
	s.cached = snap
	s.mu.Unlock()

	return snap, nil
}
