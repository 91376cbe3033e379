package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/kinneerd/Cordkeeper/internal/domain"
)

// SettingsService owns the settings singleton: it loads the row once,
// serves the same in-memory instance to every reader for the rest of the
// process lifetime, and is the only writer.
type SettingsService struct {
	repo     domain.SettingsRepository
	onChange func()

	mu      sync.RWMutex
	current *domain.Settings
}

// NewSettingsService creates a new SettingsService. Call Load before
// serving requests.
func NewSettingsService(repo domain.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// OnChange registers a callback invoked after every persisted change.
func (s *SettingsService) OnChange(fn func()) {
	s.onChange = fn
}

// Load fetches the settings row, creating it with defaults on first run.
// Load is idempotent: once an in-memory instance exists it is never
// reconstructed from storage, so concurrent entry during startup still
// yields a single instance backed by a single row.
func (s *SettingsService) Load(ctx context.Context) (*domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return s.current, nil
	}

	settings, err := s.repo.GetOrCreate(ctx)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	s.current = settings
	return settings, nil
}

// Current returns the in-memory settings instance. Load must have run
// during startup; every consumer receives the same instance until the
// next Update swaps it.
func (s *SettingsService) Current() *domain.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SettingsUpdate carries the editable season configuration fields.
type SettingsUpdate struct {
	UnitsPerCord     float64
	SmallRatio       float64
	MediumRatio      float64
	LargeRatio       float64
	SeasonGoal       *float64
	SeasonStartMonth int
	SeasonStartDay   int
}

// Update validates and persists new season configuration, then swaps the
// in-memory instance. Values the calculation core would have to clamp or
// zero-substitute are rejected here so the stored configuration stays
// meaningful; the core's defensive contracts remain in force regardless.
func (s *SettingsService) Update(ctx context.Context, u SettingsUpdate) (*domain.Settings, error) {
	if u.UnitsPerCord <= 0 {
		return nil, fmt.Errorf("%w: units per cord must be positive", domain.ErrInvalidInput)
	}
	if u.SmallRatio <= 0 || u.MediumRatio <= 0 || u.LargeRatio <= 0 {
		return nil, fmt.Errorf("%w: size ratios must be positive", domain.ErrInvalidInput)
	}
	if u.SeasonGoal != nil && *u.SeasonGoal <= 0 {
		return nil, fmt.Errorf("%w: season goal must be positive", domain.ErrInvalidInput)
	}
	if u.SeasonStartMonth < 1 || u.SeasonStartMonth > 12 {
		return nil, fmt.Errorf("%w: season start month must be 1-12", domain.ErrInvalidInput)
	}
	if u.SeasonStartDay < 1 || u.SeasonStartDay > 31 {
		return nil, fmt.Errorf("%w: season start day must be 1-31", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, fmt.Errorf("settings not loaded")
	}

	next := *s.current
	next.UnitsPerCord = u.UnitsPerCord
	next.SmallRatio = u.SmallRatio
	next.MediumRatio = u.MediumRatio
	next.LargeRatio = u.LargeRatio
	next.SeasonGoal = u.SeasonGoal
	next.SeasonStartMonth = u.SeasonStartMonth
	next.SeasonStartDay = u.SeasonStartDay

	if err := s.repo.Update(ctx, &next); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	s.current = &next

	if s.onChange != nil {
		s.onChange()
	}
	return s.current, nil
}

// MarkOnboardingDone records completion of the first-run flow.
func (s *SettingsService) MarkOnboardingDone(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return fmt.Errorf("settings not loaded")
	}
	if s.current.OnboardingDone {
		return nil
	}

	next := *s.current
	next.OnboardingDone = true
	if err := s.repo.Update(ctx, &next); err != nil {
		return fmt.Errorf("mark onboarding done: %w", err)
	}
	s.current = &next
	return nil
}
