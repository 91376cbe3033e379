package domain

import (
	"context"
	"time"
)

// Defaults applied when the settings row is first created.
const (
	DefaultUnitsPerCord     = 400.0
	DefaultSmallRatio       = 0.25
	DefaultMediumRatio      = 1.0
	DefaultLargeRatio       = 2.0
	DefaultSeasonStartMonth = 9
	DefaultSeasonStartDay   = 1
)

// Settings holds the season configuration. Exactly one row exists
// (id = 1); it is created with defaults on first access and only ever
// updated in place.
type Settings struct {
	ID               int64
	UnitsPerCord     float64
	SmallRatio       float64
	MediumRatio      float64
	LargeRatio       float64
	SeasonGoal       *float64 // target cords for the season; nil disables progress
	SeasonStartMonth int      // 1..12
	SeasonStartDay   int      // 1..31, clamped to the target month at use
	OnboardingDone   bool
	UpdatedAt        time.Time
}

// DefaultSettings returns a Settings value carrying the documented
// defaults. SeasonGoal starts unset.
func DefaultSettings() *Settings {
	return &Settings{
		ID:               1,
		UnitsPerCord:     DefaultUnitsPerCord,
		SmallRatio:       DefaultSmallRatio,
		MediumRatio:      DefaultMediumRatio,
		LargeRatio:       DefaultLargeRatio,
		SeasonStartMonth: DefaultSeasonStartMonth,
		SeasonStartDay:   DefaultSeasonStartDay,
	}
}

// RatioFor returns the unit weight for a log size. An unrecognized size
// falls back to the medium ratio, matching ParseLogSize's fail-closed
// policy.
func (s *Settings) RatioFor(size LogSize) float64 {
	switch size {
	case SizeSmall:
		return s.SmallRatio
	case SizeLarge:
		return s.LargeRatio
	default:
		return s.MediumRatio
	}
}

// SettingsRepository defines persistence operations for the settings
// singleton.
type SettingsRepository interface {
	// GetOrCreate returns the settings row, inserting the defaults first
	// if it does not exist yet. Concurrent callers observe exactly one
	// persisted row.
	GetOrCreate(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, s *Settings) error
}
