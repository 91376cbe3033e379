package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kinneerd/Cordkeeper/internal/domain"
)

// SettingsRepository implements domain.SettingsRepository using SQLite.
// The settings table holds exactly one row (id = 1).
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SQLite-backed SettingsRepository.
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db.SqlDB}
}

// GetOrCreate returns the settings row, inserting the defaults first if
// it does not exist yet. The insert is a no-op when the row is already
// there, so concurrent callers all land on the same row.
func (r *SettingsRepository) GetOrCreate(ctx context.Context) (*domain.Settings, error) {
	def := domain.DefaultSettings()
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings
		 (id, units_per_cord, small_ratio, medium_ratio, large_ratio,
		  season_goal, season_start_month, season_start_day, onboarding_done, updated_at)
		 VALUES (1, ?, ?, ?, ?, NULL, ?, ?, 0, ?)`,
		def.UnitsPerCord, def.SmallRatio, def.MediumRatio, def.LargeRatio,
		def.SeasonStartMonth, def.SeasonStartDay, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("insert default settings: %w", err)
	}

	s := &domain.Settings{}
	err = r.db.QueryRowContext(ctx,
		`SELECT id, units_per_cord, small_ratio, medium_ratio, large_ratio,
		 season_goal, season_start_month, season_start_day, onboarding_done, updated_at
		 FROM settings WHERE id = 1`,
	).Scan(&s.ID, &s.UnitsPerCord, &s.SmallRatio, &s.MediumRatio, &s.LargeRatio,
		&s.SeasonGoal, &s.SeasonStartMonth, &s.SeasonStartDay, &s.OnboardingDone, &s.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return s, nil
}

func (r *SettingsRepository) Update(ctx context.Context, s *domain.Settings) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE settings SET
		 units_per_cord = ?, small_ratio = ?, medium_ratio = ?, large_ratio = ?,
		 season_goal = ?, season_start_month = ?, season_start_day = ?,
		 onboarding_done = ?, updated_at = ?
		 WHERE id = 1`,
		s.UnitsPerCord, s.SmallRatio, s.MediumRatio, s.LargeRatio,
		s.SeasonGoal, s.SeasonStartMonth, s.SeasonStartDay,
		s.OnboardingDone, now)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	s.UpdatedAt = now
	return nil
}
