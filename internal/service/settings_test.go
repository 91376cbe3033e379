package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/kinneerd/Cordkeeper/internal/domain"
	"github.com/kinneerd/Cordkeeper/internal/repository/sqlite"
	"github.com/kinneerd/Cordkeeper/internal/service"
)

func newTestSettingsService(t *testing.T) (*service.SettingsService, *sqlite.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	settings := service.NewSettingsService(db.Settings())
	if _, err := settings.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return settings, db
}

// validUpdate returns an update carrying the current values; tests tweak
// single fields from here.
func validUpdate(s *service.SettingsService) service.SettingsUpdate {
	cur := s.Current()
	return service.SettingsUpdate{
		UnitsPerCord:     cur.UnitsPerCord,
		SmallRatio:       cur.SmallRatio,
		MediumRatio:      cur.MediumRatio,
		LargeRatio:       cur.LargeRatio,
		SeasonGoal:       cur.SeasonGoal,
		SeasonStartMonth: cur.SeasonStartMonth,
		SeasonStartDay:   cur.SeasonStartDay,
	}
}

func TestSettingsService_LoadCreatesDefaults(t *testing.T) {
	settings, _ := newTestSettingsService(t)

	cur := settings.Current()
	if cur == nil {
		t.Fatal("expected settings after Load")
	}
	want := domain.DefaultSettings()
	if cur.UnitsPerCord != want.UnitsPerCord {
		t.Fatalf("expected %v units per cord, got %v", want.UnitsPerCord, cur.UnitsPerCord)
	}
	if cur.SmallRatio != want.SmallRatio || cur.MediumRatio != want.MediumRatio || cur.LargeRatio != want.LargeRatio {
		t.Fatalf("expected default ratios, got %v/%v/%v", cur.SmallRatio, cur.MediumRatio, cur.LargeRatio)
	}
	if cur.SeasonStartMonth != want.SeasonStartMonth || cur.SeasonStartDay != want.SeasonStartDay {
		t.Fatalf("expected default season start, got %d/%d", cur.SeasonStartMonth, cur.SeasonStartDay)
	}
	if cur.SeasonGoal != nil {
		t.Fatalf("expected no goal by default, got %v", *cur.SeasonGoal)
	}
	if cur.OnboardingDone {
		t.Fatal("expected onboarding not done by default")
	}
}

func TestSettingsService_Update_Validation(t *testing.T) {
	settings, _ := newTestSettingsService(t)
	ctx := context.Background()
	zero := 0.0

	tests := []struct {
		name   string
		mutate func(*service.SettingsUpdate)
	}{
		{"zero units per cord", func(u *service.SettingsUpdate) { u.UnitsPerCord = 0 }},
		{"negative units per cord", func(u *service.SettingsUpdate) { u.UnitsPerCord = -400 }},
		{"zero small ratio", func(u *service.SettingsUpdate) { u.SmallRatio = 0 }},
		{"negative medium ratio", func(u *service.SettingsUpdate) { u.MediumRatio = -1 }},
		{"zero large ratio", func(u *service.SettingsUpdate) { u.LargeRatio = 0 }},
		{"zero goal", func(u *service.SettingsUpdate) { u.SeasonGoal = &zero }},
		{"month too low", func(u *service.SettingsUpdate) { u.SeasonStartMonth = 0 }},
		{"month too high", func(u *service.SettingsUpdate) { u.SeasonStartMonth = 13 }},
		{"day too low", func(u *service.SettingsUpdate) { u.SeasonStartDay = 0 }},
		{"day too high", func(u *service.SettingsUpdate) { u.SeasonStartDay = 32 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := validUpdate(settings)
			tc.mutate(&u)
			if _, err := settings.Update(ctx, u); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSettingsService_Update_RoundTrip(t *testing.T) {
	settings, db := newTestSettingsService(t)
	ctx := context.Background()

	goal := 3.5
	u := service.SettingsUpdate{
		UnitsPerCord:     512,
		SmallRatio:       0.5,
		MediumRatio:      1.5,
		LargeRatio:       2.5,
		SeasonGoal:       &goal,
		SeasonStartMonth: 10,
		SeasonStartDay:   15,
	}
	updated, err := settings.Update(ctx, u)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.UnitsPerCord != 512 || updated.SeasonStartMonth != 10 || updated.SeasonStartDay != 15 {
		t.Fatalf("expected update applied, got %+v", updated)
	}
	if updated.SeasonGoal == nil || *updated.SeasonGoal != 3.5 {
		t.Fatalf("expected goal 3.5, got %v", updated.SeasonGoal)
	}
	if settings.Current() != updated {
		t.Fatal("expected Current to serve the updated instance")
	}

	// A fresh service over the same database sees the persisted values.
	reloaded := service.NewSettingsService(db.Settings())
	cur, err := reloaded.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cur.UnitsPerCord != 512 || cur.SmallRatio != 0.5 || cur.SeasonStartMonth != 10 {
		t.Fatalf("expected persisted values, got %+v", cur)
	}
	if cur.SeasonGoal == nil || *cur.SeasonGoal != 3.5 {
		t.Fatalf("expected persisted goal 3.5, got %v", cur.SeasonGoal)
	}
}

func TestSettingsService_Update_ClearsGoal(t *testing.T) {
	settings, db := newTestSettingsService(t)
	ctx := context.Background()

	goal := 2.0
	u := validUpdate(settings)
	u.SeasonGoal = &goal
	if _, err := settings.Update(ctx, u); err != nil {
		t.Fatalf("set goal: %v", err)
	}

	u = validUpdate(settings)
	u.SeasonGoal = nil
	if _, err := settings.Update(ctx, u); err != nil {
		t.Fatalf("clear goal: %v", err)
	}
	if settings.Current().SeasonGoal != nil {
		t.Fatalf("expected goal cleared, got %v", *settings.Current().SeasonGoal)
	}

	reloaded := service.NewSettingsService(db.Settings())
	cur, err := reloaded.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cur.SeasonGoal != nil {
		t.Fatalf("expected cleared goal persisted, got %v", *cur.SeasonGoal)
	}
}

func TestSettingsService_MarkOnboardingDone(t *testing.T) {
	settings, db := newTestSettingsService(t)
	ctx := context.Background()

	if settings.Current().OnboardingDone {
		t.Fatal("expected onboarding not done initially")
	}

	if err := settings.MarkOnboardingDone(ctx); err != nil {
		t.Fatalf("MarkOnboardingDone: %v", err)
	}
	if !settings.Current().OnboardingDone {
		t.Fatal("expected onboarding done")
	}

	// Marking twice is a no-op.
	if err := settings.MarkOnboardingDone(ctx); err != nil {
		t.Fatalf("second MarkOnboardingDone: %v", err)
	}

	reloaded := service.NewSettingsService(db.Settings())
	cur, err := reloaded.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !cur.OnboardingDone {
		t.Fatal("expected onboarding done persisted")
	}
}

func TestSettingsService_OnChangeFiresOnUpdate(t *testing.T) {
	settings, _ := newTestSettingsService(t)
	ctx := context.Background()

	var notified int
	settings.OnChange(func() { notified++ })

	u := validUpdate(settings)
	u.UnitsPerCord = 450
	if _, err := settings.Update(ctx, u); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if notified != 1 {
		t.Fatalf("expected 1 notification, got %d", notified)
	}

	// Onboarding completion does not touch any statistic input.
	if err := settings.MarkOnboardingDone(ctx); err != nil {
		t.Fatalf("MarkOnboardingDone: %v", err)
	}
	if notified != 1 {
		t.Fatalf("expected no notification from onboarding, got %d", notified)
	}
}
