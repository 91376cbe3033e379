package sqlite_test

import (
	"context"
	"sync"
	"testing"

	"github.com/kinneerd/Cordkeeper/internal/domain"
	"github.com/kinneerd/Cordkeeper/internal/repository/sqlite"
)

func TestSettingsRepository_GetOrCreate_Defaults(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewSettingsRepository(db)

	s, err := repo.GetOrCreate(context.Background())
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	if s.ID != 1 {
		t.Fatalf("expected singleton id 1, got %d", s.ID)
	}
	if s.UnitsPerCord != domain.DefaultUnitsPerCord {
		t.Fatalf("expected units per cord %v, got %v", domain.DefaultUnitsPerCord, s.UnitsPerCord)
	}
	if s.SmallRatio != domain.DefaultSmallRatio || s.MediumRatio != domain.DefaultMediumRatio || s.LargeRatio != domain.DefaultLargeRatio {
		t.Fatalf("unexpected default ratios: %v %v %v", s.SmallRatio, s.MediumRatio, s.LargeRatio)
	}
	if s.SeasonGoal != nil {
		t.Fatalf("expected no season goal, got %v", *s.SeasonGoal)
	}
	if s.SeasonStartMonth != domain.DefaultSeasonStartMonth || s.SeasonStartDay != domain.DefaultSeasonStartDay {
		t.Fatalf("unexpected default season start: %d/%d", s.SeasonStartMonth, s.SeasonStartDay)
	}
	if s.OnboardingDone {
		t.Fatal("expected onboarding not done on a fresh database")
	}
}

func TestSettingsRepository_GetOrCreate_Concurrent(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewSettingsRepository(db)
	ctx := context.Background()

	const callers = 8
	errs := make(chan error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.GetOrCreate(ctx)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent GetOrCreate: %v", err)
		}
	}

	var count int
	if err := db.SqlDB.QueryRow("SELECT COUNT(*) FROM settings").Scan(&count); err != nil {
		t.Fatalf("count settings rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one settings row, got %d", count)
	}
}

func TestSettingsRepository_GetOrCreate_DoesNotResetExisting(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewSettingsRepository(db)
	ctx := context.Background()

	s, err := repo.GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	goal := 3.5
	s.UnitsPerCord = 512
	s.SeasonGoal = &goal
	s.OnboardingDone = true
	if err := repo.Update(ctx, s); err != nil {
		t.Fatalf("Update: %v", err)
	}

	again, err := repo.GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("second GetOrCreate: %v", err)
	}
	if again.UnitsPerCord != 512 {
		t.Fatalf("expected units per cord 512, got %v", again.UnitsPerCord)
	}
	if again.SeasonGoal == nil || *again.SeasonGoal != 3.5 {
		t.Fatalf("expected season goal 3.5, got %v", again.SeasonGoal)
	}
	if !again.OnboardingDone {
		t.Fatal("expected onboarding flag to survive")
	}
}

func TestSettingsRepository_Update_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewSettingsRepository(db)
	ctx := context.Background()

	s, err := repo.GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}

	goal := 2.0
	s.UnitsPerCord = 300
	s.SmallRatio = 0.5
	s.MediumRatio = 1.5
	s.LargeRatio = 3
	s.SeasonGoal = &goal
	s.SeasonStartMonth = 10
	s.SeasonStartDay = 15
	if err := repo.Update(ctx, s); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if s.UpdatedAt.IsZero() {
		t.Fatal("expected UpdatedAt to be set")
	}

	found, err := repo.GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if found.UnitsPerCord != 300 || found.SmallRatio != 0.5 || found.MediumRatio != 1.5 || found.LargeRatio != 3 {
		t.Fatalf("unexpected values after update: %+v", found)
	}
	if found.SeasonGoal == nil || *found.SeasonGoal != 2.0 {
		t.Fatalf("expected season goal 2.0, got %v", found.SeasonGoal)
	}
	if found.SeasonStartMonth != 10 || found.SeasonStartDay != 15 {
		t.Fatalf("expected season start 10/15, got %d/%d", found.SeasonStartMonth, found.SeasonStartDay)
	}

	// Clearing the goal persists as NULL.
	found.SeasonGoal = nil
	if err := repo.Update(ctx, found); err != nil {
		t.Fatalf("Update clearing goal: %v", err)
	}
	cleared, err := repo.GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if cleared.SeasonGoal != nil {
		t.Fatalf("expected cleared season goal, got %v", *cleared.SeasonGoal)
	}
}
