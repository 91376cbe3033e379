package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kinneerd/Cordkeeper/internal/domain"
	"github.com/kinneerd/Cordkeeper/internal/repository/sqlite"
)

func TestAccountRepository_Create(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewAccountRepository(db)

	account := &domain.Account{
		DisplayName:  "Woodshed",
		PasswordHash: "hashedpw",
	}
	if err := repo.Create(context.Background(), account); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if account.ID != 1 {
		t.Fatalf("expected account id 1, got %d", account.ID)
	}
	if account.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestAccountRepository_Create_AlreadyExists(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewAccountRepository(db)
	ctx := context.Background()

	first := &domain.Account{DisplayName: "First", PasswordHash: "hash1"}
	if err := repo.Create(ctx, first); err != nil {
		t.Fatalf("Create first: %v", err)
	}

	second := &domain.Account{DisplayName: "Second", PasswordHash: "hash2"}
	err := repo.Create(ctx, second)
	if !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}

	// The original row is untouched.
	found, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found.DisplayName != "First" {
		t.Fatalf("expected display name First, got %q", found.DisplayName)
	}
}

func TestAccountRepository_Get(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewAccountRepository(db)
	ctx := context.Background()

	account := &domain.Account{DisplayName: "Woodshed", PasswordHash: "hashedpw"}
	if err := repo.Create(ctx, account); err != nil {
		t.Fatalf("Create: %v", err)
	}

	found, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found.DisplayName != "Woodshed" || found.PasswordHash != "hashedpw" {
		t.Fatalf("unexpected account: %+v", found)
	}
}

func TestAccountRepository_Get_NotFound(t *testing.T) {
	db := newTestDB(t)
	repo := sqlite.NewAccountRepository(db)

	_, err := repo.Get(context.Background())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound before setup, got %v", err)
	}
}
