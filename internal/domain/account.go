package domain

import (
	"context"
	"time"
)

// Account is the single owner of this Cordkeeper instance, created once
// during first-run setup.
type Account struct {
	ID           int64
	DisplayName  string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AccountRepository defines persistence operations for the account
// singleton.
type AccountRepository interface {
	// Create inserts the account row. ErrAccountExists if one is already
	// present.
	Create(ctx context.Context, account *Account) error
	// Get returns the account, or ErrNotFound before setup has run.
	Get(ctx context.Context) (*Account, error)
}
