package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kinneerd/Cordkeeper/internal/domain"
)

// AccountRepository implements domain.AccountRepository using SQLite.
// The account table holds at most one row (id = 1).
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a new SQLite-backed AccountRepository.
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db.SqlDB}
}

// Create inserts the account row. The insert only lands when the table
// is empty; ErrAccountExists otherwise.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO account (id, display_name, password_hash, created_at, updated_at)
		 SELECT 1, ?, ?, ?, ? WHERE NOT EXISTS (SELECT 1 FROM account)`,
		account.DisplayName, account.PasswordHash, now, now)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrAccountExists
	}

	account.ID = 1
	account.CreatedAt = now
	account.UpdatedAt = now
	return nil
}

func (r *AccountRepository) Get(ctx context.Context) (*domain.Account, error) {
	a := &domain.Account{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, display_name, password_hash, created_at, updated_at
		 FROM account WHERE id = 1`,
	).Scan(&a.ID, &a.DisplayName, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}
