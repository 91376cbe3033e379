package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kinneerd/Cordkeeper/internal/domain"
	"github.com/kinneerd/Cordkeeper/internal/repository/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection and hands out the repositories backed
// by it.
type DB struct {
	SqlDB *sql.DB
}

// New opens (or creates) the SQLite database at the given path and
// configures it for use. It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Enable foreign key enforcement.
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// Set a reasonable connection pool for SQLite.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate brings the schema up to date.
func (d *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, d.SqlDB)
}

// Close closes the underlying connection.
func (d *DB) Close() error {
	return d.SqlDB.Close()
}

// Fires returns the fire repository backed by this database.
func (d *DB) Fires() domain.FireRepository {
	return NewFireRepository(d)
}

// Settings returns the settings repository backed by this database.
func (d *DB) Settings() domain.SettingsRepository {
	return NewSettingsRepository(d)
}

// Accounts returns the account repository backed by this database.
func (d *DB) Accounts() domain.AccountRepository {
	return NewAccountRepository(d)
}
