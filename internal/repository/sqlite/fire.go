package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kinneerd/Cordkeeper/internal/domain"
)

// FireRepository implements domain.FireRepository using SQLite.
type FireRepository struct {
	db *sql.DB
}

// NewFireRepository creates a new SQLite-backed FireRepository.
func NewFireRepository(db *DB) *FireRepository {
	return &FireRepository{db: db.SqlDB}
}

// Create inserts a fire. An open fire (EndedAt nil) only lands when no
// other open row exists, so the single-burning-fire rule holds at the
// storage layer too; ErrFireAlreadyActive otherwise.
func (r *FireRepository) Create(ctx context.Context, fire *domain.Fire) error {
	if fire.StartedAt.IsZero() {
		fire.StartedAt = time.Now().UTC()
	}

	var (
		result sql.Result
		err    error
	)
	if fire.EndedAt != nil {
		result, err = r.db.ExecContext(ctx,
			"INSERT INTO fires (started_at, ended_at) VALUES (?, ?)",
			fire.StartedAt, fire.EndedAt)
	} else {
		result, err = r.db.ExecContext(ctx,
			`INSERT INTO fires (started_at)
			 SELECT ? WHERE NOT EXISTS (SELECT 1 FROM fires WHERE ended_at IS NULL)`,
			fire.StartedAt)
	}
	if err != nil {
		return fmt.Errorf("insert fire: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrFireAlreadyActive
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get fire id: %w", err)
	}
	fire.ID = id
	return nil
}

func (r *FireRepository) GetByID(ctx context.Context, id int64) (*domain.Fire, error) {
	f := &domain.Fire{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, started_at, ended_at FROM fires WHERE id = ?", id,
	).Scan(&f.ID, &f.StartedAt, &f.EndedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get fire: %w", err)
	}

	logs, err := r.loadLogs(ctx, id)
	if err != nil {
		return nil, err
	}
	f.Logs = logs
	return f, nil
}

// GetActive returns the open fire. ErrNoActiveFire when none is open;
// ErrMultipleActiveFires when the table holds more than one open row,
// which only happens when the file was edited outside the app.
func (r *FireRepository) GetActive(ctx context.Context) (*domain.Fire, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, started_at, ended_at FROM fires WHERE ended_at IS NULL ORDER BY started_at LIMIT 2")
	if err != nil {
		return nil, fmt.Errorf("query active fire: %w", err)
	}
	defer rows.Close()

	var fires []domain.Fire
	for rows.Next() {
		var f domain.Fire
		if err := rows.Scan(&f.ID, &f.StartedAt, &f.EndedAt); err != nil {
			return nil, fmt.Errorf("scan fire: %w", err)
		}
		fires = append(fires, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(fires) {
	case 0:
		return nil, domain.ErrNoActiveFire
	case 1:
		logs, err := r.loadLogs(ctx, fires[0].ID)
		if err != nil {
			return nil, err
		}
		fires[0].Logs = logs
		return &fires[0], nil
	default:
		return nil, domain.ErrMultipleActiveFires
	}
}

// ListStartedSince returns every fire started at or after since, open or
// ended, with its log entries, newest first.
func (r *FireRepository) ListStartedSince(ctx context.Context, since time.Time) ([]domain.Fire, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, started_at, ended_at FROM fires
		 WHERE started_at >= ? ORDER BY started_at DESC, id DESC`, since)
	if err != nil {
		return nil, fmt.Errorf("list fires: %w", err)
	}
	defer rows.Close()

	var fires []domain.Fire
	for rows.Next() {
		var f domain.Fire
		if err := rows.Scan(&f.ID, &f.StartedAt, &f.EndedAt); err != nil {
			return nil, fmt.Errorf("scan fire: %w", err)
		}
		fires = append(fires, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(fires) == 0 {
		return fires, nil
	}

	logs, err := r.loadLogsSince(ctx, since)
	if err != nil {
		return nil, err
	}
	for i := range fires {
		fires[i].Logs = logs[fires[i].ID]
	}
	return fires, nil
}

// ListEnded returns ended fires started at or after since, newest first,
// paged by limit and offset.
func (r *FireRepository) ListEnded(ctx context.Context, since time.Time, limit, offset int) ([]domain.Fire, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, started_at, ended_at FROM fires
		 WHERE ended_at IS NOT NULL AND started_at >= ?
		 ORDER BY started_at DESC, id DESC LIMIT ? OFFSET ?`, since, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ended fires: %w", err)
	}
	defer rows.Close()

	var fires []domain.Fire
	for rows.Next() {
		var f domain.Fire
		if err := rows.Scan(&f.ID, &f.StartedAt, &f.EndedAt); err != nil {
			return nil, fmt.Errorf("scan fire: %w", err)
		}
		fires = append(fires, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range fires {
		logs, err := r.loadLogs(ctx, fires[i].ID)
		if err != nil {
			return nil, err
		}
		fires[i].Logs = logs
	}
	return fires, nil
}

// CountEnded returns the number of ended fires started at or after since.
func (r *FireRepository) CountEnded(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM fires WHERE ended_at IS NOT NULL AND started_at >= ?", since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count ended fires: %w", err)
	}
	return count, nil
}

func (r *FireRepository) SetEnded(ctx context.Context, id int64, endedAt time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE fires SET ended_at = ? WHERE id = ?", endedAt, id)
	if err != nil {
		return fmt.Errorf("end fire: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FireRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM fires WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete fire: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FireRepository) AddLog(ctx context.Context, entry *domain.LogEntry) error {
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now().UTC()
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO fire_logs (fire_id, size, quantity, logged_at) VALUES (?, ?, ?, ?)",
		entry.FireID, string(entry.Size), entry.Quantity, entry.LoggedAt)
	if err != nil {
		return fmt.Errorf("insert log entry: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get log entry id: %w", err)
	}
	entry.ID = id
	return nil
}

func (r *FireRepository) GetLog(ctx context.Context, id int64) (*domain.LogEntry, error) {
	e := &domain.LogEntry{}
	var size string
	err := r.db.QueryRowContext(ctx,
		"SELECT id, fire_id, size, quantity, logged_at FROM fire_logs WHERE id = ?", id,
	).Scan(&e.ID, &e.FireID, &size, &e.Quantity, &e.LoggedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get log entry: %w", err)
	}
	e.Size = domain.ParseLogSize(size)
	return e, nil
}

func (r *FireRepository) UpdateLog(ctx context.Context, entry *domain.LogEntry) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE fire_logs SET size = ?, quantity = ? WHERE id = ?",
		string(entry.Size), entry.Quantity, entry.ID)
	if err != nil {
		return fmt.Errorf("update log entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FireRepository) DeleteLog(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM fire_logs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete log entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// loadLogs loads the log entries of one fire, oldest first.
func (r *FireRepository) loadLogs(ctx context.Context, fireID int64) ([]domain.LogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, fire_id, size, quantity, logged_at
		 FROM fire_logs WHERE fire_id = ? ORDER BY logged_at, id`, fireID)
	if err != nil {
		return nil, fmt.Errorf("load log entries: %w", err)
	}
	defer rows.Close()

	var logs []domain.LogEntry
	for rows.Next() {
		var (
			e    domain.LogEntry
			size string
		)
		if err := rows.Scan(&e.ID, &e.FireID, &size, &e.Quantity, &e.LoggedAt); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		e.Size = domain.ParseLogSize(size)
		logs = append(logs, e)
	}
	return logs, rows.Err()
}

// loadLogsSince loads the log entries of every fire started at or after
// since in one query, keyed by fire id.
func (r *FireRepository) loadLogsSince(ctx context.Context, since time.Time) (map[int64][]domain.LogEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT l.id, l.fire_id, l.size, l.quantity, l.logged_at
		 FROM fire_logs l
		 JOIN fires f ON f.id = l.fire_id
		 WHERE f.started_at >= ?
		 ORDER BY l.logged_at, l.id`, since)
	if err != nil {
		return nil, fmt.Errorf("load log entries: %w", err)
	}
	defer rows.Close()

	logs := make(map[int64][]domain.LogEntry)
	for rows.Next() {
		var (
			e    domain.LogEntry
			size string
		)
		if err := rows.Scan(&e.ID, &e.FireID, &size, &e.Quantity, &e.LoggedAt); err != nil {
			return nil, fmt.Errorf("scan log entry: %w", err)
		}
		e.Size = domain.ParseLogSize(size)
		logs[e.FireID] = append(logs[e.FireID], e)
	}
	return logs, rows.Err()
}
