package domain

import (
	"context"
	"time"
)

// LogSize classifies a piece of firewood by rough split size.
type LogSize string

const (
	SizeSmall  LogSize = "small"
	SizeMedium LogSize = "medium"
	SizeLarge  LogSize = "large"
)

// Sizes lists all log sizes in display order.
func Sizes() []LogSize {
	return []LogSize{SizeSmall, SizeMedium, SizeLarge}
}

// ParseLogSize maps a stored or submitted size string to a LogSize.
// Unrecognized values fail closed to SizeMedium so a corrupt row can
// never poison downstream statistics.
func ParseLogSize(s string) LogSize {
	switch LogSize(s) {
	case SizeSmall, SizeMedium, SizeLarge:
		return LogSize(s)
	}
	return SizeMedium
}

// LogEntry records burning Quantity pieces of a given size at one instant.
// Every entry belongs to exactly one Fire; deleting the fire deletes its
// entries with it.
type LogEntry struct {
	ID       int64
	FireID   int64
	Size     LogSize
	Quantity int
	LoggedAt time.Time
}

// FireRepository defines persistence operations for fires and the log
// entries they own.
type FireRepository interface {
	// Create inserts a fire. Inserting an open fire (EndedAt nil) while
	// another open fire exists fails with ErrFireAlreadyActive.
	Create(ctx context.Context, fire *Fire) error
	GetByID(ctx context.Context, id int64) (*Fire, error)
	// GetActive returns the open fire, ErrNoActiveFire when there is none,
	// and ErrMultipleActiveFires if the table holds more than one.
	GetActive(ctx context.Context) (*Fire, error)
	ListStartedSince(ctx context.Context, since time.Time) ([]Fire, error)
	ListEnded(ctx context.Context, since time.Time, limit, offset int) ([]Fire, error)
	CountEnded(ctx context.Context, since time.Time) (int, error)
	SetEnded(ctx context.Context, id int64, endedAt time.Time) error
	Delete(ctx context.Context, id int64) error

	AddLog(ctx context.Context, entry *LogEntry) error
	GetLog(ctx context.Context, id int64) (*LogEntry, error)
	UpdateLog(ctx context.Context, entry *LogEntry) error
	DeleteLog(ctx context.Context, id int64) error
}
