package domain

import "time"

// Fire is one contiguous wood-burning session. A fire is active while
// EndedAt is nil; at most one fire in the whole record set may be active
// at a time.
type Fire struct {
	ID        int64
	StartedAt time.Time
	EndedAt   *time.Time
	Logs      []LogEntry
}

// Active reports whether the fire is still burning.
func (f *Fire) Active() bool {
	return f.EndedAt == nil
}

// Duration returns how long the fire has burned, using now for a fire
// that is still active. A negative span (skewed clock, corrupt row) is
// clamped to zero rather than shown to the user.
func (f *Fire) Duration(now time.Time) time.Duration {
	end := now
	if f.EndedAt != nil {
		end = *f.EndedAt
	}
	d := end.Sub(f.StartedAt)
	if d < 0 {
		return 0
	}
	return d
}

// TotalPieces sums the quantities of all log entries on the fire.
func (f *Fire) TotalPieces() int {
	total := 0
	for _, l := range f.Logs {
		total += l.Quantity
	}
	return total
}
