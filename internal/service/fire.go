package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kinneerd/Cordkeeper/internal/domain"
)

// FireService handles the fire lifecycle and log entry mutations.
type FireService struct {
	fires    domain.FireRepository
	onChange func()
}

// NewFireService creates a new FireService.
func NewFireService(fires domain.FireRepository) *FireService {
	return &FireService{fires: fires}
}

// OnChange registers a callback invoked after every successful mutation.
// The stats service hangs its Invalidate here.
func (s *FireService) OnChange(fn func()) {
	s.onChange = fn
}

func (s *FireService) notify() {
	if s.onChange != nil {
		s.onChange()
	}
}

// Start begins a new fire. Only one fire may burn at a time;
// ErrFireAlreadyActive is returned when one is already open.
func (s *FireService) Start(ctx context.Context) (*domain.Fire, error) {
	_, err := s.fires.GetActive(ctx)
	if err == nil {
		return nil, domain.ErrFireAlreadyActive
	}
	if !errors.Is(err, domain.ErrNoActiveFire) {
		return nil, fmt.Errorf("check active fire: %w", err)
	}

	fire := &domain.Fire{StartedAt: time.Now().UTC()}
	if err := s.fires.Create(ctx, fire); err != nil {
		return nil, fmt.Errorf("create fire: %w", err)
	}

	s.notify()
	return fire, nil
}

// End closes the given fire. A fire ended with zero log entries is
// discarded entirely rather than kept as empty history; discarded reports
// which happened. An end instant earlier than the start (skewed clock) is
// clamped to the start instant.
func (s *FireService) End(ctx context.Context, id int64) (fire *domain.Fire, discarded bool, err error) {
	fire, err = s.fires.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if !fire.Active() {
		return nil, false, fmt.Errorf("%w: fire already ended", domain.ErrInvalidInput)
	}

	if len(fire.Logs) == 0 {
		if err := s.fires.Delete(ctx, id); err != nil {
			return nil, false, fmt.Errorf("discard empty fire: %w", err)
		}
		s.notify()
		return nil, true, nil
	}

	endedAt := time.Now().UTC()
	if endedAt.Before(fire.StartedAt) {
		endedAt = fire.StartedAt
	}
	if err := s.fires.SetEnded(ctx, id, endedAt); err != nil {
		return nil, false, fmt.Errorf("end fire: %w", err)
	}
	fire.EndedAt = &endedAt

	s.notify()
	return fire, false, nil
}

// GetByID returns a fire with its log entries.
func (s *FireService) GetByID(ctx context.Context, id int64) (*domain.Fire, error) {
	return s.fires.GetByID(ctx, id)
}

// Active returns the currently burning fire, or ErrNoActiveFire.
func (s *FireService) Active(ctx context.Context) (*domain.Fire, error) {
	return s.fires.GetActive(ctx)
}

// History returns ended fires started at or after since, newest first.
func (s *FireService) History(ctx context.Context, since time.Time, limit, offset int) ([]domain.Fire, error) {
	return s.fires.ListEnded(ctx, since, limit, offset)
}

// CountHistory returns the number of ended fires started at or after
// since.
func (s *FireService) CountHistory(ctx context.Context, since time.Time) (int, error) {
	return s.fires.CountEnded(ctx, since)
}

// Delete removes a fire; its log entries go with it.
func (s *FireService) Delete(ctx context.Context, id int64) error {
	if err := s.fires.Delete(ctx, id); err != nil {
		return err
	}
	s.notify()
	return nil
}

// AddLog records quantity pieces of the given size on an active fire.
func (s *FireService) AddLog(ctx context.Context, fireID int64, size string, quantity int) (*domain.LogEntry, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	fire, err := s.fires.GetByID(ctx, fireID)
	if err != nil {
		return nil, err
	}
	if !fire.Active() {
		return nil, fmt.Errorf("%w: fire already ended", domain.ErrInvalidInput)
	}

	entry := &domain.LogEntry{
		FireID:   fireID,
		Size:     domain.ParseLogSize(size),
		Quantity: quantity,
		LoggedAt: time.Now().UTC(),
	}
	if err := s.fires.AddLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("add log: %w", err)
	}

	s.notify()
	return entry, nil
}

// UpdateLog changes the size or quantity of an existing log entry.
func (s *FireService) UpdateLog(ctx context.Context, id int64, size string, quantity int) (*domain.LogEntry, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}

	entry, err := s.fires.GetLog(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.Size = domain.ParseLogSize(size)
	entry.Quantity = quantity
	if err := s.fires.UpdateLog(ctx, entry); err != nil {
		return nil, fmt.Errorf("update log: %w", err)
	}

	s.notify()
	return entry, nil
}

// DeleteLog removes a single log entry and reports which fire it was on.
func (s *FireService) DeleteLog(ctx context.Context, id int64) (*domain.LogEntry, error) {
	entry, err := s.fires.GetLog(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.fires.DeleteLog(ctx, id); err != nil {
		return nil, fmt.Errorf("delete log: %w", err)
	}
	s.notify()
	return entry, nil
}
