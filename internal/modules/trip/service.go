// README: Trip lifecycle. Start opens a trip for a driver, End closes it.
// Dishes picked up during the trip keep their trip association afterwards so
// driver impact counts stay attributable.
package trip

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"justonemore/internal/types"
)

var (
	ErrNotFound     = errors.New("trip not found")
	ErrInvalidInput = errors.New("invalid trip input")
	ErrNotActive    = errors.New("trip is not active")
)

type Store interface {
	Create(ctx context.Context, t *Trip) error
	Get(ctx context.Context, id types.ID) (*Trip, error)
	End(ctx context.Context, id types.ID, endedAt time.Time) (*Trip, error)
	ListByDriver(ctx context.Context, driverID types.ID) ([]*Trip, error)
	ActiveByDriver(ctx context.Context, driverID types.ID) (*Trip, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Start opens a new trip. A driver may only have one active trip at a time;
// starting while one is open returns the open trip instead of a new one.
func (s *Service) Start(ctx context.Context, driverID types.ID) (*Trip, error) {
	if driverID == "" {
		return nil, ErrInvalidInput
	}
	if open, err := s.store.ActiveByDriver(ctx, driverID); err == nil {
		return open, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	t := &Trip{
		ID:        types.ID(uuid.NewString()),
		DriverID:  driverID,
		Status:    StatusActive,
		StartedAt: time.Now().UTC(),
	}
	if err := s.store.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) End(ctx context.Context, tripID types.ID) (*Trip, error) {
	t, err := s.store.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if t.Status != StatusActive {
		return nil, ErrNotActive
	}
	return s.store.End(ctx, tripID, time.Now().UTC())
}

func (s *Service) Get(ctx context.Context, tripID types.ID) (*Trip, error) {
	return s.store.Get(ctx, tripID)
}

func (s *Service) ListByDriver(ctx context.Context, driverID types.ID) ([]*Trip, error) {
	return s.store.ListByDriver(ctx, driverID)
}
