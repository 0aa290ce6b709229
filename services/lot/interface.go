package lot

import (
	"context"
	"errors"
	"time"

	"findmyspot/models"
)

// ErrNoStatus is returned when no detector report is available or it expired.
var ErrNoStatus = errors.New("no recent lot status")

// StatusStore keeps the latest detector report.
type StatusStore interface {
	Put(ctx context.Context, status models.LotStatus, ttl time.Duration) error
	// Get returns ErrNoStatus when nothing fresh is stored.
	Get(ctx context.Context) (*models.LotStatus, error)
}

// LotService publishes and reads the occupancy reported by the camera detector.
type LotService interface {
	Publish(ctx context.Context, parkedCars, availableSpaces int) (*models.LotStatus, error)
	Current(ctx context.Context) (*models.LotStatus, error)
}

// Broadcaster pushes fresh reports to live subscribers.
type Broadcaster interface {
	BroadcastLotStatus(status models.LotStatus)
}

// DefaultLotService is the production implementation. Live is optional.
type DefaultLotService struct {
	Store StatusStore
	TTL   time.Duration
	Now   func() time.Time
	Live  Broadcaster
}

// Publish stores a detector report stamped with the current time.
func (s *DefaultLotService) Publish(ctx context.Context, parkedCars, availableSpaces int) (*models.LotStatus, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	status := models.LotStatus{
		ParkedCars:      parkedCars,
		AvailableSpaces: availableSpaces,
		UpdatedAt:       now().UTC(),
	}
	if err := s.Store.Put(ctx, status, s.TTL); err != nil {
		return nil, err
	}
	if s.Live != nil {
		s.Live.BroadcastLotStatus(status)
	}
	return &status, nil
}

// Current returns the latest fresh report.
func (s *DefaultLotService) Current(ctx context.Context) (*models.LotStatus, error) {
	return s.Store.Get(ctx)
}
