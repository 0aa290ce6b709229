package recordsRepo

import (
	"context"

	"findmyspot/database"
	"findmyspot/models"
)

// EventsRoot is the namespace the parking-event log lives under; the name is
// shared with the app's notification feed.
const EventsRoot = "notifications"

// ModifyFunc receives a user's events in creation order and returns the complete
// list that should replace them. Returning an error aborts without writing.
type ModifyFunc func(events []models.ParkingEvent) ([]models.ParkingEvent, error)

// ParkingEventRepository reads and writes a user's parking-event log.
type ParkingEventRepository interface {
	// List returns the user's readable events in creation order.
	List(ctx context.Context, uid string) ([]models.ParkingEvent, error)
	// GetByID returns one event or models.ErrNotFound.
	GetByID(ctx context.Context, uid, id string) (*models.ParkingEvent, error)
	// Append stores a new event under a generated key and returns that key.
	Append(ctx context.Context, uid string, event models.ParkingEvent) (string, error)
	// DeleteClosed removes one event unless it is still open; false means open.
	DeleteClosed(ctx context.Context, uid, id string) (bool, error)
	// ClearClosed atomically removes every closed event and returns the count.
	ClearClosed(ctx context.Context, uid string) (int, error)
	// Modify atomically rewrites the user's event log.
	Modify(ctx context.Context, uid string, fn ModifyFunc) error
}

type storeRecordRepo struct {
	store database.RecordStore
}

// NewParkingEventRepo returns a ParkingEventRepository over the given record store.
func NewParkingEventRepo(store database.RecordStore) ParkingEventRepository {
	return &storeRecordRepo{store: store}
}
