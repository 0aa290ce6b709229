package session

import (
	"context"
	"time"

	recordsRepo "findmyspot/database/repository/records"
	userRepo "findmyspot/database/repository/user"
	"findmyspot/models"
	"findmyspot/utils"

	"go.uber.org/zap"
)

// SessionService owns every transition of a user's parking session.
type SessionService interface {
	CurrentSession(ctx context.Context, uid string) (models.SessionView, error)
	OpenSession(ctx context.Context, uid string) (*models.ParkingEvent, error)
	CloseSession(ctx context.Context, uid string, feedback string, rating int) (*models.ParkingEvent, error)
	RateSession(ctx context.Context, uid string, feedback string, rating int) (*models.ParkingEvent, error)
	DeleteEvent(ctx context.Context, uid, eventID string) error
	ClearClosedEvents(ctx context.Context, uid string) (int, error)
	ListEvents(ctx context.Context, uid string) ([]models.EventGroup, error)
}

// Notifier pushes session milestones to the driver's device.
type Notifier interface {
	NotifyParked(ctx context.Context, uid string, event models.ParkingEvent) error
	NotifyReceipt(ctx context.Context, uid string, event models.ParkingEvent) error
}

// ReminderScheduler schedules a check for sessions left open too long.
type ReminderScheduler interface {
	ScheduleOverstay(ctx context.Context, uid, eventID string, at time.Time) error
}

// DefaultSessionService is the production implementation. Notifier and
// Reminders are optional.
type DefaultSessionService struct {
	Events    recordsRepo.ParkingEventRepository
	Users     userRepo.UserRepository
	Clock     *utils.Clock
	Rules     Rules
	SlotNo    string
	Timeout   time.Duration
	Notifier  Notifier
	Reminders ReminderScheduler
	// OverstayAfter is how long after opening the overstay reminder fires.
	OverstayAfter time.Duration
	Logger        *zap.Logger
}
