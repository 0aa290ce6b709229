package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"findmyspot/database"
	"findmyspot/models"

	"go.uber.org/zap"
)

const (
	bookedTitle    = "Parking Successfully Booked"
	bookedMessage  = "Your parking reservation has been confirmed."
	receiptTitle   = "Parking Receipt"
	receiptMessage = "Thank you parking with us!"
)

func (s *DefaultSessionService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.Timeout)
}

func (s *DefaultSessionService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func requireUser(uid string) error {
	if uid == "" {
		return models.ErrNotAuthenticated
	}
	return nil
}

// CurrentSession answers "is this user parked, and with what details?".
func (s *DefaultSessionService) CurrentSession(ctx context.Context, uid string) (models.SessionView, error) {
	if err := requireUser(uid); err != nil {
		return models.FreeView(), err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	events, err := s.Events.List(ctx, uid)
	if err != nil {
		return models.FreeView(), err
	}
	return s.Rules.Derive(events, s.Clock.Today()), nil
}

// OpenSession reserves the slot: it appends a new open event unless the user is
// already parked. Check and append happen in one store transaction.
func (s *DefaultSessionService) OpenSession(ctx context.Context, uid string) (*models.ParkingEvent, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	profile, err := s.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrVehicleNotRegistered
		}
		return nil, err
	}
	if !profile.HasVehicle() {
		return nil, ErrVehicleNotRegistered
	}

	now := s.Clock.Now()
	today := s.Clock.FormatDate(now)
	event := models.ParkingEvent{
		ID:          database.NewKey(),
		TimeIn:      s.Clock.FormatTime(now),
		DateIn:      today,
		SlotNo:      s.SlotNo,
		VehicleType: profile.VehicleType,
		PlateNumber: profile.PlateNumber,
		Title:       bookedTitle,
		Message:     bookedMessage,
		Timestamp:   now.Format(time.RFC3339),
	}

	err = s.Events.Modify(ctx, uid, func(events []models.ParkingEvent) ([]models.ParkingEvent, error) {
		if !s.Rules.CanStartNewSession(events, today) {
			return nil, ErrSessionAlreadyOpen
		}
		return append(events, event), nil
	})
	if err != nil {
		if errors.Is(err, ErrSessionAlreadyOpen) {
			s.logger().Info("session: open rejected, already parked", zap.String("uid", uid))
		}
		return nil, err
	}

	s.logger().Info("session: opened",
		zap.String("uid", uid),
		zap.String("eventId", event.ID),
		zap.String("slotNo", event.SlotNo))
	s.afterOpen(ctx, uid, event, now)
	return &event, nil
}

func (s *DefaultSessionService) afterOpen(ctx context.Context, uid string, event models.ParkingEvent, now time.Time) {
	if s.Notifier != nil {
		if err := s.Notifier.NotifyParked(ctx, uid, event); err != nil {
			s.logger().Warn("session: booking push failed", zap.String("uid", uid), zap.Error(err))
		}
	}
	if s.Reminders != nil && s.OverstayAfter > 0 {
		if err := s.Reminders.ScheduleOverstay(ctx, uid, event.ID, now.Add(s.OverstayAfter)); err != nil {
			s.logger().Warn("session: overstay reminder not scheduled", zap.String("uid", uid), zap.Error(err))
		}
	}
}

func validateRating(rating int, required bool) error {
	if rating == 0 && !required {
		return nil
	}
	if rating < 1 || rating > models.MaxRating {
		return ErrInvalidRating
	}
	return nil
}

// CloseSession records the exit on the last event, with optional feedback and
// rating, in a single write.
func (s *DefaultSessionService) CloseSession(ctx context.Context, uid string, feedback string, rating int) (*models.ParkingEvent, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	if err := validateRating(rating, false); err != nil {
		return nil, err
	}
	feedback = strings.TrimSpace(feedback)
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	now := s.Clock.Now()
	var closed models.ParkingEvent
	err := s.Events.Modify(ctx, uid, func(events []models.ParkingEvent) ([]models.ParkingEvent, error) {
		if len(events) == 0 || !events[len(events)-1].IsOpen() {
			return nil, ErrNoOpenSession
		}
		last := events[len(events)-1]
		last.TimeOut = s.Clock.FormatTime(now)
		last.DateOut = s.Clock.FormatDate(now)
		last.ClosedAt = now.Format(time.RFC3339)
		last.Feedback = feedback
		last.Rating = rating
		last.ReceiptTitle = receiptTitle
		last.ReceiptMessage = receiptMessage
		events[len(events)-1] = last
		closed = last
		return events, nil
	})
	if err != nil {
		return nil, err
	}

	s.logger().Info("session: closed", zap.String("uid", uid), zap.String("eventId", closed.ID))
	if s.Notifier != nil {
		if err := s.Notifier.NotifyReceipt(ctx, uid, closed); err != nil {
			s.logger().Warn("session: receipt push failed", zap.String("uid", uid), zap.Error(err))
		}
	}
	return &closed, nil
}

// RateSession attaches feedback and a rating to the last session once it is closed.
func (s *DefaultSessionService) RateSession(ctx context.Context, uid string, feedback string, rating int) (*models.ParkingEvent, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	if err := validateRating(rating, true); err != nil {
		return nil, err
	}
	feedback = strings.TrimSpace(feedback)
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var rated models.ParkingEvent
	err := s.Events.Modify(ctx, uid, func(events []models.ParkingEvent) ([]models.ParkingEvent, error) {
		if len(events) == 0 {
			return nil, ErrNothingToRate
		}
		last := events[len(events)-1]
		if last.IsOpen() {
			return nil, ErrEventStillOpen
		}
		if last.Rated() {
			return nil, ErrAlreadyRated
		}
		last.Feedback = feedback
		last.Rating = rating
		events[len(events)-1] = last
		rated = last
		return events, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger().Info("session: rated", zap.String("uid", uid), zap.String("eventId", rated.ID), zap.Int("rating", rating))
	return &rated, nil
}

// DeleteEvent removes one closed event. Open events cannot be deleted. A closed
// event never reopens, so the check and the delete need no transaction.
func (s *DefaultSessionService) DeleteEvent(ctx context.Context, uid, eventID string) error {
	if err := requireUser(uid); err != nil {
		return err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	deleted, err := s.Events.DeleteClosed(ctx, uid, eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	if !deleted {
		return ErrEventStillOpen
	}
	s.logger().Info("session: event deleted", zap.String("uid", uid), zap.String("eventId", eventID))
	return nil
}

// ClearClosedEvents removes every closed event and keeps the open one, if any.
func (s *DefaultSessionService) ClearClosedEvents(ctx context.Context, uid string) (int, error) {
	if err := requireUser(uid); err != nil {
		return 0, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	removed, err := s.Events.ClearClosed(ctx, uid)
	if err != nil {
		return 0, err
	}
	s.logger().Info("session: cleared closed events", zap.String("uid", uid), zap.Int("removed", removed))
	return removed, nil
}

// ListEvents returns the user's event feed grouped by start date.
func (s *DefaultSessionService) ListEvents(ctx context.Context, uid string) ([]models.EventGroup, error) {
	if err := requireUser(uid); err != nil {
		return nil, err
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	events, err := s.Events.List(ctx, uid)
	if err != nil {
		return nil, err
	}
	return GroupByDate(events), nil
}
