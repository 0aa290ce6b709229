package notification

import (
	"context"

	userRepo "findmyspot/database/repository/user"
	"findmyspot/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService defines methods for sending FCM pushes to drivers.
type NotificationService interface {
	SendUserPushNotification(ctx context.Context, uid string, n models.Notification) error
	NotifyParked(ctx context.Context, uid string, event models.ParkingEvent) error
	NotifyReceipt(ctx context.Context, uid string, event models.ParkingEvent) error
	NotifyOverstay(ctx context.Context, uid string, event models.ParkingEvent) error
}

// Sender is the part of the FCM client the service needs.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	users  userRepo.UserRepository
	sender Sender
	logger *zap.Logger
}

// NewDefaultNotificationService returns a service that looks up each driver's
// FCM token in users. A nil sender disables delivery.
func NewDefaultNotificationService(users userRepo.UserRepository, sender Sender, logger *zap.Logger) *DefaultNotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultNotificationService{users: users, sender: sender, logger: logger}
}
