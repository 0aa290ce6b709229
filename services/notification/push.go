package notification

import (
	"context"
	"fmt"

	"findmyspot/models"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

const (
	overstayTitle = "Still parked?"
	overstayBody  = "Your parking session at slot %s has been open since %s. Don't forget to check out."
)

// SendUserPushNotification looks up the driver's FCM token and sends a push.
// Drivers without a token are skipped silently.
func (s *DefaultNotificationService) SendUserPushNotification(ctx context.Context, uid string, n models.Notification) error {
	if s.sender == nil {
		s.logger.Debug("notification: delivery disabled", zap.String("uid", uid), zap.String("type", n.Type))
		return nil
	}
	profile, err := s.users.GetByID(ctx, uid)
	if err != nil {
		return fmt.Errorf("SendUserPushNotification: could not find user %s: %w", uid, err)
	}
	if profile.FCMToken == "" {
		s.logger.Debug("notification: no fcm token", zap.String("uid", uid))
		return nil
	}

	data := map[string]string{"type": n.Type}
	for k, v := range n.Data {
		data[k] = v
	}
	msg := &messaging.Message{
		Token: profile.FCMToken,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("SendUserPushNotification: failed to send FCM message: %w", err)
	}
	s.logger.Info("notification: sent", zap.String("uid", uid), zap.String("type", n.Type), zap.String("messageId", id))
	return nil
}

func eventData(event models.ParkingEvent) map[string]string {
	return map[string]string{
		"eventId": event.ID,
		"slotNo":  event.SlotNo,
		"timeIn":  event.TimeIn,
		"date":    event.DateIn,
	}
}

// NotifyParked sends the booking confirmation stored on the event.
func (s *DefaultNotificationService) NotifyParked(ctx context.Context, uid string, event models.ParkingEvent) error {
	return s.SendUserPushNotification(ctx, uid, models.Notification{
		UserID: uid,
		Type:   models.NotificationBooked,
		Title:  event.Title,
		Body:   event.Message,
		Data:   eventData(event),
	})
}

// NotifyReceipt sends the receipt notice stored on the closed event.
func (s *DefaultNotificationService) NotifyReceipt(ctx context.Context, uid string, event models.ParkingEvent) error {
	data := eventData(event)
	data["timeOut"] = event.TimeOut
	data["dateOut"] = event.DateOut
	return s.SendUserPushNotification(ctx, uid, models.Notification{
		UserID: uid,
		Type:   models.NotificationReceipt,
		Title:  event.ReceiptTitle,
		Body:   event.ReceiptMessage,
		Data:   data,
	})
}

// NotifyOverstay reminds a driver whose session is still open.
func (s *DefaultNotificationService) NotifyOverstay(ctx context.Context, uid string, event models.ParkingEvent) error {
	return s.SendUserPushNotification(ctx, uid, models.Notification{
		UserID: uid,
		Type:   models.NotificationOverstay,
		Title:  overstayTitle,
		Body:   fmt.Sprintf(overstayBody, event.SlotNo, event.TimeIn),
		Data:   eventData(event),
	})
}
