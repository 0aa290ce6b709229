package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"findmyspot/database"
	recordsRepo "findmyspot/database/repository/records"
	"findmyspot/models"
	"findmyspot/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	events []models.ParkingEvent
}

func (r *recordingNotifier) NotifyOverstay(_ context.Context, _ string, e models.ParkingEvent) error {
	r.events = append(r.events, e)
	return nil
}

func overstayTask(t *testing.T, uid, eventID string) *asynq.Task {
	t.Helper()
	b, err := json.Marshal(models.OverstayPayload{UID: uid, EventID: eventID})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return asynq.NewTask(tasks.TypeOverstayReminder, b)
}

func TestOverstayOnlyForOpenSession(t *testing.T) {
	ctx := context.Background()
	events := recordsRepo.NewParkingEventRepo(database.NewMemoryStore())
	openID, _ := events.Append(ctx, "u1", models.ParkingEvent{TimeIn: "8:00 AM", DateIn: "Mar 23, 2025", SlotNo: "11"})
	closedID, _ := events.Append(ctx, "u2", models.ParkingEvent{TimeIn: "8:00 AM", TimeOut: "9:00 AM", DateIn: "Mar 23, 2025"})

	notifier := &recordingNotifier{}
	handle := HandleOverstayTask(events, notifier, zap.NewNop())

	if err := handle(ctx, overstayTask(t, "u1", openID)); err != nil {
		t.Fatalf("open session: %v", err)
	}
	if err := handle(ctx, overstayTask(t, "u2", closedID)); err != nil {
		t.Fatalf("closed session: %v", err)
	}
	if err := handle(ctx, overstayTask(t, "u3", "gone")); err != nil {
		t.Fatalf("deleted session: %v", err)
	}
	if len(notifier.events) != 1 || notifier.events[0].ID != openID {
		t.Fatalf("expected a single reminder for %s, got %+v", openID, notifier.events)
	}
}

func TestOverstayBadPayloadSkipsRetry(t *testing.T) {
	handle := HandleOverstayTask(recordsRepo.NewParkingEventRepo(database.NewMemoryStore()), &recordingNotifier{}, zap.NewNop())
	err := handle(context.Background(), asynq.NewTask(tasks.TypeOverstayReminder, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}
