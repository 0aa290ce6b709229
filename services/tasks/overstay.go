package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"findmyspot/models"

	"github.com/hibiken/asynq"
)

// TypeOverstayReminder is the asynq task type for overstay checks.
const TypeOverstayReminder = "session:overstay"

// NewOverstayTask builds the delayed task checking whether eventID is still open at fireAt.
func NewOverstayTask(payload models.OverstayPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeOverstayReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(payload.UID + ":" + payload.EventID),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// Enqueuer is the part of *asynq.Client the scheduler uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// OverstayScheduler enqueues overstay reminders on the reminder queue.
type OverstayScheduler struct {
	client Enqueuer
}

// NewOverstayScheduler wraps an asynq client.
func NewOverstayScheduler(client Enqueuer) *OverstayScheduler {
	return &OverstayScheduler{client: client}
}

// ScheduleOverstay enqueues a check for the session at the given instant.
func (s *OverstayScheduler) ScheduleOverstay(ctx context.Context, uid, eventID string, at time.Time) error {
	task, opts, err := NewOverstayTask(models.OverstayPayload{
		UID:      uid,
		EventID:  eventID,
		FireDate: at.Format(time.RFC3339),
	}, at)
	if err != nil {
		return err
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue overstay reminder: %w", err)
	}
	return nil
}
