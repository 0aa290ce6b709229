package cron

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"findmyspot/config"
	recordsRepo "findmyspot/database/repository/records"
	"findmyspot/models"
	"findmyspot/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// OverstayNotifier sends the overstay push.
type OverstayNotifier interface {
	NotifyOverstay(ctx context.Context, uid string, event models.ParkingEvent) error
}

// ReminderQueueOpt is the redis connection of the reminder queue.
func ReminderQueueOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// InitOverstayWorker runs the asynq worker in the background until ctx is done.
func InitOverstayWorker(ctx context.Context, events recordsRepo.ParkingEventRepository, notifier OverstayNotifier, logger *zap.Logger) {
	srv := asynq.NewServer(
		ReminderQueueOpt(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeOverstayReminder, HandleOverstayTask(events, notifier, logger))

	go func() {
		logger.Info("[OverstayWorker] starting async worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Start(mux); err != nil {
				logger.Error("[OverstayWorker] failed to start worker",
					zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
				if attempts == maxAttempts {
					logger.Error("[OverstayWorker] max retry attempts reached, reminders disabled")
					return
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
				continue
			}
			break
		}
		<-ctx.Done()
		srv.Shutdown()
	}()
}

// HandleOverstayTask pushes a reminder if the referenced session is still the
// open one. Closed or deleted sessions are ignored.
func HandleOverstayTask(events recordsRepo.ParkingEventRepository, notifier OverstayNotifier, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.OverstayPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Warn("[OverstayHandler] invalid payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		event, err := events.GetByID(ctx, p.UID, p.EventID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return nil
			}
			if errors.Is(err, models.ErrInvalidRecord) {
				logger.Warn("[OverstayHandler] unreadable session", zap.String("uid", p.UID), zap.Error(err))
				return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
			}
			logger.Warn("[OverstayHandler] could not load session", zap.String("uid", p.UID), zap.Error(err))
			return err
		}
		if !event.IsOpen() {
			return nil
		}

		logger.Info("[OverstayHandler] session still open",
			zap.String("uid", p.UID), zap.String("eventId", p.EventID), zap.String("fireDate", p.FireDate))
		if err := notifier.NotifyOverstay(ctx, p.UID, *event); err != nil {
			logger.Warn("[OverstayHandler] failed to send notification", zap.Error(err))
			return err
		}
		return nil
	}
}
