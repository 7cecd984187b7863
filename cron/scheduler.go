package cron

import (
	"context"
	"fmt"
	"time"

	"apexbooking/config"
	"apexbooking/services/tasks"

	"github.com/hibiken/asynq"
)

// AsynqExpiryScheduler enqueues hold-expiry tasks on the shared Redis queue.
// It satisfies hold.ExpiryScheduler.
type AsynqExpiryScheduler struct {
	client *asynq.Client
}

// NewAsynqExpiryScheduler creates the enqueue-side asynq client.
func NewAsynqExpiryScheduler() *AsynqExpiryScheduler {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	return &AsynqExpiryScheduler{client: client}
}

// ScheduleExpiry enqueues a check to run at the hold's expiry instant.
func (s *AsynqExpiryScheduler) ScheduleExpiry(ctx context.Context, appointmentID string, at time.Time) error {
	task, opts, err := tasks.NewHoldExpireTask(appointmentID, at)
	if err != nil {
		return fmt.Errorf("failed to build expiry task: %w", err)
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue expiry task: %w", err)
	}
	return nil
}

// Close releases the underlying asynq client.
func (s *AsynqExpiryScheduler) Close() error {
	return s.client.Close()
}
