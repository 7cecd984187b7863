package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"apexbooking/config"
	"apexbooking/services/hold"
	"apexbooking/services/tasks"

	"github.com/hibiken/asynq"
)

// InitHoldExpiryWorker runs the async worker in background. Each task fires
// at the hold's expiry instant and runs the same lazy check the page-load
// path uses, so an abandoned browser tab no longer leaves a HOLD blocking
// the slot forever.
func InitHoldExpiryWorker(holdSvc hold.HoldService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeHoldExpire, handleHoldExpireTask(holdSvc))

	// Start async worker with retry logic
	go func() {
		log.Println("[HoldExpiryWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[HoldExpiryWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[HoldExpiryWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleHoldExpireTask(holdSvc hold.HoldService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.HoldExpirePayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[HoldExpiryHandler] invalid payload: %v", err)
			return err
		}

		result, err := holdSvc.CheckAndExpire(ctx, p.AppointmentID)
		if err != nil {
			log.Printf("[HoldExpiryHandler] check failed for %s: %v", p.AppointmentID, err)
			return err
		}

		log.Printf("[HoldExpiryHandler] appointment %s -> %s", p.AppointmentID, result)
		return nil
	}
}
