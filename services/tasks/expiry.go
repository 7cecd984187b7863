package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeHoldExpire = "hold:expire"

// HoldExpirePayload identifies the appointment whose hold should be checked.
type HoldExpirePayload struct {
	AppointmentID string `json:"appointmentId"`
}

// NewHoldExpireTask builds a task scheduled for the hold's expiry instant.
func NewHoldExpireTask(appointmentID string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(HoldExpirePayload{AppointmentID: appointmentID})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeHoldExpire, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}
