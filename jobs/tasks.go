package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the queue every background task runs on.
	QueueDefault = "default"
	// TaskDashboardWarmup precomputes the dashboard aggregates.
	TaskDashboardWarmup = "dashboard:warmup"
)

// DashboardWarmupPayload parameterises a warmup run. Bump forces a cache
// version bump before warming, dropping whatever is currently cached.
type DashboardWarmupPayload struct {
	Bump bool `json:"bump"`
}

// NewDashboardWarmupTask builds the warmup task.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}
