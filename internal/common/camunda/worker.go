// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"lead-funnel/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// JobHandler is implemented by every job worker in this module.
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job)
	GetTaskType() string
}

// WorkerOptions control job activation for one task type.
type WorkerOptions struct {
	MaxJobsActive int
	Timeout       time.Duration
}

// OpenWorker subscribes handler to its task type on the gateway.
func (c *Client) OpenWorker(handler JobHandler, opts WorkerOptions, log logger.Logger) worker.JobWorker {
	taskType := handler.GetTaskType()
	if opts.MaxJobsActive <= 0 {
		opts.MaxJobsActive = 1
	}

	builder := c.client.NewJobWorker().
		JobType(taskType).
		Handler(handler.Handle).
		MaxJobsActive(opts.MaxJobsActive).
		Name(taskType + "-worker")
	if opts.Timeout > 0 {
		builder = builder.Timeout(opts.Timeout)
	}

	log.Info("Job worker opened", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": opts.MaxJobsActive,
		"timeout":       opts.Timeout.String(),
	})

	return builder.Open()
}
