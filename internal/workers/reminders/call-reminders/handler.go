package callreminders

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"time"

	"lead-funnel/internal/common/camunda"
	"lead-funnel/internal/common/config"
	"lead-funnel/internal/common/errors"
	"lead-funnel/internal/common/logger"
	"lead-funnel/internal/common/metrics"
	"lead-funnel/internal/common/observability"
	"lead-funnel/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "funnel.call-reminders"

// Handler runs a reminder sweep for each activated Zeebe job.
type Handler struct {
	config       *Config
	logger       logger.Logger
	camunda      *camunda.Client
	service      *Service
	errorHandler *errors.ErrorHandler
	jobWorker    worker.JobWorker
}

type HandlerOptions struct {
	AppConfig     *config.Config
	Camunda       *camunda.Client
	CustomConfig  *Config
	Logger        logger.Logger
	Directory     Directory
	Notifier      Notifier
	Observability *observability.Observability
	Clock         func() time.Time
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := opts.CustomConfig
	if workerConfig == nil {
		workerConfig = ConfigFromApp(opts.AppConfig)
	}

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for call-reminders: %w", err)
	}
	if opts.Notifier == nil {
		return nil, fmt.Errorf("call-reminders requires a notifier")
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json", "stdout")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"worker": TaskType})

	return &Handler{
		config:       workerConfig,
		logger:       loggerInstance,
		camunda:      opts.Camunda,
		errorHandler: errors.NewErrorHandler(loggerInstance),
		service: NewService(ServiceDependencies{
			Logger:        loggerInstance,
			Directory:     opts.Directory,
			Notifier:      opts.Notifier,
			Observability: opts.Observability,
			Clock:         opts.Clock,
		}, workerConfig),
	}, nil
}

// Service exposes the dispatcher for the HTTP trigger and the CLI.
func (h *Handler) Service() *Service {
	return h.service
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("Processing call reminder job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	if !h.config.Enabled {
		h.logger.Info("Worker disabled by configuration", nil)
		h.completeJob(ctx, client, job, map[string]interface{}{"reminderSweepRan": false})
		return
	}

	summary := h.service.RunSweep(ctx)

	if summary.AllDegraded() {
		err := sweepFailure(summary)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(err.Code)).Inc()
		h.errorHandler.HandleJobError(ctx, client, job, err)
		return
	}

	h.completeJob(ctx, client, job, JobVariables(summary))
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

// sweepFailure classifies a sweep in which no stage reached the directory.
func sweepFailure(summary *models.SweepSummary) *errors.StandardError {
	keys := make([]string, 0, len(summary.Results))
	for key := range summary.Results {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	reason := summary.Results[keys[0]].Error
	if reason == missingToken().Message {
		return missingToken()
	}
	return errors.NewDirectoryRequestFailedError("search", stderrors.New(reason)).
		WithMetadata("runId", summary.RunID)
}

// JobVariables flattens a summary into process variables.
func JobVariables(summary *models.SweepSummary) map[string]interface{} {
	stages := make(map[string]interface{}, len(summary.Results))
	for key, result := range summary.Results {
		stages[key] = map[string]interface{}{
			"sent":     result.Sent,
			"failed":   result.Failed,
			"skipped":  result.Skipped,
			"degraded": result.Degraded,
		}
	}
	return map[string]interface{}{
		"reminderSweepRan":  true,
		"reminderRunId":     summary.RunID,
		"reminderSent":      summary.Totals.Sent,
		"reminderFailed":    summary.Totals.Failed,
		"reminderSkipped":   summary.Totals.Skipped,
		"reminderDegraded":  summary.Degraded,
		"reminderStages":    stages,
		"reminderTimestamp": summary.Timestamp.Format(time.RFC3339),
	}
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, variables map[string]interface{}) {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromMap(variables)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err,
		})
		return
	}

	send := func(ctx context.Context) (interface{}, error) { return request.Send(ctx) }
	if h.camunda != nil {
		_, err = h.camunda.ExecuteWithRetry(ctx, send, "complete job")
	} else {
		_, err = send(ctx)
	}
	if err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err,
		})
		return
	}

	h.logger.Info("Completed call reminder job", map[string]interface{}{
		"jobKey": job.GetKey(),
		"sent":   variables["reminderSent"],
	})
}

// Register opens the job worker. It is a no-op without a workflow client.
func (h *Handler) Register() error {
	if !h.config.Enabled || h.camunda == nil {
		h.logger.Info("Job worker not registered", map[string]interface{}{
			"enabled":     h.config.Enabled,
			"hasWorkflow": h.camunda != nil,
		})
		return nil
	}

	h.jobWorker = h.camunda.OpenWorker(h, camunda.WorkerOptions{
		MaxJobsActive: h.config.MaxJobsActive,
		Timeout:       h.config.Timeout,
	}, h.logger)
	return nil
}

func (h *Handler) Close() {
	if h.jobWorker != nil {
		h.logger.Info("Shutting down worker gracefully", nil)
		h.jobWorker.Close()
		h.jobWorker.AwaitClose()
		h.jobWorker = nil
	}
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}
