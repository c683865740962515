package callreminders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lead-funnel/internal/common/errors"
	"lead-funnel/internal/common/hubspot"
	"lead-funnel/internal/common/logger"
	"lead-funnel/internal/common/metrics"
	"lead-funnel/internal/common/observability"
	"lead-funnel/internal/common/timewindow"
	"lead-funnel/internal/models"

	"github.com/google/uuid"
)

type Service struct {
	config    *Config
	logger    logger.Logger
	directory Directory
	notifier  Notifier
	obs       *observability.Observability
	now       func() time.Time
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	return &Service{
		config:    config,
		logger:    log,
		directory: deps.Directory,
		notifier:  deps.Notifier,
		obs:       deps.Observability,
		now:       clock,
	}
}

// RunSweep evaluates every configured stage and sends the due reminders.
// Remote failures are recorded per stage and never abort the sweep.
func (s *Service) RunSweep(ctx context.Context) *models.SweepSummary {
	started := time.Now()
	now := s.now()

	summary := &models.SweepSummary{
		RunID:     uuid.NewString(),
		Timestamp: now.UTC(),
		Results:   make(map[string]models.StageResult, len(s.config.Stages)),
	}
	log := s.logger.WithFields(map[string]interface{}{"runId": summary.RunID})

	log.Info("Starting call reminder sweep", map[string]interface{}{
		"stages": len(s.config.Stages),
	})

	if s.directory == nil || !s.directory.Configured() {
		cfgErr := missingToken()
		log.Error("Directory not configured, every stage degraded", map[string]interface{}{
			"errorCode": string(cfgErr.Code),
		})
		for _, stage := range s.config.Stages {
			result := stageSkeleton(stage, now)
			s.markDegraded(&result, stage, cfgErr.Message)
			summary.Results[stage.Key()] = result
		}
		return s.finish(ctx, summary, started, log)
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	for _, stage := range s.config.Stages {
		wg.Add(1)
		go func(stage models.ReminderStage) {
			defer wg.Done()
			result := s.runStage(ctx, stage, now, log)
			mu.Lock()
			summary.Results[stage.Key()] = result
			mu.Unlock()
		}(stage)
	}
	wg.Wait()

	return s.finish(ctx, summary, started, log)
}

func missingToken() *errors.StandardError {
	return errors.NewConfigurationMissingError("HubSpot access token")
}

func (s *Service) finish(ctx context.Context, summary *models.SweepSummary, started time.Time, log logger.Logger) *models.SweepSummary {
	for _, result := range summary.Results {
		summary.Totals.Sent += result.Sent
		summary.Totals.Failed += result.Failed
		summary.Totals.Skipped += result.Skipped
		if result.Degraded {
			summary.Degraded = true
		}
	}
	summary.Success = !summary.AllDegraded()

	elapsed := time.Since(started)
	metrics.SweepDuration.Observe(elapsed.Seconds())
	status := "ok"
	if summary.Degraded {
		status = "degraded"
	}
	s.obs.RecordSweep(ctx, elapsed, status)

	log.Info("Call reminder sweep completed", map[string]interface{}{
		"sent":       summary.Totals.Sent,
		"failed":     summary.Totals.Failed,
		"skipped":    summary.Totals.Skipped,
		"degraded":   summary.Degraded,
		"durationMs": elapsed.Milliseconds(),
	})
	return summary
}

func stageSkeleton(stage models.ReminderStage, now time.Time) models.StageResult {
	result := models.StageResult{
		Stage:    stage.Number,
		Offset:   stage.Offset,
		Unit:     stage.Unit,
		Template: stage.Template,
		Contacts: []string{},
	}
	if window, err := timewindow.For(now, stage.Offset, stage.Unit); err == nil {
		result.WindowStart = window.Start
		result.WindowEnd = window.End
	}
	return result
}

func (s *Service) markDegraded(result *models.StageResult, stage models.ReminderStage, reason string) {
	result.Degraded = true
	result.Error = reason
	metrics.ReminderStageDegraded.WithLabelValues(stage.Key()).Inc()
}

func (s *Service) runStage(ctx context.Context, stage models.ReminderStage, now time.Time, parent logger.Logger) models.StageResult {
	result := stageSkeleton(stage, now)
	log := parent.WithFields(map[string]interface{}{
		"stage":    stage.Key(),
		"template": stage.Template,
	})

	window, err := timewindow.For(now, stage.Offset, stage.Unit)
	if err != nil {
		log.Error("Cannot compute stage window", map[string]interface{}{"error": err})
		s.markDegraded(&result, stage, err.Error())
		return result
	}

	log.Info("Querying directory for stage", map[string]interface{}{
		"windowStart": window.Start.Format(time.RFC3339),
		"windowEnd":   window.End.Format(time.RFC3339),
	})

	found, err := s.directory.Search(ctx, StageQuery(window, s.config.StageCap))
	var contacts []models.Contact
	if found != nil {
		contacts = found.Contacts
		result.Truncated = found.Truncated
	}
	if err != nil {
		stdErr := errors.NewDirectoryRequestFailedError("search", err)
		log.Error("Directory search failed for stage", map[string]interface{}{
			"error":     err,
			"errorCode": string(stdErr.Code),
			"partial":   len(contacts),
		})
		s.markDegraded(&result, stage, stdErr.Details)
	}

	if len(contacts) > s.config.StageCap {
		result.Truncated = true
		contacts = contacts[:s.config.StageCap]
	}
	if result.Truncated {
		result.Dropped = droppedCount(found, len(contacts))
	}
	if result.Truncated {
		log.Warn("Stage hit the contact cap, extra contacts dropped", map[string]interface{}{
			"cap":     s.config.StageCap,
			"dropped": result.Dropped,
		})
	}

	result.Eligible = len(contacts)
	if len(contacts) == 0 {
		log.Info("No contacts due for stage", nil)
		return result
	}

	s.sendBatches(ctx, stage, contacts, &result, log)
	return result
}

// droppedCount is how many matching contacts the stage will not remind.
// The directory total wins over what was collected when it is larger.
func droppedCount(found *hubspot.SearchResult, kept int) int {
	collected := 0
	total := 0
	if found != nil {
		collected = len(found.Contacts)
		total = found.Total
	}
	if total < collected {
		total = collected
	}
	if total <= kept {
		return 0
	}
	return total - kept
}

// StageQuery selects qualified contacts without a scheduled call created inside window.
func StageQuery(window timewindow.Window, limit int) hubspot.SearchRequest {
	return hubspot.SearchRequest{
		FilterGroups: []hubspot.FilterGroup{{
			Filters: []hubspot.Filter{
				{PropertyName: "quiz_outcome", Operator: hubspot.OpEQ, Value: models.OutcomeQualified.DirectoryLabel()},
				{PropertyName: "call_status", Operator: hubspot.OpNEQ, Value: models.CallStatusScheduled},
				{PropertyName: "createdate", Operator: hubspot.OpGTE, Value: hubspot.MillisValue(window.Start)},
				{PropertyName: "createdate", Operator: hubspot.OpLT, Value: hubspot.MillisValue(window.End)},
			},
		}},
		Properties: hubspot.ContactFields,
		Limit:      hubspot.DefaultPageSize,
		MaxResults: limit,
	}
}

func (s *Service) sendBatches(ctx context.Context, stage models.ReminderStage, contacts []models.Contact, result *models.StageResult, log logger.Logger) {
	width := s.config.BatchWidth
	for start := 0; start < len(contacts); start += width {
		if err := ctx.Err(); err != nil {
			remaining := len(contacts) - start
			result.Dropped += remaining
			result.Error = fmt.Sprintf("sweep interrupted: %v", err)
			log.Warn("Sweep interrupted, remaining contacts not attempted", map[string]interface{}{
				"remaining": remaining,
			})
			return
		}

		end := start + width
		if end > len(contacts) {
			end = len(contacts)
		}
		batch := contacts[start:end]
		outcomes := make([]sendOutcome, len(batch))

		var wg sync.WaitGroup
		for i := range batch {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				outcomes[i] = s.sendOne(ctx, stage, batch[i], log)
			}(i)
		}
		wg.Wait()

		for i, outcome := range outcomes {
			switch outcome {
			case outcomeSent:
				result.Sent++
				result.Contacts = append(result.Contacts, batch[i].Email)
			case outcomeFailed:
				result.Failed++
			default:
				result.Skipped++
			}
		}
	}
}

func (s *Service) sendOne(ctx context.Context, stage models.ReminderStage, contact models.Contact, log logger.Logger) sendOutcome {
	if contact.Email == "" {
		log.Warn("Contact has no email, skipping", map[string]interface{}{"contactId": contact.ID})
		return outcomeSkipped
	}
	if contact.HasCallScheduled() {
		log.Info("Contact booked a call since the query, skipping", map[string]interface{}{"contactId": contact.ID})
		return outcomeSkipped
	}

	name := contact.FirstName
	if name == "" {
		name = FallbackName
	}

	if err := s.notifier.SendCallReminder(ctx, contact.Email, name, stage.Template); err != nil {
		metrics.RemindersFailed.WithLabelValues(stage.Key()).Inc()
		log.Error("Failed to send reminder", map[string]interface{}{
			"contactId": contact.ID,
			"email":     contact.Email,
			"error":     err,
		})
		return outcomeFailed
	}

	metrics.RemindersSent.WithLabelValues(stage.Key()).Inc()
	log.Debug("Reminder sent", map[string]interface{}{
		"contactId": contact.ID,
		"email":     contact.Email,
	})
	return outcomeSent
}
