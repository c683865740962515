package quizsubmit

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"lead-funnel/internal/common/database"
	"lead-funnel/internal/common/errors"
	"lead-funnel/internal/common/hubspot"
	"lead-funnel/internal/common/logger"
	"lead-funnel/internal/common/metrics"
	"lead-funnel/internal/common/observability"
	"lead-funnel/internal/common/validation"
	"lead-funnel/internal/models"
	classifyoutcome "lead-funnel/internal/workers/quiz/classify-outcome"
)

// AlreadyScheduledMessage is shown to visitors who already booked a call.
const AlreadyScheduledMessage = "You already have a call scheduled with us!"

type Service struct {
	logger    logger.Logger
	limiter   RateLimiter
	botCheck  BotCheck
	directory Directory
	store     Store
	notifier  Notifier
	obs       *observability.Observability
}

func NewService(deps ServiceDependencies) *Service {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		logger:    log.WithFields(map[string]interface{}{"component": "quiz-submit"}),
		limiter:   deps.Limiter,
		botCheck:  deps.BotCheck,
		directory: deps.Directory,
		store:     deps.Store,
		notifier:  deps.Notifier,
		obs:       deps.Observability,
	}
}

// Submit runs the intake pipeline for one raw request body. Every returned
// error carries a *errors.StandardError; rejections that happen before the
// database write leave no side effects.
func (s *Service) Submit(ctx context.Context, clientIP string, body []byte) (*Result, error) {
	result, err := s.submit(ctx, clientIP, body)
	if err != nil {
		s.obs.RecordSubmission(ctx, resultLabel(err))
		return nil, err
	}
	s.obs.RecordSubmission(ctx, string(result.Outcome.Tag))
	return result, nil
}

func (s *Service) submit(ctx context.Context, clientIP string, body []byte) (*Result, error) {
	if s.limiter != nil {
		if decision := s.limiter.Allow(ctx, clientIP); !decision.Allowed {
			s.logger.Warn("Submission rate limited", map[string]interface{}{
				"ip":      clientIP,
				"resetIn": decision.ResetIn.String(),
			})
			return nil, errors.NewRateLimitedError(clientIP)
		}
	}

	if stdErr := validateSchema(body); stdErr != nil {
		return nil, stdErr
	}
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, rejectInput(msgInvalidBody, err.Error())
	}

	if s.botCheck != nil {
		if verdict := s.botCheck.Verify(ctx, req.RecaptchaToken); !verdict.Success {
			message := verdict.Error
			if message == "" {
				message = msgCaptchaFallback
			}
			captchaErr := errors.NewCaptchaFailedError(message)
			captchaErr.Message = message
			return nil, captchaErr
		}
	}

	if stdErr := validateFields(&req); stdErr != nil {
		s.logger.Info("Submission rejected", map[string]interface{}{
			"reason":  stdErr.Message,
			"details": stdErr.Details,
		})
		return nil, stdErr
	}

	name := validation.Sanitize(req.Name)
	email := validation.SanitizeEmail(req.Email)
	phone := validation.Sanitize(req.Phone)
	answers := answerSet(req.Answers)

	outcome := classifyoutcome.Classify(answers)
	log := s.logger.WithFields(map[string]interface{}{
		"email":   email,
		"outcome": string(outcome.Tag),
	})
	if req.Outcome != string(outcome.Tag) {
		log.Info("Client outcome differs from server classification", map[string]interface{}{
			"claimed": req.Outcome,
		})
	}

	if s.callScheduled(ctx, email, log) {
		log.Info("Contact already has a call scheduled", nil)
		return nil, fmt.Errorf("%w: %w", ErrAlreadyScheduled, errors.NewCallAlreadyScheduledError(email))
	}

	record := models.NewSubmissionRecord(name, email, phone, answers, outcome.Tag)
	if err := s.store.InsertSubmission(ctx, record); err != nil {
		log.Error("Failed to save submission", map[string]interface{}{"error": err})
		return nil, errors.NewDatabaseInsertFailedError(err)
	}
	metrics.Submissions.WithLabelValues(string(outcome.Tag)).Inc()

	result := &Result{Outcome: outcome}
	result.ContactSynced = s.syncContact(ctx, record, log)

	if outcome.Tag == models.OutcomeWaitlist {
		s.joinWaitlist(ctx, email, answers.Get(models.QuestionLocation), log)
		result.Waitlisted = true
	}

	log.Info("Quiz submission accepted", map[string]interface{}{
		"contactSynced": result.ContactSynced,
		"waitlisted":    result.Waitlisted,
	})
	return result, nil
}

// callScheduled treats a failed lookup as "not scheduled".
func (s *Service) callScheduled(ctx context.Context, email string, log logger.Logger) bool {
	if s.directory == nil || !s.directory.Configured() {
		return false
	}
	contact, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		log.Warn("Call status lookup failed, continuing", map[string]interface{}{
			"error":     err,
			"errorCode": string(errors.ErrCodeDirectoryRequestFailed),
		})
		return false
	}
	return contact.HasCallScheduled()
}

// syncContact upserts the directory record. Failures never fail the submission.
func (s *Service) syncContact(ctx context.Context, record models.SubmissionRecord, log logger.Logger) bool {
	if s.directory == nil || !s.directory.Configured() {
		log.Warn("HubSpot access token not configured, skipping contact sync", nil)
		return false
	}

	contact, err := s.directory.Upsert(ctx, hubspot.BuildContactProperties(record))
	if err != nil {
		code := errors.ErrCodeDirectoryRequestFailed
		if stderrors.Is(err, hubspot.ErrAlreadyExists) {
			code = errors.ErrCodeContactAlreadyExists
		}
		log.Error("Contact sync failed", map[string]interface{}{
			"error":     err,
			"errorCode": string(code),
		})
		return false
	}
	log.Info("Contact synced", map[string]interface{}{"contactId": contact.ID})
	return true
}

func (s *Service) joinWaitlist(ctx context.Context, email string, location models.AnswerCode, log logger.Logger) {
	city := models.WaitlistCity(location)

	err := s.store.InsertWaitlist(ctx, email, city)
	switch {
	case err == nil:
	case stderrors.Is(err, database.ErrDuplicateWaitlist):
		log.Debug("Email already on waitlist", nil)
	default:
		log.Warn("Failed to add waitlist subscriber", map[string]interface{}{"error": err})
	}

	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendWaitlistConfirmation(ctx, email, city); err != nil {
		log.Error("Failed to send waitlist confirmation", map[string]interface{}{
			"error":     err,
			"errorCode": string(errors.ErrCodeNotificationSendFailed),
		})
	}
}

func resultLabel(err error) string {
	if stderrors.Is(err, ErrAlreadyScheduled) {
		return "already_scheduled"
	}
	switch errors.AsStandardError(err).Code {
	case errors.ErrCodeRateLimited:
		return "rate_limited"
	case errors.ErrCodeCaptchaFailed:
		return "captcha_failed"
	case errors.ErrCodeValidationFailed:
		return "invalid"
	default:
		return "error"
	}
}
