package quizsubmit

import (
	"context"
	"errors"

	"lead-funnel/internal/common/hubspot"
	"lead-funnel/internal/common/logger"
	"lead-funnel/internal/common/observability"
	"lead-funnel/internal/common/ratelimit"
	"lead-funnel/internal/common/recaptcha"
	"lead-funnel/internal/models"
)

// ErrAlreadyScheduled rejects a submission whose email already booked a call.
var ErrAlreadyScheduled = errors.New("call already scheduled")

// Request is the body of POST /api/quiz-submit.
type Request struct {
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone"`
	Answers        map[string]string `json:"answers"`
	Outcome        string            `json:"outcome"`
	RecaptchaToken string            `json:"recaptchaToken"`
}

// Result describes an accepted submission.
type Result struct {
	Outcome       models.Outcome `json:"outcome"`
	ContactSynced bool           `json:"contactSynced"`
	Waitlisted    bool           `json:"waitlisted"`
}

type RateLimiter interface {
	Allow(ctx context.Context, key string) ratelimit.Decision
}

type BotCheck interface {
	Verify(ctx context.Context, token string) recaptcha.Result
}

// Directory is the part of the contact directory intake writes to.
type Directory interface {
	Configured() bool
	FindByEmail(ctx context.Context, email string) (*models.Contact, error)
	Upsert(ctx context.Context, props hubspot.ContactProperties) (*models.Contact, error)
}

type Store interface {
	InsertSubmission(ctx context.Context, rec models.SubmissionRecord) error
	InsertWaitlist(ctx context.Context, email, city string) error
}

type Notifier interface {
	SendWaitlistConfirmation(ctx context.Context, to, city string) error
}

// ServiceDependencies wires intake to its collaborators. Limiter and BotCheck
// may be nil, which disables that gate.
type ServiceDependencies struct {
	Logger        logger.Logger
	Limiter       RateLimiter
	BotCheck      BotCheck
	Directory     Directory
	Store         Store
	Notifier      Notifier
	Observability *observability.Observability
}
