package callreminders

import (
	"context"
	"time"

	"lead-funnel/internal/common/hubspot"
	"lead-funnel/internal/common/logger"
	"lead-funnel/internal/common/observability"
)

// Directory is the part of the contact directory the sweep reads from.
type Directory interface {
	Configured() bool
	Search(ctx context.Context, req hubspot.SearchRequest) (*hubspot.SearchResult, error)
}

// Notifier delivers one templated reminder.
type Notifier interface {
	SendCallReminder(ctx context.Context, to, name string, stage int) error
}

type ServiceDependencies struct {
	Logger        logger.Logger
	Directory     Directory
	Notifier      Notifier
	Observability *observability.Observability
	Clock         func() time.Time
}

// sendOutcome is the per-contact result of one batch slot.
type sendOutcome int

const (
	outcomeSkipped sendOutcome = iota
	outcomeSent
	outcomeFailed
)
