package notify

import (
	"context"

	"lead-funnel/internal/common/logger"

	"github.com/google/uuid"
)

// LogSender logs messages instead of delivering them. Used for dry runs and
// local development.
type LogSender struct {
	logger logger.Logger
}

func NewLogSender(log logger.Logger) *LogSender {
	return &LogSender{logger: log}
}

func (s *LogSender) Send(_ context.Context, msg Message) (string, error) {
	id := uuid.NewString()
	s.logger.Info("Email not delivered (log sender)", map[string]interface{}{
		"messageId": id,
		"to":        msg.To,
		"from":      msg.From,
		"subject":   msg.Subject,
	})
	return id, nil
}
