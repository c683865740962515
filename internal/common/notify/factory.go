package notify

import (
	"context"
	"fmt"

	commonaws "lead-funnel/internal/common/aws"
	"lead-funnel/internal/common/config"
	"lead-funnel/internal/common/logger"
)

const (
	ProviderSES = "ses"
	ProviderLog = "log"
)

// NewFromConfig builds the funnel notifier for the configured provider.
// dryRun forces the log sender regardless of provider.
func NewFromConfig(ctx context.Context, cfg *config.Config, dryRun bool, log logger.Logger) (*TemplateSender, error) {
	email := cfg.Notifications.Email

	provider := email.Provider
	if dryRun {
		provider = ProviderLog
	}

	var sender Sender
	switch provider {
	case ProviderSES:
		client, err := commonaws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create SES client: %w", err)
		}
		sender = NewSESSender(client)
	case ProviderLog:
		sender = NewLogSender(log)
	default:
		return nil, fmt.Errorf("unknown email provider %q", email.Provider)
	}

	return NewTemplateSender(sender, email.FromEmail, email.FromName, cfg.Reminders.BookingURL, log), nil
}
