// Package notify renders and delivers funnel emails.
package notify

import (
	"context"
	"errors"
)

// Notifier is the outbound notification boundary used by the funnel.
type Notifier interface {
	SendCallReminder(ctx context.Context, to, name string, stage int) error
	SendWaitlistConfirmation(ctx context.Context, to, city string) error
}

// Message is one rendered email.
type Message struct {
	To      string
	From    string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a rendered message and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

var (
	ErrUnknownTemplate = errors.New("notify: unknown reminder template")
	ErrNoRecipient     = errors.New("notify: recipient address is empty")
)
