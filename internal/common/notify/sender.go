package notify

import (
	"context"
	"net/mail"
	"regexp"
	"strings"

	"lead-funnel/internal/common/errors"
	"lead-funnel/internal/common/logger"
)

// TemplateSender renders funnel emails and hands them to a Sender.
type TemplateSender struct {
	sender     Sender
	from       string
	bookingURL string
	logger     logger.Logger
}

func NewTemplateSender(sender Sender, fromEmail, fromName, bookingURL string, log logger.Logger) *TemplateSender {
	from := fromEmail
	if fromName != "" && fromEmail != "" {
		from = (&mail.Address{Name: fromName, Address: fromEmail}).String()
	}
	return &TemplateSender{
		sender:     sender,
		from:       from,
		bookingURL: bookingURL,
		logger:     log.WithFields(map[string]interface{}{"component": "notify"}),
	}
}

func (s *TemplateSender) SendCallReminder(ctx context.Context, to, name string, stage int) error {
	if to == "" {
		return ErrNoRecipient
	}
	subject, html, err := RenderReminder(stage, name, s.bookingURL)
	if err != nil {
		return err
	}
	return s.deliver(ctx, Message{To: to, From: s.from, Subject: subject, HTML: html, Text: plainText(html)}, "call_reminder")
}

func (s *TemplateSender) SendWaitlistConfirmation(ctx context.Context, to, city string) error {
	if to == "" {
		return ErrNoRecipient
	}
	subject, html, err := RenderWaitlist(city)
	if err != nil {
		return err
	}
	return s.deliver(ctx, Message{To: to, From: s.from, Subject: subject, HTML: html, Text: plainText(html)}, "waitlist_confirmation")
}

func (s *TemplateSender) deliver(ctx context.Context, msg Message, kind string) error {
	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return errors.NewNotificationSendFailedError(kind, err)
	}
	s.logger.Debug("Email sent", map[string]interface{}{
		"kind":      kind,
		"to":        msg.To,
		"messageId": id,
	})
	return nil
}

var (
	tagPattern   = regexp.MustCompile(`<[^>]+>`)
	spacePattern = regexp.MustCompile(`[ \t]*\n[\s]*`)
)

// plainText derives the text/plain alternative from rendered HTML.
func plainText(html string) string {
	if i := strings.Index(html, "<body"); i >= 0 {
		html = html[i:]
	}
	text := tagPattern.ReplaceAllString(html, "\n")
	text = spacePattern.ReplaceAllString(text, "\n")
	return strings.TrimSpace(unescape(text))
}

var htmlEntities = strings.NewReplacer("&#39;", "'", "&amp;", "&", "&lt;", "<", "&gt;", ">", "&#34;", `"`, "&quot;", `"`)

func unescape(s string) string {
	return htmlEntities.Replace(s)
}
