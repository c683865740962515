package notify

import (
	"context"
	"errors"
	"sync"
	"testing"

	commonerrors "lead-funnel/internal/common/errors"
	"lead-funnel/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mocks
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type recordingSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	r.sent = append(r.sent, msg)
	return "msg-1", nil
}

// ==========================
// Templates
// ==========================

func TestRenderReminder_AllTemplates(t *testing.T) {
	for n := 1; n <= 3; n++ {
		c, ok := ReminderTemplate(n)
		require.True(t, ok)

		subject, html, err := RenderReminder(n, "Ana", "https://ailoapp.com/book-call")
		require.NoError(t, err)

		assert.Equal(t, c.Subject, subject)
		assert.Contains(t, html, "Hi Ana,")
		assert.Contains(t, html, `href="https://ailoapp.com/book-call"`)
		assert.Contains(t, html, c.CTA)
	}
}

func TestRenderReminder_DistinctCopy(t *testing.T) {
	s1, _, _ := RenderReminder(1, "x", "u")
	s2, _, _ := RenderReminder(2, "x", "u")
	s3, _, _ := RenderReminder(3, "x", "u")
	assert.NotEqual(t, s1, s2)
	assert.NotEqual(t, s2, s3)
	assert.Equal(t, "Last chance: Let's find your match", s3)
}

func TestRenderReminder_UnknownTemplate(t *testing.T) {
	_, _, err := RenderReminder(4, "Ana", "u")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestRenderReminder_EscapesName(t *testing.T) {
	_, html, err := RenderReminder(1, "<script>", "u")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestRenderWaitlist(t *testing.T) {
	subject, html, err := RenderWaitlist("U.S. (outside Florida)")
	require.NoError(t, err)
	assert.Equal(t, WaitlistSubject, subject)
	assert.Contains(t, html, "waitlist for U.S. (outside Florida)")

	_, html, err = RenderWaitlist("")
	require.NoError(t, err)
	assert.Contains(t, html, "our waitlist and will notify you")
}

// ==========================
// TemplateSender
// ==========================

func TestTemplateSender_SendCallReminder(t *testing.T) {
	rec := &recordingSender{}
	s := NewTemplateSender(rec, "hello@ailoapp.com", "AILO", "https://ailoapp.com/book-call", logger.NewTestLogger(t))

	require.NoError(t, s.SendCallReminder(context.Background(), "ana@example.com", "Ana", 2))

	require.Len(t, rec.sent, 1)
	msg := rec.sent[0]
	assert.Equal(t, "ana@example.com", msg.To)
	assert.Equal(t, `"AILO" <hello@ailoapp.com>`, msg.From)
	assert.Equal(t, "Your perfect match could be waiting", msg.Subject)
	assert.Contains(t, msg.Text, "Hi Ana,")
	assert.NotContains(t, msg.Text, "<p")
}

func TestTemplateSender_Errors(t *testing.T) {
	throttled := errors.New("throttled")
	rec := &recordingSender{err: throttled}
	s := NewTemplateSender(rec, "hello@ailoapp.com", "", "u", logger.NewNoOpLogger())

	err := s.SendCallReminder(context.Background(), "a@b.co", "A", 1)
	assert.ErrorIs(t, err, throttled)
	stdErr := commonerrors.AsStandardError(err)
	assert.Equal(t, commonerrors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.Equal(t, "throttled", stdErr.Details)
	assert.True(t, stdErr.Retryable)

	assert.ErrorIs(t, s.SendCallReminder(context.Background(), "", "A", 1), ErrNoRecipient)
	assert.ErrorIs(t, s.SendCallReminder(context.Background(), "a@b.co", "A", 9), ErrUnknownTemplate)
	assert.ErrorIs(t, s.SendWaitlistConfirmation(context.Background(), "", "x"), ErrNoRecipient)
}

// ==========================
// Senders
// ==========================

func TestSESSender_Send(t *testing.T) {
	var captured *ses.SendEmailInput
	mock := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			captured = params
			return &ses.SendEmailOutput{MessageId: aws.String("ses-123")}, nil
		},
	}

	id, err := NewSESSender(mock).Send(context.Background(), Message{
		To: "a@b.co", From: "hello@ailoapp.com", Subject: "Hi", HTML: "<p>x</p>", Text: "x",
	})
	require.NoError(t, err)
	assert.Equal(t, "ses-123", id)

	require.NotNil(t, captured)
	assert.Equal(t, []string{"a@b.co"}, captured.Destination.ToAddresses)
	assert.Equal(t, "hello@ailoapp.com", aws.ToString(captured.Source))
	assert.Equal(t, "Hi", aws.ToString(captured.Message.Subject.Data))
	assert.Equal(t, "<p>x</p>", aws.ToString(captured.Message.Body.Html.Data))
}

func TestSESSender_Error(t *testing.T) {
	mock := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("MessageRejected")
		},
	}
	_, err := NewSESSender(mock).Send(context.Background(), Message{To: "a@b.co"})
	assert.ErrorContains(t, err, "MessageRejected")
}

func TestLogSender_ReturnsMessageID(t *testing.T) {
	id, err := NewLogSender(logger.NewTestLogger(t)).Send(context.Background(), Message{To: "a@b.co", Subject: "Hi"})
	require.NoError(t, err)
	_, parseErr := uuid.Parse(id)
	assert.NoError(t, parseErr)
}
