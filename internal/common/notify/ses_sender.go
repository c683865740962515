package notify

import (
	"context"
	"fmt"

	commonaws "lead-funnel/internal/common/aws"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESSender delivers messages through Amazon SES.
type SESSender struct {
	client commonaws.SESAPI
}

func NewSESSender(client commonaws.SESAPI) *SESSender {
	return &SESSender{client: client}
}

func (s *SESSender) Send(ctx context.Context, msg Message) (string, error) {
	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")},
				Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(msg.From),
	})
	if err != nil {
		return "", fmt.Errorf("ses: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}
