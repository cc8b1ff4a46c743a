// internal/notify/ses.go
package notify

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	commonaws "onboarding-pipeline/internal/common/aws"
)

// SESService is the slice of the SES client the notifier needs; mocked in
// tests.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// EmailNotifier sends plain-text email through AWS SES.
type EmailNotifier struct {
	client    SESService
	fromEmail string
}

func NewEmailNotifier(ctx context.Context, region, fromEmail string) (*EmailNotifier, error) {
	client, err := commonaws.NewSESClient(ctx, region)
	if err != nil {
		return nil, err
	}
	return &EmailNotifier{
		client:    client,
		fromEmail: fromEmail,
	}, nil
}

// NewEmailNotifierWithClient injects an SES client; used by tests.
func NewEmailNotifierWithClient(client SESService, fromEmail string) *EmailNotifier {
	return &EmailNotifier{client: client, fromEmail: fromEmail}
}

func (n *EmailNotifier) Send(ctx context.Context, to, subject, body string) error {
	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.fromEmail),
	})
	return err
}
