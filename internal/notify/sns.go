// internal/notify/sns.go
package notify

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	commonaws "onboarding-pipeline/internal/common/aws"
)

// SNSService is the slice of the SNS client the notifier needs; mocked in
// tests.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SMSNotifier publishes a message body to a phone number through AWS SNS.
// The subject is dropped; SMS carries body text only.
type SMSNotifier struct {
	client SNSService
}

func NewSMSNotifier(ctx context.Context, region string) (*SMSNotifier, error) {
	client, err := commonaws.NewSNSClient(ctx, region)
	if err != nil {
		return nil, err
	}
	return &SMSNotifier{client: client}, nil
}

// NewSMSNotifierWithClient injects an SNS client; used by tests.
func NewSMSNotifierWithClient(client SNSService) *SMSNotifier {
	return &SMSNotifier{client: client}
}

func (n *SMSNotifier) Send(ctx context.Context, to, _, body string) error {
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(body),
	})
	return err
}
