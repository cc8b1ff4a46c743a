// internal/notify/ses_test.go
package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *mockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

func TestEmailNotifier_Send(t *testing.T) {
	var captured *ses.SendEmailInput
	mock := &mockSESService{
		SendEmailFunc: func(_ context.Context, params *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			captured = params
			return &ses.SendEmailOutput{}, nil
		},
	}

	notifier := NewEmailNotifierWithClient(mock, "noreply@lunartech.ai")
	err := notifier.Send(context.Background(), "ada@example.com", "Payment Confirmed", "Hello, Ada!")

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "noreply@lunartech.ai", *captured.Source)
	assert.Equal(t, []string{"ada@example.com"}, captured.Destination.ToAddresses)
	assert.Equal(t, "Payment Confirmed", *captured.Message.Subject.Data)
	assert.Equal(t, "Hello, Ada!", *captured.Message.Body.Text.Data)
}

func TestEmailNotifier_SendError(t *testing.T) {
	mock := &mockSESService{
		SendEmailFunc: func(_ context.Context, _ *ses.SendEmailInput, _ ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			return nil, errors.New("throttled")
		},
	}

	notifier := NewEmailNotifierWithClient(mock, "noreply@lunartech.ai")
	err := notifier.Send(context.Background(), "ada@example.com", "s", "b")

	assert.Error(t, err)
}
