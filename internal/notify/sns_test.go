// internal/notify/sns_test.go
package notify

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *mockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

func TestSMSNotifier_Send(t *testing.T) {
	var captured *sns.PublishInput
	mock := &mockSNSService{
		PublishFunc: func(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
			captured = params
			return &sns.PublishOutput{}, nil
		},
	}

	notifier := NewSMSNotifierWithClient(mock)
	err := notifier.Send(context.Background(), "+15551234567", "ignored subject", "Your onboarding call is scheduled")

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, "+15551234567", *captured.PhoneNumber)
	assert.Equal(t, "Your onboarding call is scheduled", *captured.Message)
}
