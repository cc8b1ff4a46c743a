// internal/notify/templates_test.go
package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_Render(t *testing.T) {
	reg := DefaultRegistry()

	tests := []struct {
		name             string
		notificationType string
		data             map[string]interface{}
		wantSubject      string
		wantInBody       []string
		wantErr          bool
	}{
		{
			name:             "verification request",
			notificationType: TypeVerificationRequest,
			data: map[string]interface{}{
				"salutation":      ", Ada",
				"verificationUrl": "https://onboarding.example.com/?verify=tok-1&row=3",
			},
			wantSubject: "Please Verify Your Email - LunarTech Application",
			wantInBody: []string{
				"Hello, Ada!",
				"https://onboarding.example.com/?verify=tok-1&row=3",
				"expires in 24h",
			},
		},
		{
			name:             "ready for payment",
			notificationType: TypeReadyForPayment,
			data: map[string]interface{}{
				"salutation": "",
				"paymentUrl": "https://onboarding.example.com/?action=payment&email=a%40x.com",
			},
			wantSubject: "Ready for Payment - LunarTech Bootcamp",
			wantInBody: []string{
				"Hello!",
				"action=payment",
			},
		},
		{
			name:             "payment confirmed",
			notificationType: TypePaymentConfirmed,
			data: map[string]interface{}{
				"salutation":    ", Ada",
				"schedulingUrl": "https://onboarding.example.com/?action=schedule&email=a%40x.com",
			},
			wantSubject: "Payment Confirmed",
			wantInBody:  []string{"Schedule your onboarding call", "action=schedule"},
		},
		{
			name:             "scheduling confirmed",
			notificationType: TypeSchedulingConfirmed,
			data: map[string]interface{}{
				"salutation":    ", Ada",
				"scheduledTime": "2025-06-01T10:00",
			},
			wantSubject: "Onboarding Scheduled",
			wantInBody:  []string{"scheduled for 2025-06-01T10:00"},
		},
		{
			name:             "unknown type",
			notificationType: "unknown",
			wantErr:          true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body, err := reg.Render(tt.notificationType, tt.data)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantSubject, subject)
			for _, want := range tt.wantInBody {
				assert.Contains(t, body, want)
			}
		})
	}
}

func TestRenderTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]interface{}
		expected string
	}{
		{
			name:     "simple replacement",
			template: "Hello {{name}}, row {{row}}.",
			data:     map[string]interface{}{"name": "Ada", "row": 7},
			expected: "Hello Ada, row 7.",
		},
		{
			name:     "missing placeholder removed",
			template: "Hello {{name}}, your {{missing}} is here.",
			data:     map[string]interface{}{"name": "Ada"},
			expected: "Hello Ada, your  is here.",
		},
		{
			name:     "no placeholders",
			template: "Static message.",
			data:     map[string]interface{}{},
			expected: "Static message.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, renderTemplate(tt.template, tt.data))
		})
	}
}

func TestSalutation(t *testing.T) {
	assert.Equal(t, ", Ada Lovelace", Salutation("Ada Lovelace"))
	assert.Equal(t, "", Salutation(""))
	assert.Equal(t, "", Salutation("   "))
}
