// internal/notify/templates.go
package notify

import (
	"fmt"
	"strings"
)

// Template is a subject/body pair with {{placeholder}} slots.
type Template struct {
	Subject string
	Body    string
}

// Registry maps notification types to their templates.
type Registry map[string]Template

// DefaultRegistry carries the pipeline's four notifications. Link fields are
// provided by the caller; the 24h expiry mentioned in the verification body
// is advisory and not enforced server-side.
func DefaultRegistry() Registry {
	return Registry{
		TypeVerificationRequest: {
			Subject: "Please Verify Your Email - LunarTech Application",
			Body:    "Hello{{salutation}}!\n\nPlease verify your email by clicking below:\n{{verificationUrl}}\n\nThis link expires in 24h.",
		},
		TypeReadyForPayment: {
			Subject: "Ready for Payment - LunarTech Bootcamp",
			Body:    "Hello{{salutation}}!\n\nYour email is verified. Complete your payment: {{paymentUrl}}",
		},
		TypePaymentConfirmed: {
			Subject: "Payment Confirmed",
			Body:    "Hello{{salutation}}!\n\nPayment confirmed.\nSchedule your onboarding call: {{schedulingUrl}}",
		},
		TypeSchedulingConfirmed: {
			Subject: "Onboarding Scheduled",
			Body:    "Hello{{salutation}}!\n\nYour onboarding call is scheduled for {{scheduledTime}}",
		},
	}
}

// Render fills a template of the given type with data.
func (r Registry) Render(notificationType string, data map[string]interface{}) (subject, body string, err error) {
	tmpl, exists := r[notificationType]
	if !exists {
		return "", "", fmt.Errorf("template not found for type: %s", notificationType)
	}
	return renderTemplate(tmpl.Subject, data), renderTemplate(tmpl.Body, data), nil
}

// Salutation formats the optional ", <name>" greeting suffix.
func Salutation(fullName string) string {
	name := strings.TrimSpace(fullName)
	if name == "" {
		return ""
	}
	return ", " + name
}

// renderTemplate replaces known placeholders and strips unresolved ones.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if i, ok := v.(int); ok {
			value = fmt.Sprintf("%d", i)
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}
