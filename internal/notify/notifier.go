// internal/notify/notifier.go

// Package notify delivers applicant-facing notifications. Send failures are
// returned to the caller so the advance-then-notify ordering stays auditable;
// nothing in here retries or rolls back.
package notify

import "context"

// Notification template types, one per stage advance plus intake.
const (
	TypeVerificationRequest = "verification_request"
	TypeReadyForPayment     = "ready_for_payment"
	TypePaymentConfirmed    = "payment_confirmed"
	TypeSchedulingConfirmed = "scheduling_confirmed"
)

// Statuses recorded on the notification metrics.
const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Notifier sends one templated message to one address.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NopNotifier discards messages; used when email delivery is disabled.
type NopNotifier struct{}

func (NopNotifier) Send(_ context.Context, _, _, _ string) error { return nil }
