// internal/machine/machine.go

// Package machine implements the onboarding stage machine. Decisions are
// pure: each operation inspects a record and returns what should change and
// what should be sent, without touching storage or the network itself.
package machine

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	apperrors "onboarding-pipeline/internal/common/errors"
	"onboarding-pipeline/internal/models"
	"onboarding-pipeline/internal/notify"
	"onboarding-pipeline/internal/store"
)

// Action labels for logging and metrics.
const (
	ActionIntake            = "intake"
	ActionVerifyEmail       = "verify_email"
	ActionConfirmPayment    = "confirm_payment"
	ActionConfirmScheduling = "confirm_scheduling"
)

// Outcome is the result class of a decision.
type Outcome string

const (
	OutcomeApplied  Outcome = "applied"
	OutcomeRejected Outcome = "rejected"
)

// VerificationLinkTTL is how long a verification link is described as valid.
// Expiry is advisory: the email names it, but a late click against a still
// pending token is accepted.
const VerificationLinkTTL = 24 * time.Hour

// Submission is the raw intake form payload.
type Submission struct {
	Email    string
	FullName string
	Country  string
	Phone    string
	Reason   string
}

// Notification describes an outbound message to be rendered and sent by the
// engine. Data feeds the template registry for Type.
type Notification struct {
	Type string
	To   string
	Data map[string]interface{}
}

// Decision is the output of one stage machine operation. When Outcome is
// Applied, Update carries the mutation to persist and Notification the single
// message owed for the advance. When Rejected, both are nil and Reason names
// the internal cause; the boundary renders a generic page regardless.
type Decision struct {
	Record       *models.ApplicantRecord
	Update       *store.RecordUpdate
	Notification *Notification
	Outcome      Outcome
	Reason       apperrors.ErrorCode
}

func rejected(rec *models.ApplicantRecord, reason apperrors.ErrorCode) Decision {
	return Decision{Record: rec, Outcome: OutcomeRejected, Reason: reason}
}

// Machine holds the configuration the decisions need: the public base URL
// embedded in links and the charge amount named on the payment page.
type Machine struct {
	baseURL       string
	paymentAmount int
	currency      string

	now      func() time.Time
	newToken func() string
}

func New(baseURL string, paymentAmount int, currency string) *Machine {
	return &Machine{
		baseURL:       baseURL,
		paymentAmount: paymentAmount,
		currency:      currency,
		now:           func() time.Time { return time.Now().UTC() },
		newToken:      func() string { return uuid.New().String() },
	}
}

// PaymentAmount is the configured charge named on the payment page.
func (m *Machine) PaymentAmount() int { return m.paymentAmount }

// Currency is the configured charge currency.
func (m *Machine) Currency() string { return m.currency }

// MinSchedulingTime is the earliest selectable slot on the scheduling form.
func (m *Machine) MinSchedulingTime() time.Time {
	return m.now().Add(24 * time.Hour)
}

// Intake validates a submission and produces the record to persist. A
// submission without an email is dropped: the caller logs the returned error
// and never surfaces it to the submitter.
func (m *Machine) Intake(sub Submission) (*models.ApplicantRecord, *apperrors.StandardError) {
	if models.NormalizeEmail(sub.Email) == "" {
		return nil, apperrors.NewValidationRejectedError("submission missing required email")
	}

	now := m.now()
	return &models.ApplicantRecord{
		Email:              sub.Email,
		FullName:           sub.FullName,
		Country:            sub.Country,
		Phone:              sub.Phone,
		Reason:             sub.Reason,
		VerificationToken:  m.newToken(),
		VerificationStatus: models.VerificationPending,
		VerificationSentAt: now,
		Stage:              models.StageNew,
		CreatedAt:          now,
	}, nil
}

// VerificationNotification builds the verification email for a persisted
// record. It is separate from Intake because the link needs the row position,
// which only exists after the store assigns one.
func (m *Machine) VerificationNotification(rec *models.ApplicantRecord) *Notification {
	return &Notification{
		Type: notify.TypeVerificationRequest,
		To:   rec.Email,
		Data: map[string]interface{}{
			"salutation":      notify.Salutation(rec.FullName),
			"verificationUrl": m.verificationURL(rec.VerificationToken, rec.Position),
		},
	}
}

// VerifyEmail consumes a verification token. The token must match the
// record's and the record must still be PENDING; both failures collapse into
// one rejection so a caller cannot learn which check tripped. Success marks
// the record VERIFIED, advances New to Ready, and owes the ready-for-payment
// email. A replay after success fails the PENDING check and mutates nothing.
func (m *Machine) VerifyEmail(rec *models.ApplicantRecord, token string) Decision {
	if token == "" || rec.VerificationToken != token || rec.VerificationStatus != models.VerificationPending {
		return rejected(rec, apperrors.ErrCodeInvalidOrExpiredToken)
	}
	if !rec.Stage.CanAdvanceTo(models.StageReady) {
		return rejected(rec, apperrors.ErrCodeInvalidOrExpiredToken)
	}

	return Decision{
		Record:  rec,
		Outcome: OutcomeApplied,
		Update: &store.RecordUpdate{
			VerificationStatus: store.StatusPtr(models.VerificationVerified),
			VerifiedAt:         store.TimePtr(m.now()),
			Stage:              store.StagePtr(models.StageReady),
		},
		Notification: &Notification{
			Type: notify.TypeReadyForPayment,
			To:   rec.Email,
			Data: map[string]interface{}{
				"salutation": notify.Salutation(rec.FullName),
				"paymentUrl": m.actionURL("payment", rec.Email),
			},
		},
	}
}

// ConfirmPayment records a completed payment. The caller resolves the record
// by first row-order match in stage Ready; this method double-checks the
// stage so a stale record can never advance twice. The PaymentID is minted
// here and written once.
func (m *Machine) ConfirmPayment(rec *models.ApplicantRecord) Decision {
	if rec.Stage != models.StageReady {
		return rejected(rec, apperrors.ErrCodeNoMatchingApplicant)
	}

	return Decision{
		Record:  rec,
		Outcome: OutcomeApplied,
		Update: &store.RecordUpdate{
			Stage:     store.StagePtr(models.StagePaid),
			PaymentID: store.StringPtr(fmt.Sprintf("PAY_%s", m.newToken())),
		},
		Notification: &Notification{
			Type: notify.TypePaymentConfirmed,
			To:   rec.Email,
			Data: map[string]interface{}{
				"salutation":    notify.Salutation(rec.FullName),
				"schedulingUrl": m.actionURL("schedule", rec.Email),
			},
		},
	}
}

// ConfirmScheduling records the chosen call time. The record must be in Paid;
// the datetime string is stored verbatim, exactly as submitted.
func (m *Machine) ConfirmScheduling(rec *models.ApplicantRecord, datetime string) Decision {
	if rec.Stage != models.StagePaid {
		return rejected(rec, apperrors.ErrCodeNoMatchingApplicant)
	}
	if datetime == "" {
		return rejected(rec, apperrors.ErrCodeNoMatchingApplicant)
	}

	return Decision{
		Record:  rec,
		Outcome: OutcomeApplied,
		Update: &store.RecordUpdate{
			Stage:         store.StagePtr(models.StageScheduled),
			ScheduledTime: store.StringPtr(datetime),
		},
		Notification: &Notification{
			Type: notify.TypeSchedulingConfirmed,
			To:   rec.Email,
			Data: map[string]interface{}{
				"salutation":    notify.Salutation(rec.FullName),
				"scheduledTime": datetime,
			},
		},
	}
}

// Link shapes match the notification templates applicants already know:
// ?verify=<token>&row=<pos> and ?action=<name>&email=<addr>.

func (m *Machine) verificationURL(token string, position int64) string {
	return fmt.Sprintf("%s/?verify=%s&row=%d", m.baseURL, url.QueryEscape(token), position)
}

func (m *Machine) actionURL(action, email string) string {
	return fmt.Sprintf("%s/?action=%s&email=%s", m.baseURL, action, url.QueryEscape(email))
}
