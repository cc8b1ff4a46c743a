// internal/machine/engine.go
package machine

import (
	"context"
	"errors"
	"time"

	apperrors "onboarding-pipeline/internal/common/errors"
	"onboarding-pipeline/internal/common/logger"
	"onboarding-pipeline/internal/common/metrics"
	"onboarding-pipeline/internal/common/observability"
	"onboarding-pipeline/internal/models"
	"onboarding-pipeline/internal/notify"
	"onboarding-pipeline/internal/store"
)

// Engine runs each action as read, decide, write, notify. A failed write is
// never followed by a send; a failed send after a successful write is logged
// and counted but never retried and never rolled back.
type Engine struct {
	machine   *Machine
	store     store.RecordStore
	email     notify.Notifier
	sms       notify.Notifier
	templates notify.Registry
	guard     *notify.SendGuard
	logger    logger.Logger
	obs       *observability.Observability
}

// EngineConfig wires the engine's collaborators. SMS, Guard and
// Observability are optional.
type EngineConfig struct {
	Machine       *Machine
	Store         store.RecordStore
	Email         notify.Notifier
	SMS           notify.Notifier
	Templates     notify.Registry
	Guard         *notify.SendGuard
	Logger        logger.Logger
	Observability *observability.Observability
}

func NewEngine(cfg EngineConfig) *Engine {
	templates := cfg.Templates
	if templates == nil {
		templates = notify.DefaultRegistry()
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Engine{
		machine:   cfg.Machine,
		store:     cfg.Store,
		email:     cfg.Email,
		sms:       cfg.SMS,
		templates: templates,
		guard:     cfg.Guard,
		logger:    log,
		obs:       cfg.Observability,
	}
}

// Machine exposes the underlying stage machine for page rendering.
func (e *Engine) Machine() *Machine { return e.machine }

// IntakeResult reports what happened to a submission. The submitter never
// sees it; the router renders the same acknowledgement either way.
type IntakeResult struct {
	Position int64
	Dropped  bool
	Err      *apperrors.StandardError
}

// Intake persists a new submission and sends the verification email.
// Validation drops and store failures are recorded in the result and logged;
// they never propagate to the submitter.
func (e *Engine) Intake(ctx context.Context, sub Submission) IntakeResult {
	rec, verr := e.machine.Intake(sub)
	if verr != nil {
		metrics.IntakeDropped.Inc()
		e.recordTransition(ctx, ActionIntake, OutcomeRejected)
		e.logger.Warn("intake submission dropped", map[string]interface{}{
			"reason": string(verr.Code),
		})
		return IntakeResult{Dropped: true, Err: verr}
	}

	position, err := e.store.Create(ctx, rec)
	if err != nil {
		serr := apperrors.NewStoreFailureError(err)
		e.recordTransition(ctx, ActionIntake, OutcomeRejected)
		e.logger.WithError(err).Error("intake record create failed", map[string]interface{}{
			"email": models.NormalizeEmail(rec.Email),
		})
		return IntakeResult{Err: serr}
	}
	rec.Position = position

	e.recordTransition(ctx, ActionIntake, OutcomeApplied)
	e.send(ctx, e.machine.VerificationNotification(rec), position)

	return IntakeResult{Position: position}
}

// VerifyEmail resolves the row named in the verification link and runs the
// token check. An out-of-range row collapses into the same generic rejection
// as a bad token.
func (e *Engine) VerifyEmail(ctx context.Context, position int64, token string) (Decision, error) {
	rec, err := e.store.FindByPosition(ctx, position)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			d := rejected(nil, apperrors.ErrCodeInvalidOrExpiredToken)
			e.recordTransition(ctx, ActionVerifyEmail, OutcomeRejected)
			return d, nil
		}
		e.recordTransition(ctx, ActionVerifyEmail, OutcomeRejected)
		return Decision{}, apperrors.NewStoreFailureError(err)
	}

	return e.apply(ctx, ActionVerifyEmail, e.machine.VerifyEmail(rec, token))
}

// ConfirmPayment resolves the first row in row order matching the email in
// stage Ready and advances it to Paid. When no row is in Ready the request
// is rejected, which is what makes a duplicate confirmation harmless.
func (e *Engine) ConfirmPayment(ctx context.Context, email string) (Decision, error) {
	rec, err := e.findInStage(ctx, ActionConfirmPayment, email, models.StageReady)
	if rec == nil {
		return rejected(nil, apperrors.ErrCodeNoMatchingApplicant), err
	}

	return e.apply(ctx, ActionConfirmPayment, e.machine.ConfirmPayment(rec))
}

// ConfirmScheduling resolves the first row in row order matching the email
// in stage Paid and records the chosen time verbatim.
func (e *Engine) ConfirmScheduling(ctx context.Context, email, datetime string) (Decision, error) {
	rec, err := e.findInStage(ctx, ActionConfirmScheduling, email, models.StagePaid)
	if rec == nil {
		return rejected(nil, apperrors.ErrCodeNoMatchingApplicant), err
	}

	return e.apply(ctx, ActionConfirmScheduling, e.machine.ConfirmScheduling(rec, datetime))
}

func (e *Engine) findInStage(ctx context.Context, action, email string, stage models.Stage) (*models.ApplicantRecord, error) {
	rec, err := e.store.FindByEmailInStage(ctx, email, stage)
	if err != nil {
		e.recordTransition(ctx, action, OutcomeRejected)
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.NewStoreFailureError(err)
	}
	return rec, nil
}

// apply persists an Applied decision and sends its notification. Rejected
// decisions pass through untouched.
func (e *Engine) apply(ctx context.Context, action string, d Decision) (Decision, error) {
	if d.Outcome != OutcomeApplied {
		e.recordTransition(ctx, action, OutcomeRejected)
		return d, nil
	}

	if err := e.store.Update(ctx, d.Record.Position, *d.Update); err != nil {
		e.recordTransition(ctx, action, OutcomeRejected)
		e.logger.WithError(err).Error("record update failed", map[string]interface{}{
			"action":   action,
			"position": d.Record.Position,
		})
		return Decision{}, apperrors.NewStoreFailureError(err)
	}

	e.recordTransition(ctx, action, OutcomeApplied)
	e.send(ctx, d.Notification, d.Record.Position)

	return d, nil
}

// send renders and delivers one notification, deduplicated per stage advance
// by the guard. Failures are logged and counted only.
func (e *Engine) send(ctx context.Context, n *Notification, position int64) {
	if n == nil || e.email == nil {
		return
	}

	if e.guard != nil {
		ok, err := e.guard.Acquire(ctx, n.Type, position)
		if err != nil {
			e.logger.WithError(err).Warn("notification guard unavailable", map[string]interface{}{
				"type": n.Type,
			})
		}
		if !ok {
			metrics.NotificationsSent.WithLabelValues(n.Type, notify.StatusSkipped).Inc()
			return
		}
	}

	subject, body, err := e.templates.Render(n.Type, n.Data)
	if err != nil {
		metrics.NotificationsSent.WithLabelValues(n.Type, notify.StatusFailed).Inc()
		e.logger.WithError(err).Error("notification render failed", map[string]interface{}{
			"type": n.Type,
		})
		return
	}

	if err := e.email.Send(ctx, n.To, subject, body); err != nil {
		serr := apperrors.NewNotificationSendFailedError(err)
		metrics.NotificationsSent.WithLabelValues(n.Type, notify.StatusFailed).Inc()
		e.logger.WithError(serr).Error("notification send failed", map[string]interface{}{
			"type":     n.Type,
			"position": position,
		})
		if e.guard != nil {
			// Free the key so an operator-driven resend is not blocked.
			if rerr := e.guard.Release(ctx, n.Type, position); rerr != nil {
				e.logger.WithError(rerr).Warn("notification guard release failed", nil)
			}
		}
		return
	}

	metrics.NotificationsSent.WithLabelValues(n.Type, notify.StatusSent).Inc()

	// High-signal advances get an SMS copy when a phone is on file.
	if e.sms != nil && n.Type == notify.TypePaymentConfirmed {
		if phone := e.phoneFor(ctx, position); phone != "" {
			if err := e.sms.Send(ctx, phone, subject, body); err != nil {
				metrics.NotificationsSent.WithLabelValues("sms", notify.StatusFailed).Inc()
				e.logger.WithError(err).Warn("sms copy failed", map[string]interface{}{
					"position": position,
				})
			} else {
				metrics.NotificationsSent.WithLabelValues("sms", notify.StatusSent).Inc()
			}
		}
	}
}

func (e *Engine) phoneFor(ctx context.Context, position int64) string {
	rec, err := e.store.FindByPosition(ctx, position)
	if err != nil {
		return ""
	}
	return rec.Phone
}

func (e *Engine) recordTransition(ctx context.Context, action string, outcome Outcome) {
	metrics.StageTransitions.WithLabelValues(action, string(outcome)).Inc()
	if e.obs != nil {
		e.obs.RecordTransition(ctx, action, string(outcome))
	}
}

// ObserveDuration records how long one action took end to end.
func (e *Engine) ObserveDuration(ctx context.Context, action string, d time.Duration) {
	metrics.RequestDuration.WithLabelValues(action).Observe(d.Seconds())
	if e.obs != nil {
		e.obs.RecordTransitionDuration(ctx, d, action)
	}
}
