// internal/server/router.go

// Package server is the HTTP edge of the onboarding pipeline. It decodes
// each request into an Action, hands it to the engine, and renders an HTML
// page. Rejections always render generic pages.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"onboarding-pipeline/internal/common/logger"
	"onboarding-pipeline/internal/common/validation"
	"onboarding-pipeline/internal/machine"
)

type Server struct {
	engine *machine.Engine
	logger logger.Logger
}

func New(engine *machine.Engine, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Server{engine: engine, logger: log}
}

// Handler builds the route table: GET / for every emailed link and page
// form, POST /submit for the intake form, /health for probes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleAction)
	mux.HandleFunc("/submit", s.handleSubmit)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	action, err := decodeAction(r)
	if err != nil {
		s.logger.Debug("request decode failed", map[string]interface{}{
			"error": err.Error(),
		})
		s.renderHTML(w, http.StatusOK, invalidRequestPage())
		return
	}

	start := time.Now()
	defer func() {
		s.engine.ObserveDuration(r.Context(), action.actionName(), time.Since(start))
	}()

	switch a := action.(type) {
	case VerifyAction:
		s.handleVerify(w, r, a)
	case PaymentPageAction:
		s.handlePaymentPage(w, a)
	case SchedulePageAction:
		s.handleSchedulePage(w, a)
	case ConfirmPaymentAction:
		s.handleConfirmPayment(w, r, a)
	case ConfirmSchedulingAction:
		s.handleConfirmScheduling(w, r, a)
	}
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request, a VerifyAction) {
	d, err := s.engine.VerifyEmail(r.Context(), a.Row, a.Token)
	if err != nil {
		s.logger.WithError(err).Error("verification failed", map[string]interface{}{
			"row": a.Row,
		})
		s.renderHTML(w, http.StatusOK, invalidRequestPage())
		return
	}
	if d.Outcome != machine.OutcomeApplied {
		s.renderHTML(w, http.StatusOK, invalidRequestPage())
		return
	}
	s.renderHTML(w, http.StatusOK, verifiedPage())
}

// handlePaymentPage renders the payment page for any email, without a store
// lookup. Possession of the link is the only gate; the confirm step does
// the real stage check.
func (s *Server) handlePaymentPage(w http.ResponseWriter, a PaymentPageAction) {
	m := s.engine.Machine()
	s.renderHTML(w, http.StatusOK, paymentPage(a.Email, m.PaymentAmount(), m.Currency()))
}

func (s *Server) handleSchedulePage(w http.ResponseWriter, a SchedulePageAction) {
	s.renderHTML(w, http.StatusOK, schedulePage(a.Email, s.engine.Machine().MinSchedulingTime()))
}

func (s *Server) handleConfirmPayment(w http.ResponseWriter, r *http.Request, a ConfirmPaymentAction) {
	d, err := s.engine.ConfirmPayment(r.Context(), a.Email)
	if err != nil {
		s.logger.WithError(err).Error("payment confirmation failed", nil)
		s.renderHTML(w, http.StatusOK, paymentFailedPage())
		return
	}
	if d.Outcome != machine.OutcomeApplied {
		s.renderHTML(w, http.StatusOK, paymentFailedPage())
		return
	}
	s.renderHTML(w, http.StatusOK, paymentSuccessPage())
}

func (s *Server) handleConfirmScheduling(w http.ResponseWriter, r *http.Request, a ConfirmSchedulingAction) {
	d, err := s.engine.ConfirmScheduling(r.Context(), a.Email, a.Datetime)
	if err != nil {
		s.logger.WithError(err).Error("scheduling confirmation failed", nil)
		s.renderHTML(w, http.StatusOK, schedulingFailedPage())
		return
	}
	if d.Outcome != machine.OutcomeApplied {
		s.renderHTML(w, http.StatusOK, schedulingFailedPage())
		return
	}
	s.renderHTML(w, http.StatusOK, scheduledPage(a.Datetime))
}

// handleSubmit takes the intake form. The submitter always gets the same
// acknowledgement; drops and store failures stay server-side.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderHTML(w, http.StatusOK, thankYouPage())
		return
	}

	sub := machine.Submission{
		Email:    r.PostFormValue("email"),
		FullName: r.PostFormValue("fullName"),
		Country:  r.PostFormValue("country"),
		Phone:    r.PostFormValue("phone"),
		Reason:   r.PostFormValue("reason"),
	}

	if check := validation.CheckSubmission(sub.Email, sub.FullName, sub.Phone); !check.Valid {
		s.logger.Info("intake validation findings", map[string]interface{}{
			"findings": check.GetErrorMessages(),
			"fatal":    check.Fatal,
		})
	}

	start := time.Now()
	s.engine.Intake(r.Context(), sub)
	s.engine.ObserveDuration(r.Context(), machine.ActionIntake, time.Since(start))

	s.renderHTML(w, http.StatusOK, thankYouPage())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) renderHTML(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		s.logger.WithError(err).Warn("response write failed", nil)
	}
}
