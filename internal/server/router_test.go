// internal/server/router_test.go
package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onboarding-pipeline/internal/machine"
	"onboarding-pipeline/internal/models"
	"onboarding-pipeline/internal/store"
)

type captureNotifier struct {
	sent []string
}

func (c *captureNotifier) Send(_ context.Context, to, subject, _ string) error {
	c.sent = append(c.sent, subject+" -> "+to)
	return nil
}

type fixture struct {
	ts    *httptest.Server
	store *store.MemoryStore
	email *captureNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := store.NewMemoryStore()
	email := &captureNotifier{}
	eng := machine.NewEngine(machine.EngineConfig{
		Machine: machine.New("https://onboarding.example.com", 1500, "USD"),
		Store:   st,
		Email:   email,
	})

	ts := httptest.NewServer(New(eng, nil).Handler())
	t.Cleanup(ts.Close)

	return &fixture{ts: ts, store: st, email: email}
}

func (f *fixture) submit(t *testing.T, email string) *models.ApplicantRecord {
	t.Helper()

	resp, err := http.PostForm(f.ts.URL+"/submit", url.Values{
		"email":    {email},
		"fullName": {"Ada Lovelace"},
		"country":  {"UK"},
		"phone":    {"+15551234567"},
		"reason":   {"career change"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	rec, err := f.store.FindByEmail(context.Background(), email)
	require.NoError(t, err)
	return rec
}

func (f *fixture) get(t *testing.T, query string) (int, string) {
	t.Helper()

	resp, err := http.Get(f.ts.URL + "/?" + query)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func (f *fixture) advanceToReady(t *testing.T, email string) *models.ApplicantRecord {
	t.Helper()

	rec := f.submit(t, email)
	status, body := f.get(t, "verify="+rec.VerificationToken+"&row=1")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "Email Verified!")

	rec, err := f.store.FindByPosition(context.Background(), rec.Position)
	require.NoError(t, err)
	return rec
}

func TestServer_Submit(t *testing.T) {
	f := newFixture(t)

	rec := f.submit(t, "ada@example.com")

	assert.Equal(t, models.StageNew, rec.Stage)
	assert.Equal(t, models.VerificationPending, rec.VerificationStatus)
	assert.NotEmpty(t, rec.VerificationToken)
	require.Len(t, f.email.sent, 1)
	assert.Contains(t, f.email.sent[0], "Please Verify Your Email")
}

func TestServer_SubmitWithoutEmail(t *testing.T) {
	f := newFixture(t)

	resp, err := http.PostForm(f.ts.URL+"/submit", url.Values{
		"fullName": {"No Email"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	// The submitter sees the same acknowledgement as a valid submission.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Thank you for applying!")
	assert.Equal(t, 0, f.store.Len())
	assert.Empty(t, f.email.sent)
}

func TestServer_Verify(t *testing.T) {
	f := newFixture(t)
	rec := f.submit(t, "ada@example.com")

	t.Run("valid token", func(t *testing.T) {
		status, body := f.get(t, "verify="+rec.VerificationToken+"&row=1")

		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "Email Verified!")

		updated, _ := f.store.FindByPosition(context.Background(), rec.Position)
		assert.Equal(t, models.StageReady, updated.Stage)
	})

	t.Run("replay renders generic invalid page", func(t *testing.T) {
		_, body := f.get(t, "verify="+rec.VerificationToken+"&row=1")
		assert.Contains(t, body, "Invalid request")
	})
}

func TestServer_VerifyBadRequests(t *testing.T) {
	f := newFixture(t)
	rec := f.submit(t, "ada@example.com")

	tests := []struct {
		name  string
		query string
	}{
		{"wrong token", "verify=not-the-token&row=1"},
		{"row out of range", "verify=" + rec.VerificationToken + "&row=99"},
		{"non-numeric row", "verify=" + rec.VerificationToken + "&row=abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := f.get(t, tt.query)

			assert.Equal(t, http.StatusOK, status)
			assert.Contains(t, body, "Invalid request")
		})
	}

	// None of the bad requests touched the record.
	updated, _ := f.store.FindByPosition(context.Background(), rec.Position)
	assert.Equal(t, models.StageNew, updated.Stage)
}

func TestServer_PaymentPage(t *testing.T) {
	f := newFixture(t)

	status, body := f.get(t, "action=payment&email=ada%40example.com")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "1500 USD")
	assert.Contains(t, body, `name="action" value="confirm_payment"`)
	assert.Contains(t, body, `value="ada@example.com"`)
}

func TestServer_ConfirmPayment(t *testing.T) {
	f := newFixture(t)
	rec := f.advanceToReady(t, "ada@example.com")

	t.Run("ready applicant pays once", func(t *testing.T) {
		status, body := f.get(t, "action=confirm_payment&email=ada%40example.com")

		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "Payment Successful!")

		updated, _ := f.store.FindByPosition(context.Background(), rec.Position)
		assert.Equal(t, models.StagePaid, updated.Stage)
		assert.True(t, strings.HasPrefix(updated.PaymentID, "PAY_"))
	})

	t.Run("second confirmation fails without double charge", func(t *testing.T) {
		before, _ := f.store.FindByPosition(context.Background(), rec.Position)

		_, body := f.get(t, "action=confirm_payment&email=ada%40example.com")
		assert.Contains(t, body, "Payment Failed")

		after, _ := f.store.FindByPosition(context.Background(), rec.Position)
		assert.Equal(t, before.PaymentID, after.PaymentID)
	})
}

func TestServer_SchedulePage(t *testing.T) {
	f := newFixture(t)

	status, body := f.get(t, "action=schedule&email=ada%40example.com")

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `name="action" value="confirm_schedule"`)
	assert.Contains(t, body, `type="datetime-local"`)
	assert.Contains(t, body, `min="`)
}

func TestServer_ConfirmScheduling(t *testing.T) {
	f := newFixture(t)
	rec := f.advanceToReady(t, "ada@example.com")
	_, body := f.get(t, "action=confirm_payment&email=ada%40example.com")
	require.Contains(t, body, "Payment Successful!")

	t.Run("paid applicant schedules", func(t *testing.T) {
		status, body := f.get(t, "action=confirm_schedule&email=ada%40example.com&datetime=2025-06-01T10%3A00")

		assert.Equal(t, http.StatusOK, status)
		assert.Contains(t, body, "Scheduled!")
		assert.Contains(t, body, "2025-06-01T10:00")

		updated, _ := f.store.FindByPosition(context.Background(), rec.Position)
		assert.Equal(t, models.StageScheduled, updated.Stage)
		assert.Equal(t, "2025-06-01T10:00", updated.ScheduledTime)
	})

	t.Run("replay fails", func(t *testing.T) {
		_, body := f.get(t, "action=confirm_schedule&email=ada%40example.com&datetime=2025-06-02T10%3A00")
		assert.Contains(t, body, "Scheduling Failed")

		updated, _ := f.store.FindByPosition(context.Background(), rec.Position)
		assert.Equal(t, "2025-06-01T10:00", updated.ScheduledTime)
	})
}

func TestServer_SchedulingBeforePaymentFails(t *testing.T) {
	f := newFixture(t)
	f.advanceToReady(t, "ada@example.com")

	_, body := f.get(t, "action=confirm_schedule&email=ada%40example.com&datetime=2025-06-01T10%3A00")
	assert.Contains(t, body, "Scheduling Failed")
}

func TestServer_BadRequests(t *testing.T) {
	f := newFixture(t)

	t.Run("unknown action", func(t *testing.T) {
		_, body := f.get(t, "action=refund&email=a%40x.com")
		assert.Contains(t, body, "Invalid request")
	})

	t.Run("empty query", func(t *testing.T) {
		_, body := f.get(t, "")
		assert.Contains(t, body, "Invalid request")
	})

	t.Run("POST to action endpoint", func(t *testing.T) {
		resp, err := http.Post(f.ts.URL+"/?action=payment", "text/plain", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("GET to submit endpoint", func(t *testing.T) {
		resp, err := http.Get(f.ts.URL + "/submit")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestServer_Health(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestServer_DuplicateApplicantsAdvanceInRowOrder(t *testing.T) {
	f := newFixture(t)

	first := f.submit(t, "ada@example.com")
	second := f.submit(t, "ada@example.com")
	require.NotEqual(t, first.Position, second.Position)

	_, body := f.get(t, "verify="+first.VerificationToken+"&row=1")
	require.Contains(t, body, "Email Verified!")
	_, body = f.get(t, "verify="+second.VerificationToken+"&row=2")
	require.Contains(t, body, "Email Verified!")

	// Each confirmation advances the earliest Ready row only.
	_, body = f.get(t, "action=confirm_payment&email=ada%40example.com")
	require.Contains(t, body, "Payment Successful!")

	rec1, _ := f.store.FindByPosition(context.Background(), 1)
	rec2, _ := f.store.FindByPosition(context.Background(), 2)
	assert.Equal(t, models.StagePaid, rec1.Stage)
	assert.Equal(t, models.StageReady, rec2.Stage)
}
