// internal/server/action.go
package server

import (
	"fmt"
	"net/http"
	"strconv"
)

// Action is the decoded form of one inbound request. Decoding happens once
// at the edge; every variant carries only the fields its handler needs, so
// nothing downstream re-reads the query string.
type Action interface {
	actionName() string
}

type VerifyAction struct {
	Row   int64
	Token string
}

type PaymentPageAction struct {
	Email string
}

type SchedulePageAction struct {
	Email string
}

type ConfirmPaymentAction struct {
	Email string
}

type ConfirmSchedulingAction struct {
	Email    string
	Datetime string
}

func (VerifyAction) actionName() string { return "verify_email" }

func (PaymentPageAction) actionName() string { return "payment_page" }

func (SchedulePageAction) actionName() string { return "schedule_page" }

func (ConfirmPaymentAction) actionName() string { return "confirm_payment" }

func (ConfirmSchedulingAction) actionName() string { return "confirm_scheduling" }

// decodeAction maps a GET query string onto one Action variant. The link
// shapes are the ones the notification emails hand out: verify=<token>&row=<n>
// for verification, action=<name>&email=<addr> for everything after.
func decodeAction(r *http.Request) (Action, error) {
	q := r.URL.Query()

	if token := q.Get("verify"); token != "" {
		row, err := strconv.ParseInt(q.Get("row"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad row reference: %v", err)
		}
		return VerifyAction{Row: row, Token: token}, nil
	}

	email := q.Get("email")

	switch action := q.Get("action"); action {
	case "payment":
		return PaymentPageAction{Email: email}, nil
	case "schedule":
		return SchedulePageAction{Email: email}, nil
	case "confirm_payment":
		return ConfirmPaymentAction{Email: email}, nil
	case "confirm_schedule":
		return ConfirmSchedulingAction{Email: email, Datetime: q.Get("datetime")}, nil
	case "":
		return nil, fmt.Errorf("no action in request")
	default:
		return nil, fmt.Errorf("unknown action: %s", action)
	}
}
