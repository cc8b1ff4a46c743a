// internal/server/pages.go
package server

import (
	"fmt"
	"html"
	"time"
)

// The pages are deliberately plain HTML documents. Success pages confirm,
// failure pages stay generic; no internal reason code ever reaches a page.

const pageShell = `<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body>
<h1>%s</h1>
%s
</body>
</html>`

func renderPage(title, heading, content string) string {
	return fmt.Sprintf(pageShell, html.EscapeString(title), html.EscapeString(heading), content)
}

func thankYouPage() string {
	return renderPage("Thank You", "Thank you for applying!",
		"<p>Check your inbox for a verification email.</p>")
}

func verifiedPage() string {
	return renderPage("Email Verified", "Email Verified!",
		"<p>Your email has been verified. Watch your inbox for the next step.</p>")
}

func paymentPage(email string, amount int, currency string) string {
	content := fmt.Sprintf(`<p>The program fee is %d %s.</p>
<form method="GET" action="/">
<input type="hidden" name="action" value="confirm_payment">
<input type="hidden" name="email" value="%s">
<button type="submit">Pay %d %s</button>
</form>`,
		amount, html.EscapeString(currency),
		html.EscapeString(email),
		amount, html.EscapeString(currency))
	return renderPage("Payment", "Complete Your Payment", content)
}

func schedulePage(email string, minTime time.Time) string {
	content := fmt.Sprintf(`<p>Pick a time for your onboarding call.</p>
<form method="GET" action="/">
<input type="hidden" name="action" value="confirm_schedule">
<input type="hidden" name="email" value="%s">
<input type="datetime-local" name="datetime" min="%s" required>
<button type="submit">Schedule</button>
</form>`,
		html.EscapeString(email),
		minTime.Format("2006-01-02T15:04"))
	return renderPage("Schedule Your Call", "Schedule Your Onboarding Call", content)
}

func paymentSuccessPage() string {
	return renderPage("Payment Successful", "Payment Successful!",
		"<p>Your payment is confirmed. A scheduling link is on its way to your inbox.</p>")
}

func scheduledPage(datetime string) string {
	return renderPage("Scheduled", "Scheduled!",
		fmt.Sprintf("<p>Your onboarding call is booked for %s. See you then!</p>",
			html.EscapeString(datetime)))
}

func invalidRequestPage() string {
	return renderPage("Invalid Request", "Invalid request",
		"<p>This link is invalid or has expired.</p>")
}

func paymentFailedPage() string {
	return renderPage("Payment Failed", "Payment Failed",
		"<p>We could not process this payment request.</p>")
}

func schedulingFailedPage() string {
	return renderPage("Scheduling Failed", "Scheduling Failed",
		"<p>We could not schedule your call with this request.</p>")
}
