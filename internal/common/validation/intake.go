// internal/common/validation/intake.go

// Package validation checks intake form submissions field by field. Only a
// missing email is fatal; every other finding is advisory and gets logged by
// the caller, matching how the form tolerated sloppy input.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Fatal    bool              `json:"fatal"`
	Findings []ValidationError `json:"findings,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-\(\)]{10,}$`)
)

// CheckSubmission inspects the intake fields. Fatal is set only when the
// email is missing entirely; a malformed email or phone is reported but does
// not block the submission.
func CheckSubmission(email, fullName, phone string) *ValidationResult {
	findings := []ValidationError{}
	fatal := false

	if strings.TrimSpace(email) == "" {
		fatal = true
		findings = append(findings, ValidationError{
			Field:   "email",
			Message: "required field missing",
			Code:    "REQUIRED_FIELD_MISSING",
		})
	} else if !ValidateEmail(strings.TrimSpace(email)) {
		findings = append(findings, ValidationError{
			Field:   "email",
			Message: "value does not look like an email address",
			Code:    "PATTERN_MISMATCH",
		})
	}

	if strings.TrimSpace(fullName) == "" {
		findings = append(findings, ValidationError{
			Field:   "fullName",
			Message: "field is empty",
			Code:    "EMPTY_FIELD",
		})
	}

	if p := strings.TrimSpace(phone); p != "" && !ValidatePhone(p) {
		findings = append(findings, ValidationError{
			Field:   "phone",
			Message: "value does not look like a phone number",
			Code:    "PATTERN_MISMATCH",
		})
	}

	return &ValidationResult{
		Valid:    len(findings) == 0,
		Fatal:    fatal,
		Findings: findings,
	}
}

// GetErrorMessages returns a simple list of finding messages.
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Findings))
	for i, f := range vr.Findings {
		messages[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return messages
}

// HasErrors checks if validation has findings for a specific field.
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, f := range vr.Findings {
		if f.Field == field {
			return true
		}
	}
	return false
}

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePhone validates basic phone number format
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(phone)
}
