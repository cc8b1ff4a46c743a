// internal/models/applicant.go
package models

import (
	"strings"
	"time"
)

// Stage is the applicant's coarse-grained position in the onboarding
// pipeline. It only ever advances forward: New -> Ready -> Paid -> Scheduled.
type Stage int

const (
	StageNew Stage = iota
	StageReady
	StagePaid
	StageScheduled
)

func (s Stage) String() string {
	switch s {
	case StageNew:
		return "New"
	case StageReady:
		return "Ready"
	case StagePaid:
		return "Paid"
	case StageScheduled:
		return "Scheduled"
	default:
		return "Unknown"
	}
}

// ParseStage maps the stored stage label back to the typed enum.
func ParseStage(s string) (Stage, bool) {
	switch s {
	case "New":
		return StageNew, true
	case "Ready":
		return StageReady, true
	case "Paid":
		return StagePaid, true
	case "Scheduled":
		return StageScheduled, true
	default:
		return StageNew, false
	}
}

// CanAdvanceTo reports whether moving to next is a single forward step.
// Transitions never skip a stage and never move backward.
func (s Stage) CanAdvanceTo(next Stage) bool {
	return next == s+1 && next <= StageScheduled
}

// VerificationStatus tracks email verification.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
)

// ApplicantRecord is one row in the record store, keyed by Position
// (surrogate identity) and Email (business identity, case-insensitive).
type ApplicantRecord struct {
	Position int64  `json:"position"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
	Reason   string `json:"reason"`

	VerificationToken  string             `json:"verificationToken"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	VerificationSentAt time.Time          `json:"verificationSentAt"`
	VerifiedAt         *time.Time         `json:"verifiedAt,omitempty"`

	Stage Stage `json:"stage"`

	// PaymentID and ScheduledTime are set exactly once, on entry to Paid and
	// Scheduled respectively, and never overwritten afterwards.
	PaymentID     string `json:"paymentId,omitempty"`
	ScheduledTime string `json:"scheduledTime,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// EmailMatches compares the record's email to the given address
// case-insensitively, the way the store treats business identity.
func (r *ApplicantRecord) EmailMatches(email string) bool {
	return strings.EqualFold(strings.TrimSpace(r.Email), strings.TrimSpace(email))
}

// NormalizeEmail lowercases and trims an address for comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
