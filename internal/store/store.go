// internal/store/store.go

// Package store provides the row-oriented record store behind the stage
// machine. Implementations must preserve insertion order so "first match in
// row order" lookups are deterministic.
package store

import (
	"context"
	"errors"
	"time"

	"onboarding-pipeline/internal/models"
)

var (
	ErrRecordNotFound = errors.New("RECORD_NOT_FOUND")
	ErrStoreFailure   = errors.New("STORE_FAILURE")
)

// RecordUpdate carries a partial mutation; nil fields are left untouched.
type RecordUpdate struct {
	VerificationStatus *models.VerificationStatus
	VerifiedAt         *time.Time
	Stage              *models.Stage
	PaymentID          *string
	ScheduledTime      *string
}

// RecordStore is the durable applicant table. Email matching is
// case-insensitive; row order is canonical insertion order.
type RecordStore interface {
	// Create appends a record and returns its row position.
	Create(ctx context.Context, rec *models.ApplicantRecord) (int64, error)

	// FindByPosition returns the record at the given row position.
	FindByPosition(ctx context.Context, position int64) (*models.ApplicantRecord, error)

	// FindByEmail returns the first record in row order whose email matches.
	FindByEmail(ctx context.Context, email string) (*models.ApplicantRecord, error)

	// FindByEmailInStage returns the first record in row order whose email
	// matches and whose stage is exactly the one required. Rows in any other
	// stage are not candidates, which makes a duplicate confirmation request
	// a no-match rejection rather than a double-apply.
	FindByEmailInStage(ctx context.Context, email string, stage models.Stage) (*models.ApplicantRecord, error)

	// Update applies a partial mutation to the record at position.
	Update(ctx context.Context, position int64, upd RecordUpdate) error
}

// Helpers for building RecordUpdate values without local temporaries.

func StatusPtr(s models.VerificationStatus) *models.VerificationStatus { return &s }

func StagePtr(s models.Stage) *models.Stage { return &s }

func StringPtr(s string) *string { return &s }

func TimePtr(t time.Time) *time.Time { return &t }
