// internal/store/memory.go
package store

import (
	"context"
	"sync"

	"onboarding-pipeline/internal/models"
)

// MemoryStore is an ordered in-memory record table. It is the test backend
// and doubles as a local-run store; positions start at 1 like spreadsheet
// data rows.
type MemoryStore struct {
	mu   sync.RWMutex
	rows []*models.ApplicantRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Create(_ context.Context, rec *models.ApplicantRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *rec
	cp.Position = int64(len(s.rows) + 1)
	s.rows = append(s.rows, &cp)
	return cp.Position, nil
}

func (s *MemoryStore) FindByPosition(_ context.Context, position int64) (*models.ApplicantRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if position < 1 || position > int64(len(s.rows)) {
		return nil, ErrRecordNotFound
	}
	cp := *s.rows[position-1]
	return &cp, nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*models.ApplicantRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.rows {
		if r.EmailMatches(email) {
			cp := *r
			return &cp, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (s *MemoryStore) FindByEmailInStage(_ context.Context, email string, stage models.Stage) (*models.ApplicantRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.rows {
		if r.EmailMatches(email) && r.Stage == stage {
			cp := *r
			return &cp, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (s *MemoryStore) Update(_ context.Context, position int64, upd RecordUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if position < 1 || position > int64(len(s.rows)) {
		return ErrRecordNotFound
	}
	r := s.rows[position-1]

	if upd.VerificationStatus != nil {
		r.VerificationStatus = *upd.VerificationStatus
	}
	if upd.VerifiedAt != nil {
		r.VerifiedAt = upd.VerifiedAt
	}
	if upd.Stage != nil {
		r.Stage = *upd.Stage
	}
	if upd.PaymentID != nil {
		r.PaymentID = *upd.PaymentID
	}
	if upd.ScheduledTime != nil {
		r.ScheduledTime = *upd.ScheduledTime
	}
	return nil
}

// Len reports the number of rows; used by tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}
