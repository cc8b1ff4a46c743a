// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"onboarding-pipeline/internal/models"
)

// PostgresStore persists applicant records in a single table whose serial
// primary key gives the canonical row order.
type PostgresStore struct {
	db *sql.DB
}

const Schema = `
CREATE TABLE IF NOT EXISTS applicants (
	position            BIGSERIAL PRIMARY KEY,
	email               TEXT NOT NULL,
	full_name           TEXT NOT NULL DEFAULT '',
	country             TEXT NOT NULL DEFAULT '',
	phone               TEXT NOT NULL DEFAULT '',
	reason              TEXT NOT NULL DEFAULT '',
	verification_token  TEXT NOT NULL,
	verification_status TEXT NOT NULL DEFAULT 'PENDING',
	verification_sent_at TIMESTAMPTZ NOT NULL,
	verified_at         TIMESTAMPTZ,
	stage               TEXT NOT NULL DEFAULT 'New',
	payment_id          TEXT,
	scheduled_time      TEXT,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS applicants_email_idx ON applicants (lower(email));
`

const recordColumns = `position, email, full_name, country, phone, reason,
		verification_token, verification_status, verification_sent_at, verified_at,
		stage, payment_id, scheduled_time, created_at`

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, rec *models.ApplicantRecord) (int64, error) {
	var position int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO applicants (
			email, full_name, country, phone, reason,
			verification_token, verification_status, verification_sent_at,
			stage, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING position`,
		rec.Email,
		rec.FullName,
		rec.Country,
		rec.Phone,
		rec.Reason,
		rec.VerificationToken,
		string(rec.VerificationStatus),
		rec.VerificationSentAt,
		rec.Stage.String(),
		rec.CreatedAt,
	).Scan(&position)
	if err != nil {
		return 0, fmt.Errorf("%w: insert failed: %v", ErrStoreFailure, err)
	}
	return position, nil
}

func (s *PostgresStore) FindByPosition(ctx context.Context, position int64) (*models.ApplicantRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM applicants WHERE position = $1`, position)
	return scanRecord(row)
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.ApplicantRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM applicants WHERE lower(email) = $1
		ORDER BY position ASC LIMIT 1`, models.NormalizeEmail(email))
	return scanRecord(row)
}

func (s *PostgresStore) FindByEmailInStage(ctx context.Context, email string, stage models.Stage) (*models.ApplicantRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM applicants WHERE lower(email) = $1 AND stage = $2
		ORDER BY position ASC LIMIT 1`, models.NormalizeEmail(email), stage.String())
	return scanRecord(row)
}

func (s *PostgresStore) Update(ctx context.Context, position int64, upd RecordUpdate) error {
	sets := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)

	add := func(col string, val interface{}) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.VerificationStatus != nil {
		add("verification_status", string(*upd.VerificationStatus))
	}
	if upd.VerifiedAt != nil {
		add("verified_at", *upd.VerifiedAt)
	}
	if upd.Stage != nil {
		add("stage", upd.Stage.String())
	}
	if upd.PaymentID != nil {
		add("payment_id", *upd.PaymentID)
	}
	if upd.ScheduledTime != nil {
		add("scheduled_time", *upd.ScheduledTime)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, position)
	query := fmt.Sprintf("UPDATE applicants SET %s WHERE position = $%d",
		strings.Join(sets, ", "), len(args))

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: update failed: %v", ErrStoreFailure, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRecordNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*models.ApplicantRecord, error) {
	var (
		rec           models.ApplicantRecord
		status        string
		stage         string
		verifiedAt    sql.NullTime
		paymentID     sql.NullString
		scheduledTime sql.NullString
	)

	err := row.Scan(
		&rec.Position,
		&rec.Email,
		&rec.FullName,
		&rec.Country,
		&rec.Phone,
		&rec.Reason,
		&rec.VerificationToken,
		&status,
		&rec.VerificationSentAt,
		&verifiedAt,
		&stage,
		&paymentID,
		&scheduledTime,
		&rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scan failed: %v", ErrStoreFailure, err)
	}

	rec.VerificationStatus = models.VerificationStatus(status)
	if parsed, ok := models.ParseStage(stage); ok {
		rec.Stage = parsed
	}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		rec.VerifiedAt = &t
	}
	rec.PaymentID = paymentID.String
	rec.ScheduledTime = scheduledTime.String

	return &rec, nil
}
