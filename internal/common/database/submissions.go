package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lead-funnel/internal/models"

	"github.com/lib/pq"
)

// ErrDuplicateWaitlist is returned when the email is already on the waitlist.
var ErrDuplicateWaitlist = errors.New("email already on waitlist")

const uniqueViolation = "23505"

const schema = `
CREATE TABLE IF NOT EXISTS quiz_submissions (
	id           BIGSERIAL PRIMARY KEY,
	name         TEXT NOT NULL,
	email        TEXT NOT NULL,
	phone        TEXT NOT NULL,
	location     TEXT,
	intent       TEXT,
	availability TEXT,
	investment   TEXT,
	timeline     TEXT,
	outcome      TEXT NOT NULL,
	lead_source  TEXT NOT NULL DEFAULT 'website',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_quiz_submissions_email ON quiz_submissions (email);
CREATE TABLE IF NOT EXISTS waitlist_subscribers (
	id         BIGSERIAL PRIMARY KEY,
	email      TEXT NOT NULL UNIQUE,
	city       TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

const (
	insertSubmissionQuery = `
		INSERT INTO quiz_submissions
			(name, email, phone, location, intent, availability, investment, timeline, outcome, lead_source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	insertWaitlistQuery = `INSERT INTO waitlist_subscribers (email, city) VALUES ($1, $2)`
)

// SubmissionStore persists quiz submissions and waitlist subscribers.
type SubmissionStore struct {
	db *sql.DB
}

func NewSubmissionStore(db *sql.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

// EnsureSchema creates the funnel tables if they do not exist.
func (s *SubmissionStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *SubmissionStore) InsertSubmission(ctx context.Context, rec models.SubmissionRecord) error {
	_, err := s.db.ExecContext(ctx, insertSubmissionQuery,
		rec.Name,
		rec.Email,
		rec.Phone,
		rec.Location,
		rec.Intent,
		rec.Availability,
		rec.Investment,
		rec.Timeline,
		string(rec.Outcome),
		rec.LeadSource,
	)
	if err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

// InsertWaitlist adds a subscriber; an existing email yields ErrDuplicateWaitlist.
func (s *SubmissionStore) InsertWaitlist(ctx context.Context, email, city string) error {
	_, err := s.db.ExecContext(ctx, insertWaitlistQuery, email, city)
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicateWaitlist
	}
	return fmt.Errorf("insert waitlist subscriber: %w", err)
}
