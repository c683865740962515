package database

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"lead-funnel/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*SubmissionStore, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSubmissionStore(db), mock
}

func TestInsertSubmission(t *testing.T) {
	store, mock := newStore(t)

	answers := models.AnswerSet{"q1": "A", "q2": "A", "q3": "B", "q4": "C", "q5": "A"}
	rec := models.NewSubmissionRecord("Ana", "ana@example.com", "3055550100", answers, models.OutcomeQualified)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO quiz_submissions")).
		WithArgs("Ana", "ana@example.com", "3055550100",
			"South Florida (Palm Beach, Broward, Miami-Dade)",
			"A committed relationship \u2014 I'm ready",
			"Mostly open, still processing past experiences",
			"Prefer minimal investment",
			"As soon as I find the right person",
			"qualified", "website").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.InsertSubmission(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertSubmission_Error(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectExec("INSERT INTO quiz_submissions").WillReturnError(errors.New("connection refused"))

	err := store.InsertSubmission(context.Background(), models.SubmissionRecord{Outcome: models.OutcomeWaitlist})
	assert.ErrorContains(t, err, "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertWaitlist(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectExec(regexp.QuoteMeta(insertWaitlistQuery)).
		WithArgs("a@b.co", "Outside the U.S.").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, store.InsertWaitlist(context.Background(), "a@b.co", "Outside the U.S."))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertWaitlist_Duplicate(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectExec(regexp.QuoteMeta(insertWaitlistQuery)).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := store.InsertWaitlist(context.Background(), "a@b.co", "Unknown")
	assert.ErrorIs(t, err, ErrDuplicateWaitlist)
}

func TestInsertWaitlist_OtherError(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectExec(regexp.QuoteMeta(insertWaitlistQuery)).WillReturnError(errors.New("timeout"))

	err := store.InsertWaitlist(context.Background(), "a@b.co", "Unknown")
	assert.False(t, errors.Is(err, ErrDuplicateWaitlist))
	assert.ErrorContains(t, err, "timeout")
}

func TestEnsureSchema(t *testing.T) {
	store, mock := newStore(t)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS quiz_submissions").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
