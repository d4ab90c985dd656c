package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"sarana/infras/otel/mocks"
	"sarana/infras/postgres"
	"sarana/internal/domains/notification/model"
	"sarana/internal/domains/notification/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConn(t *testing.T) (*postgres.Connection, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return &postgres.Connection{Read: conn, Write: conn}, mock
}

func TestNotificationRepository_InsertBulkTx(t *testing.T) {
	conn, mock := newConn(t)
	repo := repository.New(conn, mocks.NewOtel())

	now := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)
	events := []model.Event{
		{ID: "ev-1", BookingRequestID: "req-1", RecipientUserID: "member-1", Kind: model.KindRequestSubmitted, EmittedAt: now},
		{ID: "ev-2", BookingRequestID: "req-1", RecipientUserID: "mgr-1", Kind: model.KindRequestSubmitted, EmittedAt: now},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO notification_events (id, booking_request_id, recipient_user_id, kind, emitted_at, delivered_at, read_at, attempts) VALUES")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	tx, err := conn.Write.Beginx()
	require.NoError(t, err)

	require.NoError(t, repo.InsertBulkTx(context.Background(), tx, events))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_Undelivered(t *testing.T) {
	conn, mock := newConn(t)
	repo := repository.New(conn, mocks.NewOtel())

	cutoff := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)

	mock.ExpectPrepare(`WHERE \(notification_events.delivered_at IS NULL AND notification_events.emitted_at < \$1\)\s+ORDER BY emitted_at ASC LIMIT \$2`).
		ExpectQuery().
		WithArgs(cutoff, 100).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_request_id", "kind"}).AddRow("ev-1", "req-1", "request_approved"))

	got, err := repo.Undelivered(context.Background(), cutoff, 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.KindRequestApproved, got[0].Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkDelivered(t *testing.T) {
	conn, mock := newConn(t)
	repo := repository.New(conn, mocks.NewOtel())

	at := time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`UPDATE notification_events SET delivered_at = \$1\s+WHERE \(notification_events.id = \$2 AND notification_events.delivered_at IS NULL\)`).
		WithArgs(at, "ev-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkDelivered(context.Background(), "ev-1", at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_RecordAttempt(t *testing.T) {
	conn, mock := newConn(t)
	repo := repository.New(conn, mocks.NewOtel())

	mock.ExpectExec(regexp.QuoteMeta("UPDATE notification_events SET attempts = attempts + 1 WHERE id = $1")).
		WithArgs("ev-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RecordAttempt(context.Background(), "ev-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
