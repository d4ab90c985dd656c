package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"sarana/infras/otel/mocks"
	"sarana/infras/postgres"
	"sarana/internal/domains/catalog/model"
	"sarana/internal/domains/catalog/repository"
	"sarana/shared"

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

func TestUnitRepository_GetTxLocksRow(t *testing.T) {
	conn, mock := newConn(t)
	repo := repository.NewUnit(conn, mocks.NewOtel())

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "kind", "name", "code", "location", "capacity", "plate_number", "pic_id", "template_id", "under_repair", "status", "created_at", "modified_at", "created_by", "modified_by"}).
		AddRow("room-1", "room", "Aula", "AULA", "Lt. 2", 40, nil, nil, nil, false, "available", now, now, "admin", "admin")

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta("SELECT resource_units.id") + `.*FROM resource_units .* FOR UPDATE`).
		ExpectQuery().
		WithArgs("room-1").
		WillReturnRows(rows)
	mock.ExpectCommit()

	tx, err := conn.Write.Beginx()
	require.NoError(t, err)

	unit, err := repo.GetTx(context.Background(), tx, shared.FilterByID("room-1", model.FieldID, model.TableUnit))
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	assert.Equal(t, model.KindRoom, unit.Kind)
	require.NotNil(t, unit.Capacity)
	assert.Equal(t, 40, *unit.Capacity)
	assert.Nil(t, unit.PlateNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitRepository_UpdateTx(t *testing.T) {
	conn, mock := newConn(t)
	repo := repository.NewUnit(conn, mocks.NewOtel())

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE resource_units SET status = \$1\s+WHERE`).
		WithArgs("in_use", "room-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := conn.Write.Beginx()
	require.NoError(t, err)

	err = repo.UpdateTx(context.Background(), tx, map[string]any{model.FieldStatus: "in_use"}, shared.FilterByID("room-1", model.FieldID, model.TableUnit))
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
