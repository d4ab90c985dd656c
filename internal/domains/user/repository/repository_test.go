package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"sarana/infras/otel/mocks"
	"sarana/infras/postgres"
	"sarana/internal/domains/user/repository"
	"sarana/shared"
	"sarana/shared/constant"

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

func TestUserRepository_ManagerIDs(t *testing.T) {
	conn, mock := newConn(t)
	repo := repository.New(conn, mocks.NewOtel())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM users WHERE role = $1 AND active = TRUE AND (privileges IS NULL OR $2 = ANY(privileges))")).
		WithArgs(constant.RoleManagement, constant.ModuleVehicle).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("mgr-1").AddRow("mgr-2"))

	ids, err := repo.ManagerIDs(context.Background(), constant.ModuleVehicle)

	require.NoError(t, err)
	assert.Equal(t, []string{"mgr-1", "mgr-2"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ManagerIDsError(t *testing.T) {
	conn, mock := newConn(t)
	repo := repository.New(conn, mocks.NewOtel())

	mock.ExpectQuery("SELECT id FROM users").WillReturnError(errors.New("connection reset"))

	_, err := repo.ManagerIDs(context.Background(), constant.ModuleRoom)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ruangan")
}

func TestUserRepository_Get(t *testing.T) {
	conn, mock := newConn(t)
	repo := repository.New(conn, mocks.NewOtel())

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "email", "password", "full_name", "role", "privileges", "last_login", "active", "created_at", "modified_at", "created_by", "modified_by"}).
		AddRow("u-1", "budi@gereja.id", "hash", "Budi", constant.RoleManagement, "{Ruangan,Transportasi}", nil, true, now, now, "system", "system")

	mock.ExpectPrepare(regexp.QuoteMeta("SELECT users.id") + `.*FROM users .*WHERE`).
		ExpectQuery().
		WithArgs("u-1").
		WillReturnRows(rows)

	user, err := repo.Get(context.Background(), shared.FilterByID("u-1", "id", "users"))

	require.NoError(t, err)
	assert.Equal(t, []string{constant.ModuleRoom, constant.ModuleVehicle}, []string(user.Privileges))
	assert.False(t, user.Principal().AllModules)
}
