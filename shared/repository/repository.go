// Package repository holds the generic sqlx-backed table access every domain repository embeds.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"sarana/infras/otel"
	"sarana/infras/postgres"
	"sarana/shared/constant"
	"sarana/shared/dto"
	"sarana/shared/logger"

	"github.com/jmoiron/sqlx"
)

var errRequiredFilter = errors.New("required filter")

const setArgPrefix = "set_"

// execer and queryer are satisfied by both *sqlx.DB and *sqlx.Tx.
type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

type queryer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

type Repository[T any] struct {
	db       *postgres.Connection
	otel     otel.Otel
	table    string
	entity   string
	primary  string
	join     string
	fields   []field
	writable []string
	sortable map[string]struct{}
}

// NewRepository reflects T's db tags into the column list. Fields tagged with another table
// are read through the join returned by T's GetJoinQuery method and never written.
func NewRepository[T any](entity, table, primary string, conn *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	fields := fieldsOf(table, reflect.TypeOf(zero))

	repo := Repository[T]{
		db:       conn,
		otel:     otl,
		table:    table,
		entity:   entity,
		primary:  primary,
		join:     joinOf(zero),
		fields:   fields,
		sortable: map[string]struct{}{},
	}

	for _, f := range fields {
		if f.table == table {
			repo.writable = append(repo.writable, f.alias())
		}

		repo.sortable[f.qualified()] = struct{}{}
		repo.sortable[f.alias()] = struct{}{}
	}

	return repo
}

func joinOf(model any) string {
	joiner, ok := model.(interface{ GetJoinQuery() string })
	if !ok {
		return ""
	}

	return joiner.GetJoinQuery()
}

func (repo *Repository[T]) scope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, op))
}

func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, err)
}

func (repo *Repository[T]) insertQuery() string {
	placeholders := make([]string, len(repo.writable))
	for i, col := range repo.writable {
		placeholders[i] = ":" + col
	}

	return statement("INSERT INTO", repo.table,
		"("+strings.Join(repo.writable, ", ")+")",
		"VALUES ("+strings.Join(placeholders, ", ")+")")
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	ctx, scope := repo.scope(ctx, "Insert")
	defer scope.End()

	return repo.exec(ctx, scope, repo.db.Write, "insert data", repo.insertQuery(), model)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, tx *sqlx.Tx, model T) error {
	ctx, scope := repo.scope(ctx, "InsertTx")
	defer scope.End()

	return repo.exec(ctx, scope, tx, "insert data", repo.insertQuery(), model)
}

// InsertBulkTx writes all models with a single multi-row INSERT. An empty slice is a no-op.
func (repo *Repository[T]) InsertBulkTx(ctx context.Context, tx *sqlx.Tx, models []T) error {
	if len(models) == 0 {
		return nil
	}

	ctx, scope := repo.scope(ctx, "InsertBulkTx")
	defer scope.End()

	scope.SetAttribute("rows", len(models))

	return repo.exec(ctx, scope, tx, "bulk insert data", repo.insertQuery(), models)
}

func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "Get")
	defer scope.End()

	return repo.get(ctx, scope, repo.db.Read, filter, false, columns)
}

// GetTx reads inside tx and, for single-table models, locks the matched row until the
// transaction ends.
func (repo *Repository[T]) GetTx(ctx context.Context, tx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "GetTx")
	defer scope.End()

	return repo.get(ctx, scope, tx, filter, repo.join == "", columns)
}

// get returns the zero T when nothing matches.
func (repo *Repository[T]) get(ctx context.Context, scope otel.Scope, q queryer, filter dto.FilterGroup, lock bool, columns []string) (T, error) {
	var model T

	where, args := whereClause(filter)

	lockClause := ""
	if lock {
		lockClause = "FOR UPDATE"
	}

	query := statement("SELECT", repo.selectList(columns), "FROM", repo.table, repo.join, where, lockClause)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := q.PrepareNamedContext(ctx, query)
	if err != nil {
		return model, repo.fail(scope, "prepare statement", err)
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, &model, args)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, "get data", err)
	}

	return model, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAll")
	defer scope.End()

	return repo.getAll(ctx, scope, repo.db.Read, params, filter, columns)
}

func (repo *Repository[T]) GetAllTx(ctx context.Context, tx *sqlx.Tx, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAllTx")
	defer scope.End()

	return repo.getAll(ctx, scope, tx, params, filter, columns)
}

func (repo *Repository[T]) getAll(ctx context.Context, scope otel.Scope, q queryer, params dto.QueryParams, filter dto.FilterGroup, columns []string) ([]T, error) {
	where, args := whereClause(filter)

	query := statement("SELECT", repo.selectList(columns), "FROM", repo.table, repo.join, where,
		repo.orderBy(params), pagination(params, args))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	models := []T{}

	stmt, err := q.PrepareNamedContext(ctx, query)
	if err != nil {
		return models, repo.fail(scope, "prepare statement", err)
	}
	defer stmt.Close()

	if err = stmt.SelectContext(ctx, &models, args); err != nil {
		return models, repo.fail(scope, "get all data", err)
	}

	return models, nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, "Exist")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	exist := false
	query := "SELECT EXISTS(" + statement("SELECT 1 FROM", repo.table, where) + ")"

	if err := repo.scalar(ctx, scope, query, args, &exist); err != nil {
		return false, err
	}

	return exist, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	where, args := whereClause(filter)

	count := 0
	query := statement(fmt.Sprintf("SELECT COUNT(%s.%s) FROM", repo.table, repo.primary), repo.table, repo.join, where)

	if err := repo.scalar(ctx, scope, query, args, &count); err != nil {
		return 0, err
	}

	return count, nil
}

func (repo *Repository[T]) scalar(ctx context.Context, scope otel.Scope, query string, args map[string]any, dest any) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return repo.fail(scope, "prepare statement", err)
	}
	defer stmt.Close()

	if err = stmt.GetContext(ctx, dest, args); err != nil {
		return repo.fail(scope, "read data", err)
	}

	return nil
}

func (repo *Repository[T]) Update(ctx context.Context, values map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "Update")
	defer scope.End()

	return repo.update(ctx, scope, repo.db.Write, values, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, tx *sqlx.Tx, values map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "UpdateTx")
	defer scope.End()

	return repo.update(ctx, scope, tx, values, filter)
}

// update binds new values under their own names so a column can be both set and filtered on.
func (repo *Repository[T]) update(ctx context.Context, scope otel.Scope, exec execer, values map[string]any, filter dto.FilterGroup) error {
	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	columns := slices.Sorted(maps.Keys(values))
	assignments := make([]string, len(columns))

	for i, col := range columns {
		assignments[i] = fmt.Sprintf("%s = :%s%s", col, setArgPrefix, col)
		args[setArgPrefix+col] = values[col]
	}

	query := statement("UPDATE", repo.table, "SET", strings.Join(assignments, ", "), where)

	return repo.exec(ctx, scope, exec, "update data", query, args)
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "Delete")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	return repo.exec(ctx, scope, repo.db.Write, "delete data", statement("DELETE FROM", repo.table, where), args)
}

func (repo *Repository[T]) exec(ctx context.Context, scope otel.Scope, exec execer, action, query string, arg any) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.NamedExecContext(ctx, query, arg); err != nil {
		return repo.fail(scope, action, err)
	}

	return nil
}

// selectList renders the columns to read. Requested names are matched against the db tag,
// so joined columns are asked for by their alias.
func (repo *Repository[T]) selectList(columns []string) string {
	list := make([]string, 0, len(repo.fields))

	for _, f := range repo.fields {
		if len(columns) > 0 && !slices.Contains(columns, f.alias()) && !slices.Contains(columns, f.name) {
			continue
		}

		list = append(list, f.selector())
	}

	return strings.Join(list, ", ")
}

// orderBy drops any sort column the model does not map, so a request value never reaches SQL.
func (repo *Repository[T]) orderBy(params dto.QueryParams) string {
	if params.SortBy == "" || params.SortDir == "" {
		return ""
	}

	if _, ok := repo.sortable[params.SortBy]; !ok {
		return ""
	}

	return fmt.Sprintf("ORDER BY %s %s", params.SortBy, params.SortDir)
}

func pagination(params dto.QueryParams, args map[string]any) string {
	if params.Limit <= 0 {
		return ""
	}

	args["limit"] = params.Limit

	if params.Page <= 0 {
		return "LIMIT :limit"
	}

	args["offset"] = (params.Page - 1) * params.Limit

	return "LIMIT :limit OFFSET :offset"
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return "WHERE " + where, args
}

func statement(parts ...string) string {
	return strings.Join(slices.DeleteFunc(parts, func(part string) bool { return part == "" }), " ")
}
