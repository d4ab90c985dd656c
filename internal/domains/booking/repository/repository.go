package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"sarana/infras/otel"
	"sarana/infras/postgres"
	"sarana/internal/domains/booking/conflict"
	"sarana/internal/domains/booking/model"
	catalogModel "sarana/internal/domains/catalog/model"
	"sarana/shared/constant"
	gDto "sarana/shared/dto"
	"sarana/shared/logger"
	gRepo "sarana/shared/repository"

	"github.com/jmoiron/sqlx"
)

const advisoryLockQuery = "SELECT pg_advisory_xact_lock(hashtext($1))"

type Booking interface {
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Request) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Request, error)
	GetTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Request, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Request, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)

	GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.RequestDetail, error)
	GetAllDetail(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.RequestDetail, error)
	CountDetail(ctx context.Context, filter gDto.FilterGroup) (int, error)

	LockResourceTx(ctx context.Context, tx *sqlx.Tx, resourceID string) error
	ActiveForResourceTx(ctx context.Context, tx *sqlx.Tx, resourceID string, statuses ...model.Status) ([]conflict.Booking, error)
	ApprovedWindowsTx(ctx context.Context, tx *sqlx.Tx, resourceID string) ([]catalogModel.Window, error)
	HasActive(ctx context.Context, resourceID string) (bool, error)
	Lapsed(ctx context.Context, now time.Time, limit int) ([]model.Request, error)
	Schedule(ctx context.Context, resourceID string, from, to time.Time) ([]model.Request, error)
}

type bookingRepositoryImpl struct {
	gRepo.Repository[model.Request]
	detail gRepo.Repository[model.RequestDetail]
	otel   otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &bookingRepositoryImpl{
		Repository: gRepo.NewRepository[model.Request](model.EntityName, model.TableName, model.FieldID, db, otel),
		detail:     gRepo.NewRepository[model.RequestDetail](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *bookingRepositoryImpl) GetDetail(ctx context.Context, filter gDto.FilterGroup) (model.RequestDetail, error) {
	return r.detail.Get(ctx, filter) //nolint:wrapcheck
}

func (r *bookingRepositoryImpl) GetAllDetail(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]model.RequestDetail, error) {
	return r.detail.GetAll(ctx, params, filter) //nolint:wrapcheck
}

func (r *bookingRepositoryImpl) CountDetail(ctx context.Context, filter gDto.FilterGroup) (int, error) {
	return r.detail.Count(ctx, filter) //nolint:wrapcheck
}

// LockResourceTx takes a transaction scoped advisory lock so replicas serialize on the same resource.
func (r *bookingRepositoryImpl) LockResourceTx(ctx context.Context, tx *sqlx.Tx, resourceID string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.LockResourceTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, advisoryLockQuery)

	if _, err := tx.ExecContext(ctx, advisoryLockQuery, resourceID); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to take advisory lock (%s): %w", resourceID, err)
	}

	return nil
}

func (r *bookingRepositoryImpl) ActiveForResourceTx(ctx context.Context, tx *sqlx.Tx, resourceID string, statuses ...model.Status) ([]conflict.Booking, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ActiveForResourceTx")
	defer scope.End()

	if len(statuses) == 0 {
		statuses = model.ActiveStatuses
	}

	requests, err := r.GetAllTx(ctx, tx, byStartTime, resourceStatusFilter(resourceID, statuses...),
		model.FieldID, model.FieldStartTime, model.FieldEndTime, model.FieldStatus)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	out := make([]conflict.Booking, len(requests))
	for i, req := range requests {
		out[i] = conflict.Booking{ID: req.ID, Start: req.StartTime, End: req.EndTime, Status: string(req.Status)}
	}

	return out, nil
}

func (r *bookingRepositoryImpl) ApprovedWindowsTx(ctx context.Context, tx *sqlx.Tx, resourceID string) ([]catalogModel.Window, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ApprovedWindowsTx")
	defer scope.End()

	requests, err := r.GetAllTx(ctx, tx, byStartTime, resourceStatusFilter(resourceID, model.StatusApproved),
		model.FieldStartTime, model.FieldEndTime)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	out := make([]catalogModel.Window, len(requests))
	for i, req := range requests {
		out[i] = catalogModel.Window{Start: req.StartTime, End: req.EndTime}
	}

	return out, nil
}

func (r *bookingRepositoryImpl) HasActive(ctx context.Context, resourceID string) (bool, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.HasActive")
	defer scope.End()

	return r.Exist(ctx, resourceStatusFilter(resourceID, model.ActiveStatuses...)) //nolint:wrapcheck
}

// Lapsed returns approved time-boxed requests whose window ended at or before now, oldest first.
func (r *bookingRepositoryImpl) Lapsed(ctx context.Context, now time.Time, limit int) ([]model.Request, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Lapsed")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Value: string(model.StatusApproved), Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldEndTime, Value: now, Operator: gDto.FilterOperatorLessEq, Table: model.TableName},
			gDto.Filter{
				Field:    model.FieldResourceKind,
				Value:    []string{string(catalogModel.KindRoom), string(catalogModel.KindVehicle)},
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableName,
			},
		},
	}

	params := gDto.QueryParams{Limit: limit, SortBy: model.FieldEndTime, SortDir: gDto.SortDirAsc}

	return r.GetAll(ctx, params, filter) //nolint:wrapcheck
}

// Schedule returns pending and approved requests of a resource that intersect [from, to).
func (r *bookingRepositoryImpl) Schedule(ctx context.Context, resourceID string, from, to time.Time) ([]model.Request, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Schedule")
	defer scope.End()

	filter := resourceStatusFilter(resourceID, model.ActiveStatuses...)
	filter.Filters = append(filter.Filters,
		gDto.Filter{Field: model.FieldStartTime, Value: to, Operator: gDto.FilterOperatorLess, Table: model.TableName},
		gDto.Filter{Field: model.FieldEndTime, Value: from, Operator: gDto.FilterOperatorGreater, Table: model.TableName},
	)

	return r.GetAll(ctx, byStartTime, filter) //nolint:wrapcheck
}

var byStartTime = gDto.QueryParams{SortBy: model.FieldStartTime, SortDir: gDto.SortDirAsc}

func resourceStatusFilter(resourceID string, statuses ...model.Status) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldResourceID, Value: resourceID, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Value: model.StatusStrings(statuses...), Operator: gDto.FilterOperatorIn, Table: model.TableName},
		},
	}
}
