package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"sarana/infras/otel"
	"sarana/infras/postgres"
	"sarana/internal/domains/notification/model"
	"sarana/shared/constant"
	gDto "sarana/shared/dto"
	"sarana/shared/logger"
	gRepo "sarana/shared/repository"

	"github.com/jmoiron/sqlx"
)

const recordAttemptQuery = "UPDATE notification_events SET attempts = attempts + 1 WHERE id = $1"

type Notification interface {
	InsertBulkTx(ctx context.Context, tx *sqlx.Tx, models []model.Event) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Event, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Event, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error

	Undelivered(ctx context.Context, before time.Time, limit int) ([]model.Event, error)
	MarkDelivered(ctx context.Context, id string, at time.Time) error
	RecordAttempt(ctx context.Context, id string) error
}

type notificationRepositoryImpl struct {
	gRepo.Repository[model.Event]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Notification {
	return &notificationRepositoryImpl{
		Repository: gRepo.NewRepository[model.Event](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// Undelivered returns events emitted before the cutoff that no sink acknowledged, oldest first.
func (r *notificationRepositoryImpl) Undelivered(ctx context.Context, before time.Time, limit int) ([]model.Event, error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification.Undelivered")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldDeliveredAt, Operator: gDto.FilterIsNull, Table: model.TableName},
			gDto.Filter{Field: model.FieldEmittedAt, Value: before, Operator: gDto.FilterOperatorLess, Table: model.TableName},
		},
	}

	params := gDto.QueryParams{Limit: limit, SortBy: model.FieldEmittedAt, SortDir: gDto.SortDirAsc}

	return r.GetAll(ctx, params, filter) //nolint:wrapcheck
}

func (r *notificationRepositoryImpl) MarkDelivered(ctx context.Context, id string, at time.Time) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification.MarkDelivered")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName},
			gDto.Filter{Field: model.FieldDeliveredAt, Operator: gDto.FilterIsNull, Table: model.TableName},
		},
	}

	return r.Update(ctx, map[string]any{model.FieldDeliveredAt: at}, filter) //nolint:wrapcheck
}

func (r *notificationRepositoryImpl) RecordAttempt(ctx context.Context, id string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification.RecordAttempt")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, recordAttemptQuery)

	if _, err := r.db.Write.ExecContext(ctx, recordAttemptQuery, id); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to record delivery attempt (%s): %w", id, err)
	}

	return nil
}
