package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"sarana/infras/otel"
	"sarana/infras/postgres"
	"sarana/internal/domains/user/model"
	"sarana/shared/constant"
	gDto "sarana/shared/dto"
	"sarana/shared/logger"
	gRepo "sarana/shared/repository"
)

// managersQuery selects active management users holding module. A NULL privilege array holds every module.
const managersQuery = `SELECT id FROM users WHERE role = $1 AND active = TRUE AND (privileges IS NULL OR $2 = ANY(privileges)) ORDER BY id`

type User interface {
	Insert(ctx context.Context, model model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error

	ManagerIDs(ctx context.Context, module string) ([]string, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (r *repositoryImpl) ManagerIDs(ctx context.Context, module string) (ids []string, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".user.ManagerIDs")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, managersQuery)

	if err = r.db.Read.SelectContext(ctx, &ids, managersQuery, constant.RoleManagement, module); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to select managers of %s: %w", module, err)
	}

	return ids, nil
}
