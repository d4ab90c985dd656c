package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"sarana/infras/otel"
	"sarana/infras/postgres"
	"sarana/internal/domains/catalog/model"
	gDto "sarana/shared/dto"
	gRepo "sarana/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Unit interface {
	Insert(ctx context.Context, model model.Unit) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Unit, error)
	GetTx(ctx context.Context, tx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Unit, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Unit, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type Template interface {
	Insert(ctx context.Context, model model.Template) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Template, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Template, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type unitRepositoryImpl struct {
	gRepo.Repository[model.Unit]
}

type templateRepositoryImpl struct {
	gRepo.Repository[model.Template]
}

func NewUnit(db *postgres.Connection, otel otel.Otel) Unit {
	return &unitRepositoryImpl{
		Repository: gRepo.NewRepository[model.Unit](model.EntityUnit, model.TableUnit, model.FieldID, db, otel),
	}
}

func NewTemplate(db *postgres.Connection, otel otel.Otel) Template {
	return &templateRepositoryImpl{
		Repository: gRepo.NewRepository[model.Template](model.EntityTemplate, model.TableTemplate, model.FieldID, db, otel),
	}
}
