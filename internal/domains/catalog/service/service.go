package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"

	"sarana/config"
	"sarana/infras/otel"
	"sarana/infras/postgres"
	"sarana/infras/s3"
	"sarana/internal/domains/catalog/model"
	"sarana/internal/domains/catalog/model/dto"
	"sarana/internal/domains/catalog/repository"
	"sarana/permissions"
	"sarana/shared"
	"sarana/shared/base64"
	"sarana/shared/cache"
	"sarana/shared/constant"
	gDto "sarana/shared/dto"
	"sarana/shared/failure"
	"sarana/shared/locker"
	"sarana/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetTemplate    = "template:get"
	cacheGetAllTemplate = "template:gets"
	cacheCountTemplate  = "template:count"

	templatePhotoDirectory = "templates"
)

var allowedPhotoTypes = []string{"image/png", "image/jpeg", "image/jpg", "image/webp"}

// Occupancy exposes the booking set a unit status is derived from.
type Occupancy interface {
	ApprovedWindowsTx(ctx context.Context, tx *sqlx.Tx, resourceID string) ([]model.Window, error)
	HasActive(ctx context.Context, resourceID string) (bool, error)
}

type Catalog interface {
	FindUnit(ctx context.Context, id string) (model.Unit, error)
	GetUnit(ctx context.Context, kind model.Kind, id string) (dto.UnitResponse, error)
	ListUnits(ctx context.Context, kind model.Kind, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetUnitsResponse, error)
	CreateUnit(ctx context.Context, kind model.Kind, req dto.CreateUnitRequest) (dto.UnitResponse, error)
	UpdateUnit(ctx context.Context, kind model.Kind, id string, req dto.UpdateUnitRequest) error
	DeleteUnit(ctx context.Context, kind model.Kind, id string) error
	SyncStatus(ctx context.Context, tx *sqlx.Tx, unitID string) (model.Status, error)
	RefreshStatuses(ctx context.Context) (int, error)
	CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest) (dto.TemplateResponse, error)
	GetTemplate(ctx context.Context, id string) (dto.TemplateResponse, error)
	ListTemplates(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetTemplatesResponse, error)
}

type serviceImpl struct {
	units     repository.Unit
	templates repository.Template
	occupancy Occupancy
	tx        postgres.Transactor
	locker    locker.Locker
	clock     timezone.Clock
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
	s3        s3.S3
}

func New(
	units repository.Unit,
	templates repository.Template,
	occupancy Occupancy,
	tx postgres.Transactor,
	lk locker.Locker,
	clock timezone.Clock,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	s3 s3.S3,
) Catalog {
	return &serviceImpl{
		units:     units,
		templates: templates,
		occupancy: occupancy,
		tx:        tx,
		locker:    lk,
		clock:     clock,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
		s3:        s3,
	}
}

func (s *serviceImpl) FindUnit(ctx context.Context, id string) (unit model.Unit, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".FindUnit")
	defer scope.End()
	defer scope.TraceIfError(err)

	unit, err = s.units.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableUnit))
	if err != nil {
		log.Error().Err(err).Str("unit_id", id).Msg("failed to get resource unit")

		return unit, fmt.Errorf("failed to get resource unit: %w", err)
	}

	if unit.ID == constant.Empty {
		return unit, failure.NotFoundEntity(model.EntityUnit, id) //nolint:wrapcheck
	}

	return unit, nil
}

func (s *serviceImpl) findUnitOfKind(ctx context.Context, kind model.Kind, id string) (model.Unit, error) {
	unit, err := s.FindUnit(ctx, id)
	if err != nil {
		return unit, err
	}

	if unit.Kind != kind {
		return model.Unit{}, failure.NotFoundEntity(model.EntityUnit, id) //nolint:wrapcheck
	}

	return unit, nil
}

func (s *serviceImpl) GetUnit(ctx context.Context, kind model.Kind, id string) (res dto.UnitResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetUnit")
	defer scope.End()
	defer scope.TraceIfError(err)

	unit, err := s.findUnitOfKind(ctx, kind, id)
	if err != nil {
		return res, err
	}

	res.FromModel(unit)

	return res, nil
}

// ListUnits always reads through to the database; availability must never be stale.
func (s *serviceImpl) ListUnits(ctx context.Context, kind model.Kind, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetUnitsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListUnits")
	defer scope.End()
	defer scope.TraceIfError(err)

	scoped := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldKind, Value: string(kind), Operator: gDto.FilterOperatorEq, Table: model.TableUnit},
		},
	}
	if len(filter.Filters) > 0 {
		scoped.Filters = append(scoped.Filters, filter)
	}

	total, err := s.units.Count(ctx, scoped)
	if err != nil {
		log.Error().Err(err).Msg("failed to count resource units")

		return res, fmt.Errorf("failed to count resource units: %w", err)
	}

	units, err := s.units.GetAll(ctx, req, scoped)
	if err != nil {
		log.Error().Err(err).Msg("failed to get resource units")

		return res, fmt.Errorf("failed to get resource units: %w", err)
	}

	res.FromModels(units, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) CreateUnit(ctx context.Context, kind model.Kind, req dto.CreateUnitRequest) (res dto.UnitResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateUnit")
	defer scope.End()
	defer scope.TraceIfError(err)

	principal, err := permissions.Require(ctx, permissions.Manage(kind.Module()))
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = s.validateUnit(ctx, kind, req); err != nil {
		return res, err
	}

	unit := req.ToModel(kind, principal.UserID)

	if err = s.units.Insert(ctx, unit); err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeUniqueViolation) {
			return res, failure.Conflict("unit code already exists") //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create resource unit")

		return res, fmt.Errorf("failed to create resource unit: %w", err)
	}

	log.Info().Str("unit_id", unit.ID).Str("kind", string(kind)).Str("by", principal.UserID).Msg("resource unit created")

	res.FromModel(unit)

	return res, nil
}

func (s *serviceImpl) validateUnit(ctx context.Context, kind model.Kind, req dto.CreateUnitRequest) error {
	switch kind {
	case model.KindAsset:
		if req.TemplateID == nil {
			return failure.Validation("template_id", "template_id is required for assets") //nolint:wrapcheck
		}

		exist, err := s.templates.Exist(ctx, shared.FilterByID(*req.TemplateID, model.FieldID, model.TableTemplate))
		if err != nil {
			log.Error().Err(err).Msg("failed to check product template")

			return fmt.Errorf("failed to check product template: %w", err)
		}

		if !exist {
			return failure.NotFoundEntity(model.EntityTemplate, *req.TemplateID) //nolint:wrapcheck
		}
	case model.KindVehicle:
		if req.PlateNumber == nil || strings.TrimSpace(*req.PlateNumber) == constant.Empty {
			return failure.Validation("plate_number", "plate_number is required for vehicles") //nolint:wrapcheck
		}
	case model.KindRoom:
	default:
		return failure.BadRequestFromString("unknown resource kind") //nolint:wrapcheck
	}

	if kind.TimeBoxed() && req.TemplateID != nil {
		return failure.Validation("template_id", "template_id only applies to assets") //nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) UpdateUnit(ctx context.Context, kind model.Kind, id string, req dto.UpdateUnitRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateUnit")
	defer scope.End()
	defer scope.TraceIfError(err)

	principal, err := permissions.Require(ctx, permissions.Manage(kind.Module()))
	if err != nil {
		return err //nolint:wrapcheck
	}

	if req == (dto.UpdateUnitRequest{}) {
		return failure.BadRequestFromString("update request cannot be empty") //nolint:wrapcheck
	}

	if _, err = s.findUnitOfKind(ctx, kind, id); err != nil {
		return err
	}

	release, err := s.locker.Lock(ctx, id)
	if err != nil {
		return locker.AsFailure(err)
	}
	defer release()

	filter := shared.FilterByID(id, model.FieldID, model.TableUnit)

	return s.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error { //nolint:wrapcheck
		if err := s.units.UpdateTx(ctx, tx, shared.TransformFields(req, principal.UserID), filter); err != nil {
			log.Error().Err(err).Msg("failed to update resource unit")

			return fmt.Errorf("failed to update resource unit: %w", err)
		}

		_, err := s.SyncStatus(ctx, tx, id)

		return err
	})
}

func (s *serviceImpl) DeleteUnit(ctx context.Context, kind model.Kind, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".DeleteUnit")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = permissions.Require(ctx, permissions.Manage(kind.Module())); err != nil {
		return err //nolint:wrapcheck
	}

	if _, err = s.findUnitOfKind(ctx, kind, id); err != nil {
		return err
	}

	release, err := s.locker.Lock(ctx, id)
	if err != nil {
		return locker.AsFailure(err)
	}
	defer release()

	active, err := s.occupancy.HasActive(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to check active requests")

		return fmt.Errorf("failed to check active requests: %w", err)
	}

	if active {
		return failure.Conflict("resource still has pending or approved requests") //nolint:wrapcheck
	}

	if err = s.units.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableUnit)); err != nil {
		if shared.IsPqError(err, constant.PqErrorCodeFkViolation) {
			return failure.Conflict("resource has booking history and cannot be deleted") //nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to delete resource unit")

		return fmt.Errorf("failed to delete resource unit: %w", err)
	}

	return nil
}

// SyncStatus recomputes a unit's status from its approved windows inside tx. The caller holds the unit lock.
func (s *serviceImpl) SyncStatus(ctx context.Context, tx *sqlx.Tx, unitID string) (status model.Status, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SyncStatus")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(unitID, model.FieldID, model.TableUnit)

	unit, err := s.units.GetTx(ctx, tx, filter)
	if err != nil {
		log.Error().Err(err).Str("unit_id", unitID).Msg("failed to read resource unit")

		return model.StatusUnknown, fmt.Errorf("failed to read resource unit: %w", err)
	}

	if unit.ID == constant.Empty {
		return model.StatusUnknown, failure.NotFoundEntity(model.EntityUnit, unitID) //nolint:wrapcheck
	}

	windows, err := s.occupancy.ApprovedWindowsTx(ctx, tx, unitID)
	if err != nil {
		log.Error().Err(err).Str("unit_id", unitID).Msg("failed to read approved windows")

		return model.StatusUnknown, fmt.Errorf("failed to read approved windows: %w", err)
	}

	status = model.DeriveStatus(unit, windows, s.clock.Now())
	if status == unit.Status {
		return status, nil
	}

	update := map[string]any{
		model.FieldStatus:        string(status),
		constant.FieldModifiedAt: s.clock.Now(),
		constant.FieldModifiedBy: constant.ContextSystem,
	}

	if err = s.units.UpdateTx(ctx, tx, update, filter); err != nil {
		log.Error().Err(err).Str("unit_id", unitID).Msg("failed to write resource status")

		return model.StatusUnknown, fmt.Errorf("failed to write resource status: %w", err)
	}

	log.Debug().Str("unit_id", unitID).Str("from", string(unit.Status)).Str("to", string(status)).Msg("resource status synced")

	return status, nil
}

// RefreshStatuses re-derives every time-boxed unit, since their status moves with the clock.
func (s *serviceImpl) RefreshStatuses(ctx context.Context) (refreshed int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshStatuses")
	defer scope.End()
	defer scope.TraceIfError(err)

	units, err := s.units.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldKind,
				Value:    []string{string(model.KindRoom), string(model.KindVehicle)},
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableUnit,
			},
		},
	}, model.FieldID, model.FieldStatus)
	if err != nil {
		log.Error().Err(err).Msg("failed to list time-boxed units")

		return 0, fmt.Errorf("failed to list time-boxed units: %w", err)
	}

	// One unit failing does not stop the others; the next run retries it.
	for _, unit := range units {
		if err := s.refreshOne(ctx, unit); err != nil {
			log.Error().Err(err).Str("unit_id", unit.ID).Msg("failed to refresh resource unit status")

			continue
		}

		refreshed++
	}

	if refreshed < len(units) {
		log.Warn().Int("refreshed", refreshed).Int("total", len(units)).Msg("some resource unit statuses were not refreshed")
	}

	return refreshed, nil
}

func (s *serviceImpl) refreshOne(ctx context.Context, unit model.Unit) error {
	release, err := s.locker.Lock(ctx, unit.ID)
	if err != nil {
		return locker.AsFailure(err)
	}
	defer release()

	return s.tx.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error { //nolint:wrapcheck
		_, err := s.SyncStatus(ctx, tx, unit.ID)

		return err
	})
}

func (s *serviceImpl) CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest) (res dto.TemplateResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CreateTemplate")
	defer scope.End()
	defer scope.TraceIfError(err)

	principal, err := permissions.Require(ctx, permissions.Manage(constant.ModuleAsset))
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	var (
		photoURL *string
		photoKey string
	)

	if req.Photo != constant.Empty {
		contentType, data, err := base64.Decode(req.Photo)
		if err != nil {
			return res, failure.Validation("photo", "photo must be a base64 data URL") //nolint:wrapcheck
		}

		if !slices.Contains(allowedPhotoTypes, contentType) {
			return res, failure.Validation("photo", "photo must be one of "+strings.Join(allowedPhotoTypes, ", ")) //nolint:wrapcheck
		}

		photoKey = path.Join(templatePhotoDirectory, uuid.NewString()+"."+base64.Extension(contentType))

		url, err := s.s3.Put(ctx, photoKey, contentType, data)
		if err != nil {
			log.Error().Err(err).Msg("failed to upload template photo")

			return res, fmt.Errorf("failed to upload template photo: %w", err)
		}

		photoURL = &url
	}

	template := req.ToModel(principal.UserID, photoURL)

	if err = s.templates.Insert(ctx, template); err != nil {
		log.Error().Err(err).Msg("failed to create product template")

		if photoKey != constant.Empty {
			if delErr := s.s3.Remove(ctx, photoKey); delErr != nil {
				log.Warn().Err(delErr).Str("key", photoKey).Msg("failed to remove orphaned template photo")
			}
		}

		return res, fmt.Errorf("failed to create product template: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllTemplate)
		shared.InvalidateCaches(c, s.cache, cacheCountTemplate)
	}()

	res.FromModel(template)

	return res, nil
}

func (s *serviceImpl) GetTemplate(ctx context.Context, id string) (res dto.TemplateResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetTemplate")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKey(cacheGetTemplate, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for product template")

		return res, nil
	}

	template, err := s.templates.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableTemplate))
	if err != nil {
		log.Error().Err(err).Msg("failed to get product template")

		return res, fmt.Errorf("failed to get product template: %w", err)
	}

	if template.ID == constant.Empty {
		return res, failure.NotFoundEntity(model.EntityTemplate, id) //nolint:wrapcheck
	}

	res.FromModel(template)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save product template to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) ListTemplates(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetTemplatesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListTemplates")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllTemplate, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for product templates")

		return res, nil
	}

	total, err := s.countTemplates(ctx, req, filter)
	if err != nil {
		return res, err
	}

	templates, err := s.templates.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get product templates")

		return res, fmt.Errorf("failed to get product templates: %w", err)
	}

	res.FromModels(templates, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save product templates to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) countTemplates(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountTemplate, req, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.templates.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count product templates")

		return res, fmt.Errorf("failed to count product templates: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save product template count to cache")
		}
	}()

	return res, nil
}
