package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"sarana/config"
	"sarana/infras/otel"
	"sarana/internal/domains/booking/conflict"
	"sarana/internal/domains/booking/guard"
	"sarana/internal/domains/booking/model"
	"sarana/internal/domains/booking/model/dto"
	"sarana/internal/domains/booking/repository"
	catalogModel "sarana/internal/domains/catalog/model"
	catalogService "sarana/internal/domains/catalog/service"
	notificationModel "sarana/internal/domains/notification/model"
	notificationService "sarana/internal/domains/notification/service"
	"sarana/permissions"
	"sarana/shared"
	"sarana/shared/constant"
	gDto "sarana/shared/dto"
	"sarana/shared/failure"
	"sarana/shared/timezone"
	"sarana/shared/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const exportLimit = 5000

var sortableFields = []string{model.FieldCreatedAt, model.FieldStartTime, model.FieldEndTime, model.FieldStatus}

type Manager interface {
	Submit(ctx context.Context, req dto.SubmitRequest) (dto.BookingResponse, error)
	Reschedule(ctx context.Context, id string, req dto.RescheduleRequest) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	List(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	ListMine(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	PendingQueue(ctx context.Context, req gDto.QueryParams) (dto.GetBookingsResponse, error)
	Schedule(ctx context.Context, resourceID string, from, to time.Time) (dto.ScheduleResponse, error)
	Export(ctx context.Context, filter gDto.FilterGroup) ([]byte, error)
}

type serviceImpl struct {
	repo     repository.Booking
	catalog  catalogService.Catalog
	notifier notificationService.Notifier
	guard    *guard.Guard
	clock    timezone.Clock
	cfg      *config.Config
	otel     otel.Otel
}

func New(
	repo repository.Booking,
	catalog catalogService.Catalog,
	notifier notificationService.Notifier,
	guard *guard.Guard,
	clock timezone.Clock,
	cfg *config.Config,
	otel otel.Otel,
) Manager {
	return &serviceImpl{
		repo:     repo,
		catalog:  catalog,
		notifier: notifier,
		guard:    guard,
		clock:    clock,
		cfg:      cfg,
		otel:     otel,
	}
}

// Submit creates a pending request. Authorization on the resource's module is checked
// before any field validation so an unauthorized caller never learns which fields are wrong.
func (s *serviceImpl) Submit(ctx context.Context, req dto.SubmitRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Submit")
	defer scope.End()
	defer scope.TraceIfError(err)

	unit, err := s.findUnit(ctx, req.ResourceID)
	if err != nil {
		return res, err
	}

	principal, err := permissions.Require(ctx, permissions.Borrow(unit.Kind.Module()))
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	start, end, err := req.Window()
	if err != nil {
		return res, failure.Validation("start_time", "start_time and end_time must be RFC3339 timestamps") //nolint:wrapcheck
	}

	requesterID, err := resolveRequester(principal, req.RequesterID)
	if err != nil {
		return res, err
	}

	if err = validateSubmission(unit, req, start, end); err != nil {
		return res, err
	}

	request := req.ToModel(unit, requesterID, principal.UserID, start, end, s.clock.Now())

	var events []notificationModel.Event

	err = s.guard.Run(ctx, unit.ID, func(ctx context.Context, tx *sqlx.Tx) error {
		query := conflict.Query{ResourceID: unit.ID, Window: request.Interval(), Whole: !unit.Kind.TimeBoxed()}
		if err := s.guard.Check(ctx, tx, query); err != nil {
			return err //nolint:wrapcheck
		}

		if err := s.repo.InsertTx(ctx, tx, request); err != nil {
			if isExclusionViolation(err) {
				return failure.ConflictWith(unit.ID, constant.Empty) //nolint:wrapcheck
			}

			log.Error().Err(err).Msg("failed to insert booking request")

			return fmt.Errorf("failed to insert booking request: %w", err)
		}

		if _, err := s.catalog.SyncStatus(ctx, tx, unit.ID); err != nil {
			return err //nolint:wrapcheck
		}

		recorded, err := s.notifier.Record(ctx, tx, subjectOf(request), notificationModel.KindRequestSubmitted)
		events = recorded

		return err //nolint:wrapcheck
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	s.notifier.Dispatch(ctx, events...)

	log.Info().Str("request_id", request.ID).Str("resource_id", unit.ID).Str("requester_id", requesterID).Msg("booking request submitted")

	res.FromModel(request)

	return res, nil
}

// Reschedule moves the window of a pending request. Only its requester may do so.
func (s *serviceImpl) Reschedule(ctx context.Context, id string, req dto.RescheduleRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Reschedule")
	defer scope.End()
	defer scope.TraceIfError(err)

	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	principal, err := permissions.Require(ctx, permissions.Borrow(current.ResourceKind.Module()))
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	if current.RequesterID != principal.UserID {
		return res, failure.Authorization("requester") //nolint:wrapcheck
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	start, end, err := req.Window()
	if err != nil {
		return res, failure.Validation("start_time", "start_time and end_time must be RFC3339 timestamps") //nolint:wrapcheck
	}

	if !start.Before(end) {
		return res, failure.Validation("start_time", "start_time must be before end_time") //nolint:wrapcheck
	}

	var updated model.Request

	err = s.guard.Run(ctx, current.ResourceID, func(ctx context.Context, tx *sqlx.Tx) error {
		locked, err := s.findTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if locked.Status != model.StatusPending {
			return failure.InvalidState(string(locked.Status), string(model.StatusPending)) //nolint:wrapcheck
		}

		query := conflict.Query{
			ResourceID: locked.ResourceID,
			Window:     conflict.Interval{Start: start, End: end},
			ExcludeID:  locked.ID,
			Whole:      !locked.ResourceKind.TimeBoxed(),
		}
		if err := s.guard.Check(ctx, tx, query); err != nil {
			return err //nolint:wrapcheck
		}

		now := s.clock.Now()
		fields := map[string]any{
			model.FieldStartTime:     start,
			model.FieldEndTime:       end,
			constant.FieldModifiedAt: now,
			constant.FieldModifiedBy: principal.UserID,
		}

		if req.Notes != constant.Empty {
			fields[model.FieldNotes] = req.Notes
			locked.Notes = req.Notes
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			if isExclusionViolation(err) {
				return failure.ConflictWith(locked.ResourceID, constant.Empty) //nolint:wrapcheck
			}

			log.Error().Err(err).Msg("failed to reschedule booking request")

			return fmt.Errorf("failed to reschedule booking request: %w", err)
		}

		locked.StartTime, locked.EndTime = start, end
		locked.ModifiedAt, locked.ModifiedBy = now, principal.UserID
		updated = locked

		return nil
	})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	res.FromModel(updated)

	return res, nil
}

// Cancel withdraws a pending request. The requester or a manager of the module may cancel.
func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	current, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	principal, err := permissions.Require(ctx, permissions.Borrow(current.ResourceKind.Module()))
	if err != nil {
		return err //nolint:wrapcheck
	}

	if current.RequesterID != principal.UserID {
		if err = principal.Can(permissions.Decide(current.ResourceKind.Module())); err != nil {
			return err //nolint:wrapcheck
		}
	}

	var events []notificationModel.Event

	err = s.guard.Run(ctx, current.ResourceID, func(ctx context.Context, tx *sqlx.Tx) error {
		locked, err := s.findTx(ctx, tx, id)
		if err != nil {
			return err
		}

		if locked.Status != model.StatusPending {
			return failure.InvalidState(string(locked.Status), string(model.StatusCancelled)) //nolint:wrapcheck
		}

		fields := map[string]any{
			model.FieldStatus:        string(model.StatusCancelled),
			constant.FieldModifiedAt: s.clock.Now(),
			constant.FieldModifiedBy: principal.UserID,
		}

		if err := s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
			log.Error().Err(err).Msg("failed to cancel booking request")

			return fmt.Errorf("failed to cancel booking request: %w", err)
		}

		if _, err := s.catalog.SyncStatus(ctx, tx, locked.ResourceID); err != nil {
			return err //nolint:wrapcheck
		}

		events, err = s.notifier.Record(ctx, tx, subjectOf(locked), notificationModel.KindRequestCancelled)

		return err //nolint:wrapcheck
	})
	if err != nil {
		return err //nolint:wrapcheck
	}

	s.notifier.Dispatch(ctx, events...)

	log.Info().Str("request_id", id).Str("by", principal.UserID).Msg("booking request cancelled")

	return nil
}

// Get returns a request to its requester or to a manager of its module.
func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	principal, ok := permissions.PrincipalFromContext(ctx)
	if !ok {
		return res, failure.Unauthorized("missing authenticated principal") //nolint:wrapcheck
	}

	if _, err = uuid.Parse(id); err != nil {
		return res, failure.NotFoundEntity(model.EntityName, id) //nolint:wrapcheck
	}

	detail, err := s.repo.GetDetail(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking request")

		return res, fmt.Errorf("failed to get booking request: %w", err)
	}

	if detail.ID == constant.Empty {
		return res, failure.NotFoundEntity(model.EntityName, id) //nolint:wrapcheck
	}

	if detail.RequesterID != principal.UserID {
		if err = principal.Can(permissions.Decide(detail.ResourceKind.Module())); err != nil {
			return res, err //nolint:wrapcheck
		}
	}

	res.FromDetail(detail)

	return res, nil
}

// List returns requests on the kinds the calling manager administers.
func (s *serviceImpl) List(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".List")
	defer scope.End()
	defer scope.TraceIfError(err)

	principal, err := permissions.Require(ctx, permissions.Capability{Roles: []string{constant.RoleManagement}})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	return s.list(ctx, req, scopeToModules(principal, filter))
}

func (s *serviceImpl) ListMine(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	principal, ok := permissions.PrincipalFromContext(ctx)
	if !ok {
		return res, failure.Unauthorized("missing authenticated principal") //nolint:wrapcheck
	}

	mine := andFilter(filter, gDto.Filter{Field: model.FieldRequesterID, Value: principal.UserID, Operator: gDto.FilterOperatorEq, Table: model.TableName})

	return s.list(ctx, req, mine)
}

// PendingQueue lists pending requests a manager may decide, earliest start first.
func (s *serviceImpl) PendingQueue(ctx context.Context, req gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".PendingQueue")
	defer scope.End()
	defer scope.TraceIfError(err)

	principal, err := permissions.Require(ctx, permissions.Capability{Roles: []string{constant.RoleManagement}})
	if err != nil {
		return res, err //nolint:wrapcheck
	}

	pending := andFilter(gDto.FilterGroup{}, gDto.Filter{Field: model.FieldStatus, Value: string(model.StatusPending), Operator: gDto.FilterOperatorEq, Table: model.TableName})

	if req.SortBy == constant.Empty {
		req.SortBy, req.SortDir = model.FieldStartTime, gDto.SortDirAsc
	}

	return s.list(ctx, req, scopeToModules(principal, pending))
}

func (s *serviceImpl) list(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	if req.SortBy == constant.Empty || !slices.Contains(sortableFields, req.SortBy) {
		req.SortBy = constant.DefaultValueSortBy
	}

	if req.SortDir == constant.Empty {
		req.SortDir = constant.DefaultValueSortDir
	}

	req.SortBy = model.TableName + "." + req.SortBy

	total, err := s.repo.CountDetail(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count booking requests")

		return res, fmt.Errorf("failed to count booking requests: %w", err)
	}

	details, err := s.repo.GetAllDetail(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking requests")

		return res, fmt.Errorf("failed to get booking requests: %w", err)
	}

	res.FromDetails(details, total, req.Limit)

	return res, nil
}

// Schedule lists the pending and approved windows of a resource between from and to.
func (s *serviceImpl) Schedule(ctx context.Context, resourceID string, from, to time.Time) (res dto.ScheduleResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Schedule")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, ok := permissions.PrincipalFromContext(ctx); !ok {
		return res, failure.Unauthorized("missing authenticated principal") //nolint:wrapcheck
	}

	unit, err := s.findUnit(ctx, resourceID)
	if err != nil {
		return res, err
	}

	if !from.Before(to) {
		return res, failure.Validation(constant.RequestParamFrom, "from must be before to") //nolint:wrapcheck
	}

	requests, err := s.repo.Schedule(ctx, unit.ID, from, to)
	if err != nil {
		log.Error().Err(err).Msg("failed to get resource schedule")

		return res, fmt.Errorf("failed to get resource schedule: %w", err)
	}

	res.FromModels(unit.ID, from, to, requests)

	return res, nil
}

// Export renders the request history visible to the calling manager as a spreadsheet.
func (s *serviceImpl) Export(ctx context.Context, filter gDto.FilterGroup) (data []byte, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Export")
	defer scope.End()
	defer scope.TraceIfError(err)

	principal, err := permissions.Require(ctx, permissions.Capability{Roles: []string{constant.RoleManagement}})
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	params := gDto.QueryParams{Limit: exportLimit, SortBy: model.TableName + "." + model.FieldStartTime, SortDir: gDto.SortDirDesc}

	details, err := s.repo.GetAllDetail(ctx, params, scopeToModules(principal, filter))
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking history")

		return nil, fmt.Errorf("failed to get booking history: %w", err)
	}

	data, err = writeHistory(details, timezone.GetLocation())
	if err != nil {
		log.Error().Err(err).Msg("failed to render booking history")

		return nil, fmt.Errorf("failed to render booking history: %w", err)
	}

	return data, nil
}

func (s *serviceImpl) findUnit(ctx context.Context, id string) (catalogModel.Unit, error) {
	if _, err := uuid.Parse(id); err != nil {
		return catalogModel.Unit{}, failure.NotFoundEntity(catalogModel.EntityUnit, id) //nolint:wrapcheck
	}

	return s.catalog.FindUnit(ctx, id) //nolint:wrapcheck
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.Request, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Request{}, failure.NotFoundEntity(model.EntityName, id) //nolint:wrapcheck
	}

	request, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("request_id", id).Msg("failed to get booking request")

		return request, fmt.Errorf("failed to get booking request: %w", err)
	}

	if request.ID == constant.Empty {
		return request, failure.NotFoundEntity(model.EntityName, id) //nolint:wrapcheck
	}

	return request, nil
}

func (s *serviceImpl) findTx(ctx context.Context, tx *sqlx.Tx, id string) (model.Request, error) {
	request, err := s.repo.GetTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("request_id", id).Msg("failed to lock booking request")

		return request, fmt.Errorf("failed to lock booking request: %w", err)
	}

	if request.ID == constant.Empty {
		return request, failure.NotFoundEntity(model.EntityName, id) //nolint:wrapcheck
	}

	return request, nil
}

// resolveRequester lets management book on a member's behalf. Everyone else books for themselves.
// The system principal is not a user, so internal callers must always name the requester.
func resolveRequester(principal permissions.Principal, requested *string) (string, error) {
	named := requested != nil && *requested != constant.Empty

	if principal.UserID == constant.ContextSystem && !named {
		return constant.Empty, failure.Validation("requester_id", "requester_id is required for internal callers") //nolint:wrapcheck
	}

	if !named || *requested == principal.UserID {
		return principal.UserID, nil
	}

	if !principal.IsManagement() {
		return constant.Empty, failure.Authorization(constant.RoleManagement) //nolint:wrapcheck
	}

	return *requested, nil
}

func validateSubmission(unit catalogModel.Unit, req dto.SubmitRequest, start, end time.Time) error {
	if !start.Before(end) {
		return failure.Validation("start_time", "start_time must be before end_time") //nolint:wrapcheck
	}

	if unit.UnderRepair {
		return failure.Validation("resource_id", "resource is under repair") //nolint:wrapcheck
	}

	switch unit.Kind {
	case catalogModel.KindRoom:
		if strings.TrimSpace(req.Purpose) == constant.Empty {
			return failure.Validation("purpose", "purpose is required for rooms") //nolint:wrapcheck
		}
	case catalogModel.KindVehicle:
		if req.PassengersCount != nil && unit.Capacity != nil && *req.PassengersCount > *unit.Capacity {
			return failure.Validation("passengers_count", fmt.Sprintf("passengers_count exceeds vehicle capacity of %d", *unit.Capacity)) //nolint:wrapcheck
		}
	case catalogModel.KindAsset:
	}

	return nil
}

func subjectOf(r model.Request) notificationModel.Subject {
	return notificationModel.Subject{
		RequestID:   r.ID,
		RequesterID: r.RequesterID,
		Module:      r.ResourceKind.Module(),
	}
}

// scopeToModules restricts filter to the resource kinds the principal holds a module for.
func scopeToModules(principal permissions.Principal, filter gDto.FilterGroup) gDto.FilterGroup {
	kinds := catalogModel.KindsFor(principal.Modules())
	if len(kinds) == len(catalogModel.Kinds) {
		return filter
	}

	values := make([]string, len(kinds))
	for i, k := range kinds {
		values[i] = string(k)
	}

	if len(values) == 0 {
		return andFilter(filter, gDto.Filter{Operator: gDto.FilterPlainQuery, Value: "FALSE"})
	}

	return andFilter(filter, gDto.Filter{Field: model.FieldResourceKind, Value: values, Operator: gDto.FilterOperatorIn, Table: model.TableName})
}

func andFilter(filter gDto.FilterGroup, extra ...gDto.Filter) gDto.FilterGroup {
	out := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if len(filter.Filters) > 0 {
		out.Filters = append(out.Filters, filter)
	}

	for _, f := range extra {
		out.Filters = append(out.Filters, f)
	}

	return out
}

func isExclusionViolation(err error) bool {
	return shared.IsPqError(err, constant.PqErrorCodeExclusionViolation)
}
