package resource

import (
	"net/http"
	"time"

	"sarana/infras/otel"
	bookingService "sarana/internal/domains/booking/service"
	"sarana/internal/domains/catalog/model"
	"sarana/internal/domains/catalog/model/dto"
	"sarana/internal/domains/catalog/service"
	"sarana/shared"
	"sarana/shared/constant"
	gDto "sarana/shared/dto"
	"sarana/shared/failure"
	"sarana/shared/timezone"
	"sarana/shared/validator"
	"sarana/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const (
	defaultScheduleDays = 30
	hoursPerDay         = 24
)

type Handler struct {
	catalog  service.Catalog
	bookings bookingService.Manager
	otel     otel.Otel
}

func New(catalog service.Catalog, bookings bookingService.Manager, otel otel.Otel) Handler {
	return Handler{
		catalog:  catalog,
		bookings: bookings,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/resources", func(routerGroup chi.Router) {
		routerGroup.Post("/templates", handler.CreateTemplate)
		routerGroup.Get("/templates", handler.GetTemplates)
		routerGroup.Get("/templates/{id}", handler.GetTemplateByID)

		routerGroup.Post("/{kind}", handler.CreateUnit)
		routerGroup.Get("/{kind}", handler.GetUnits)
		routerGroup.Get("/{kind}/{id}", handler.GetUnitByID)
		routerGroup.Patch("/{kind}/{id}", handler.UpdateUnit)
		routerGroup.Delete("/{kind}/{id}", handler.DeleteUnit)
		routerGroup.Get("/{kind}/{id}/schedule", handler.GetSchedule)
	})
}

func kindParam(r *http.Request) (model.Kind, error) {
	segment := chi.URLParam(r, constant.RequestParamKind)

	kind, ok := model.ParseKind(segment)
	if !ok {
		return kind, failure.NotFoundEntity("resource kind", segment)
	}

	return kind, nil
}

// CreateUnit registers an asset unit, room or vehicle.
// @Summary Create a resource
// @Tags Resource
// @Accept json
// @Produce json
// @Param kind path string true "assets, rooms or vehicles"
// @Param request body dto.CreateUnitRequest true "Create Unit Request"
// @Success 201 {object} response.Data[dto.UnitResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/resources/{kind} [post]
// @Security BearerAuth
func (handler *Handler) CreateUnit(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateUnit")
	defer scope.End()

	kind, err := kindParam(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.CreateUnitRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	unit, err := handler.catalog.CreateUnit(ctx, kind, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create resource")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Resource created successfully")

	response.WithJSON(w, http.StatusCreated, unit)
}

// GetUnits lists resources of one kind.
// @Summary List resources
// @Tags Resource
// @Produce json
// @Param kind path string true "assets, rooms or vehicles"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param status query string false "Filter by status"
// @Param location query string false "Filter by location"
// @Param template_id query string false "Filter by product template"
// @Success 200 {object} response.Data[dto.GetUnitsResponse]
// @Router /v1/resources/{kind} [get]
// @Security BearerAuth
func (handler *Handler) GetUnits(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUnits")
	defer scope.End()

	kind, err := kindParam(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	for field, operator := range map[string]string{
		model.FieldName:       gDto.FilterOperatorLike,
		model.FieldLocation:   gDto.FilterOperatorLike,
		model.FieldStatus:     gDto.FilterOperatorEq,
		model.FieldTemplateID: gDto.FilterOperatorEq,
	} {
		if value := query.Get(field); value != constant.Empty {
			filter.Filters = append(filter.Filters, gDto.Filter{Field: field, Operator: operator, Value: value, Table: model.TableUnit})
		}
	}

	if underRepair := shared.ConvertStringToBool(query.Get(model.FieldUnderRepair)); underRepair != nil {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldUnderRepair,
			Operator: gDto.FilterOperatorEq,
			Value:    *underRepair,
			Table:    model.TableUnit,
		})
	}

	units, err := handler.catalog.ListUnits(ctx, kind, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get resources")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, units)
}

// GetUnitByID returns one resource.
// @Summary Get a resource
// @Tags Resource
// @Produce json
// @Param kind path string true "assets, rooms or vehicles"
// @Param id path string true "Resource ID"
// @Success 200 {object} response.Data[dto.UnitResponse]
// @Failure 404 {object} response.Error
// @Router /v1/resources/{kind}/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetUnitByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetUnitByID")
	defer scope.End()

	kind, err := kindParam(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	unit, err := handler.catalog.GetUnit(ctx, kind, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get resource")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, unit)
}

// UpdateUnit edits a resource's descriptive fields or repair flag.
// @Summary Update a resource
// @Tags Resource
// @Accept json
// @Produce json
// @Param kind path string true "assets, rooms or vehicles"
// @Param id path string true "Resource ID"
// @Param request body dto.UpdateUnitRequest true "Update Unit Request"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/resources/{kind}/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateUnit(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateUnit")
	defer scope.End()

	kind, err := kindParam(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UpdateUnitRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.catalog.UpdateUnit(ctx, kind, chi.URLParam(r, constant.RequestParamID), req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update resource")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Resource updated successfully")
}

// DeleteUnit removes a resource without active bookings.
// @Summary Delete a resource
// @Tags Resource
// @Produce json
// @Param kind path string true "assets, rooms or vehicles"
// @Param id path string true "Resource ID"
// @Success 200 {object} response.Message
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/resources/{kind}/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteUnit(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteUnit")
	defer scope.End()

	kind, err := kindParam(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	if err := handler.catalog.DeleteUnit(ctx, kind, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete resource")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Resource deleted successfully")
}

// GetSchedule lists the active bookings of a resource overlapping [from, to). The window defaults to
// the next thirty days from the start of today.
// @Summary Resource schedule
// @Tags Resource
// @Produce json
// @Param kind path string true "assets, rooms or vehicles"
// @Param id path string true "Resource ID"
// @Param from query string false "Window start (RFC3339)"
// @Param to query string false "Window end (RFC3339)"
// @Success 200 {object} map[string]any
// @Failure 400 {object} response.Error
// @Router /v1/resources/{kind}/{id}/schedule [get]
// @Security BearerAuth
func (handler *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSchedule")
	defer scope.End()

	if _, err := kindParam(r); err != nil {
		response.WithError(w, err)

		return
	}

	from, to, err := scheduleWindow(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	schedule, err := handler.bookings.Schedule(ctx, chi.URLParam(r, constant.RequestParamID), from, to)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get resource schedule")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, schedule)
}

func scheduleWindow(r *http.Request) (from, to time.Time, err error) {
	query := r.URL.Query()

	from = timezone.StartOfDay(timezone.Now())

	if raw := query.Get(constant.RequestParamFrom); raw != constant.Empty {
		if from, err = time.Parse(constant.DateFormat, raw); err != nil {
			return from, to, failure.Validation(constant.RequestParamFrom, "from must be an RFC3339 timestamp") //nolint:wrapcheck
		}
	}

	to = from.Add(defaultScheduleDays * hoursPerDay * time.Hour)

	if raw := query.Get(constant.RequestParamTo); raw != constant.Empty {
		if to, err = time.Parse(constant.DateFormat, raw); err != nil {
			return from, to, failure.Validation(constant.RequestParamTo, "to must be an RFC3339 timestamp") //nolint:wrapcheck
		}
	}

	return from, to, nil
}

// CreateTemplate registers a product template for asset units, with an optional base64 photo.
// @Summary Create a product template
// @Tags Resource
// @Accept json
// @Produce json
// @Param request body dto.CreateTemplateRequest true "Create Template Request"
// @Success 201 {object} response.Data[dto.TemplateResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Router /v1/resources/templates [post]
// @Security BearerAuth
func (handler *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateTemplate")
	defer scope.End()

	req := dto.CreateTemplateRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	template, err := handler.catalog.CreateTemplate(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create product template")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, template)
}

// GetTemplates lists product templates.
// @Summary List product templates
// @Tags Resource
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param category query string false "Filter by category"
// @Param name query string false "Filter by name"
// @Success 200 {object} response.Data[dto.GetTemplatesResponse]
// @Router /v1/resources/templates [get]
// @Security BearerAuth
func (handler *Handler) GetTemplates(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTemplates")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	if category := query.Get(model.FieldCategory); category != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldCategory, Operator: gDto.FilterOperatorEq, Value: category, Table: model.TableTemplate})
	}

	if name := query.Get(model.FieldName); name != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldName, Operator: gDto.FilterOperatorLike, Value: name, Table: model.TableTemplate})
	}

	templates, err := handler.catalog.ListTemplates(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get product templates")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, templates)
}

// GetTemplateByID returns one product template.
// @Summary Get a product template
// @Tags Resource
// @Produce json
// @Param id path string true "Template ID"
// @Success 200 {object} response.Data[dto.TemplateResponse]
// @Failure 404 {object} response.Error
// @Router /v1/resources/templates/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetTemplateByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTemplateByID")
	defer scope.End()

	template, err := handler.catalog.GetTemplate(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get product template")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, template)
}
