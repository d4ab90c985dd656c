package booking

import (
	"context"
	"net/http"

	"sarana/infras/otel"
	approvalService "sarana/internal/domains/approval/service"
	"sarana/internal/domains/booking/model"
	"sarana/internal/domains/booking/model/dto"
	"sarana/internal/domains/booking/service"
	"sarana/shared/constant"
	gDto "sarana/shared/dto"
	"sarana/shared/timezone"
	"sarana/shared/validator"
	"sarana/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const exportFilenameLayout = "20060102-1504"

type Handler struct {
	bookings  service.Manager
	approvals approvalService.Approval
	otel      otel.Otel
}

func New(bookings service.Manager, approvals approvalService.Approval, otel otel.Otel) Handler {
	return Handler{
		bookings:  bookings,
		approvals: approvals,
		otel:      otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.Submit)
		routerGroup.Get("/", handler.GetBookings)
		routerGroup.Get("/mine", handler.GetMyBookings)
		routerGroup.Get("/pending", handler.GetPending)
		routerGroup.Get("/export", handler.Export)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Patch("/{id}", handler.Reschedule)
		routerGroup.Post("/{id}/decide", handler.Decide)
		routerGroup.Post("/{id}/cancel", handler.Cancel)
		routerGroup.Post("/{id}/complete", handler.Complete)
		routerGroup.Post("/{id}/withdraw", handler.Withdraw)
	})
}

// bookingFilter reads the optional list filters shared by the management list and the export.
func bookingFilter(r *http.Request) gDto.FilterGroup {
	query := r.URL.Query()

	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}

	eq := map[string]string{
		model.FieldStatus:       query.Get(model.FieldStatus),
		model.FieldResourceID:   query.Get(model.FieldResourceID),
		model.FieldRequesterID:  query.Get(model.FieldRequesterID),
		model.FieldResourceKind: query.Get(constant.RequestParamKind),
	}

	for _, field := range []string{model.FieldStatus, model.FieldResourceID, model.FieldRequesterID, model.FieldResourceKind} {
		if eq[field] == constant.Empty {
			continue
		}

		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    field,
			Operator: gDto.FilterOperatorEq,
			Value:    eq[field],
			Table:    model.TableName,
		})
	}

	if from := query.Get(constant.RequestParamFrom); from != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  constant.RequestParamFrom,
			Field:    model.FieldEndTime,
			Operator: gDto.FilterOperatorGreater,
			Value:    from,
			Table:    model.TableName,
		})
	}

	if to := query.Get(constant.RequestParamTo); to != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			ArgName:  constant.RequestParamTo,
			Field:    model.FieldStartTime,
			Operator: gDto.FilterOperatorLess,
			Value:    to,
			Table:    model.TableName,
		})
	}

	return filter
}

// Submit files a new booking request.
// @Summary Submit a booking request
// @Description Request a resource for a time window. Assets are booked as a whole unit.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.SubmitRequest true "Submit Request"
// @Success 201 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) Submit(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Submit")
	defer scope.End()

	req := dto.SubmitRequest{}

	// Rules run in the service, after the caller's privileges are known.
	if err := validator.Decode(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.bookings.Submit(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking submitted successfully")

	response.WithJSON(writer, http.StatusCreated, booking)
}

// GetBookings lists booking requests in the caller's modules.
// @Summary List booking requests
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param resource_id query string false "Filter by resource"
// @Param requester_id query string false "Filter by requester"
// @Param kind query string false "Filter by resource kind"
// @Param from query string false "Overlapping from (RFC3339)"
// @Param to query string false "Overlapping to (RFC3339)"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 403 {object} response.Error
// @Router /v1/bookings [get]
// @Security BearerAuth
func (handler *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	bookings, err := handler.bookings.List(ctx, queryParams, bookingFilter(r))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetMyBookings lists the caller's own requests.
// @Summary List my booking requests
// @Tags Booking
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Router /v1/bookings/mine [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := gDto.FilterGroup{Operator: gDto.FilterGroupOperatorAnd}
	if status := r.URL.Query().Get(model.FieldStatus); status != constant.Empty {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorEq,
			Value:    status,
			Table:    model.TableName,
		})
	}

	bookings, err := handler.bookings.ListMine(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get my bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetPending lists the pending queue, earliest start first.
// @Summary Pending approval queue
// @Tags Approval
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[dto.GetBookingsResponse]
// @Failure 403 {object} response.Error
// @Router /v1/bookings/pending [get]
// @Security BearerAuth
func (handler *Handler) GetPending(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPending")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	bookings, err := handler.bookings.PendingQueue(ctx, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get pending bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// Export downloads the booking history as a spreadsheet.
// @Summary Export booking history
// @Tags Booking
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Filter by status"
// @Param kind query string false "Filter by resource kind"
// @Param from query string false "Overlapping from (RFC3339)"
// @Param to query string false "Overlapping to (RFC3339)"
// @Success 200 {file} file
// @Failure 403 {object} response.Error
// @Router /v1/bookings/export [get]
// @Security BearerAuth
func (handler *Handler) Export(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Export")
	defer scope.End()

	data, err := handler.bookings.Export(ctx, bookingFilter(r))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to export bookings")

		response.WithError(w, err)

		return
	}

	filename := "riwayat-peminjaman-" + timezone.Now().Format(exportFilenameLayout) + ".xlsx"

	response.WithFile(w, constant.ContentTypeSpreadsheet, filename, data)
}

// GetBookingByID returns one request to its requester or a deciding manager.
// @Summary Get a booking request
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	booking, err := handler.bookings.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// Reschedule moves a pending request to a new window.
// @Summary Reschedule a pending request
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.RescheduleRequest true "Reschedule Request"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id} [patch]
// @Security BearerAuth
func (handler *Handler) Reschedule(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Reschedule")
	defer scope.End()

	req := dto.RescheduleRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.bookings.Reschedule(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to reschedule booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// Cancel withdraws a pending request.
// @Summary Cancel a pending request
// @Tags Booking
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Message
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/cancel [post]
// @Security BearerAuth
func (handler *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Cancel")
	defer scope.End()

	if err := handler.bookings.Cancel(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel booking")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Booking cancelled successfully")
}

// Decide approves or rejects a pending request.
// @Summary Approve or reject
// @Tags Approval
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.DecideRequest true "Decision"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/decide [post]
// @Security BearerAuth
func (handler *Handler) Decide(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Decide")
	defer scope.End()

	req := dto.DecideRequest{}
	if err := validator.Decode(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.approvals.Decide(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decide booking")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking decided: " + req.Decision)

	response.WithJSON(w, http.StatusOK, booking)
}

// Complete closes an approved request, e.g. when a borrowed asset comes back.
// @Summary Complete an approved request
// @Tags Approval
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CloseRequest false "Note"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/complete [post]
// @Security BearerAuth
func (handler *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	handler.close(w, r, ".Complete", handler.approvals.Complete)
}

// Withdraw cancels an approved request.
// @Summary Withdraw an approved request
// @Tags Approval
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param request body dto.CloseRequest false "Note"
// @Success 200 {object} response.Data[dto.BookingResponse]
// @Failure 409 {object} response.Error
// @Router /v1/bookings/{id}/withdraw [post]
// @Security BearerAuth
func (handler *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	handler.close(w, r, ".Withdraw", handler.approvals.Withdraw)
}

type closeFunc func(ctx context.Context, id string, req dto.CloseRequest) (dto.BookingResponse, error)

func (handler *Handler) close(w http.ResponseWriter, r *http.Request, span string, fn closeFunc) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+span)
	defer scope.End()

	req := dto.CloseRequest{}

	if r.ContentLength != 0 {
		if err := validator.Validate(r.Body, &req); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Msg("failed to validate request body")

			response.WithError(w, err)

			return
		}
	}

	booking, err := fn(ctx, chi.URLParam(r, constant.RequestParamID), req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to close booking")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}
