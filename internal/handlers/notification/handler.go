package notification

import (
	"net/http"

	"sarana/infras/jwt"
	"sarana/infras/otel"
	"sarana/infras/websocket"
	"sarana/internal/domains/notification/service"
	userService "sarana/internal/domains/user/service"
	"sarana/shared"
	"sarana/shared/constant"
	gDto "sarana/shared/dto"
	"sarana/shared/failure"
	"sarana/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const queryParamDelivered = "delivered"

type Handler struct {
	service  service.Notifier
	hub      websocket.Hub
	jwt      jwt.JWT
	accounts userService.Account
	otel     otel.Otel
}

func New(service service.Notifier, hub websocket.Hub, jwt jwt.JWT, accounts userService.Account, otel otel.Otel) Handler {
	return Handler{
		service:  service,
		hub:      hub,
		jwt:      jwt,
		accounts: accounts,
		otel:     otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/notifications", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetInbox)
		routerGroup.Get("/ws", handler.Stream)
		routerGroup.Post("/{id}/read", handler.MarkRead)
	})
}

// GetInbox lists the caller's notifications, newest first.
// @Summary Notification inbox
// @Tags Notification
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param delivered query bool false "Only delivered (true) or undelivered (false) events"
// @Success 200 {object} map[string]any
// @Failure 401 {object} response.Error
// @Router /v1/notifications [get]
// @Security BearerAuth
func (handler *Handler) GetInbox(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInbox")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	delivered := shared.ConvertStringToBool(r.URL.Query().Get(queryParamDelivered))

	inbox, err := handler.service.Inbox(ctx, queryParams, delivered)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get notifications")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, inbox)
}

// MarkRead marks one notification of the caller as read.
// @Summary Mark notification read
// @Tags Notification
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Router /v1/notifications/{id}/read [post]
// @Security BearerAuth
func (handler *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MarkRead")
	defer scope.End()

	if err := handler.service.MarkRead(ctx, chi.URLParam(r, constant.RequestParamID)); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to mark notification read")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Notification marked as read")
}

// Stream upgrades to a websocket that receives the caller's notifications live. Browsers cannot set
// headers on the handshake, so the access token travels in the query string.
// @Summary Live notifications
// @Tags Notification
// @Param token query string true "Access token"
// @Success 101
// @Failure 401 {object} response.Error
// @Router /v1/notifications/ws [get]
func (handler *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Stream")

	token := r.URL.Query().Get(constant.RequestParamTok)
	if token == constant.Empty {
		token, _ = jwt.ExtractTokenFromHeader(r.Header.Get(constant.RequestHeaderAuthorization))
	}

	claims, err := handler.jwt.ValidateToken(ctx, token, jwt.AccessToken)
	if err != nil {
		err = failure.Unauthorized("Invalid token")
		scope.TraceError(err)
		scope.End()

		response.WithError(w, err)

		return
	}

	if _, err := handler.accounts.Principal(ctx, claims.UserID); err != nil {
		scope.TraceError(err)
		scope.End()

		response.WithError(w, err)

		return
	}

	scope.SetAttribute("user_id", claims.UserID)
	scope.End()

	// The span is closed before the socket starts pumping; the connection may live for hours.
	if err := handler.hub.Serve(w, r, claims.UserID); err != nil {
		log.Warn().Err(err).Str("user_id", claims.UserID).Msg("websocket handshake failed")
	}
}
