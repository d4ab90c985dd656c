package health

import (
	"net/http"
	"sync/atomic"

	"sarana/infras/otel"
	"sarana/shared/constant"
	"sarana/transport/http/response"

	"github.com/go-chi/chi/v5"
)

// Status is the readiness flag shared by the server and the probe endpoint.
type Status struct {
	draining atomic.Bool
}

func NewStatus() *Status {
	return &Status{}
}

// Drain makes the probe report unhealthy so the load balancer stops routing new traffic.
func (s *Status) Drain() {
	s.draining.Store(true)
}

func (s *Status) Ready() bool {
	return !s.draining.Load()
}

type Handler struct {
	status *Status
	otel   otel.Otel
}

func New(status *Status, otel otel.Otel) Handler {
	return Handler{
		status: status,
		otel:   otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Health)
}

// Health reports readiness.
// @Summary Readiness probe
// @Tags Health
// @Produce json
// @Success 200 {object} response.Message
// @Failure 503 {object} response.Message
// @Router /v1/health [get]
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Health")
	defer scope.End()

	if !handler.status.Ready() {
		response.WithPreparingShutdown(w)

		return
	}

	response.WithMessage(w, http.StatusOK, "OK")
}
