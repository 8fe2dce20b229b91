package handlers

import (
	"net/http"

	"github.com/eshaffer321/order-analytics/internal/api/dto"
	"github.com/eshaffer321/order-analytics/internal/application/service"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	*Base
	svc *service.DashboardService
}

// NewHealthHandler creates a new health handler. svc may be nil.
func NewHealthHandler(svc *service.DashboardService) *HealthHandler {
	return &HealthHandler{Base: &Base{}, svc: svc}
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := dto.NewHealthResponse()
	if h.svc != nil {
		state := h.svc.State()
		response.Orders = len(state.Orders)
		response.Origin = string(state.Origin)
		response.LoadedAt = formatTime(state.LoadedAt)
	}
	h.WriteJSON(w, http.StatusOK, response)
}
