package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/order-analytics/internal/api/dto"
	"github.com/eshaffer321/order-analytics/internal/application/service"
)

// NoticesHandler lists and dismisses notices.
type NoticesHandler struct {
	*Base
	svc *service.DashboardService
}

// NewNoticesHandler creates a new notices handler.
func NewNoticesHandler(svc *service.DashboardService) *NoticesHandler {
	return &NoticesHandler{Base: &Base{}, svc: svc}
}

// List handles GET /api/notices.
func (h *NoticesHandler) List(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, toNotices(h.svc.Notices()))
}

// Dismiss handles DELETE /api/notices/{id}.
func (h *NoticesHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if !h.svc.DismissNotice(chi.URLParam(r, "id")) {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("notice"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
