package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/order-analytics/internal/api/dto"
	"github.com/eshaffer321/order-analytics/internal/application/service"
	"github.com/eshaffer321/order-analytics/internal/infrastructure/storage"
)

// LoadsHandler serves the load-run history.
type LoadsHandler struct {
	*Base
	svc *service.DashboardService
}

// NewLoadsHandler creates a new loads handler.
func NewLoadsHandler(svc *service.DashboardService) *LoadsHandler {
	return &LoadsHandler{Base: &Base{}, svc: svc}
}

// List handles GET /api/loads.
func (h *LoadsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := ParseIntParam(r, dto.ParamLimit, dto.DefaultLoadRunLimit)

	runs, err := h.svc.LoadRuns(limit)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.LoadRunListResponse{
		Runs:  make([]dto.LoadRunResponse, 0, len(runs)),
		Count: len(runs),
	}
	for _, run := range runs {
		response.Runs = append(response.Runs, toLoadRun(run))
	}
	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/loads/{id}.
func (h *LoadsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid load run ID"))
		return
	}

	run, err := h.svc.LoadRun(id)
	if errors.Is(err, storage.ErrLoadRunNotFound) {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("load run"))
		return
	}
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusOK, toLoadRun(*run))
}
