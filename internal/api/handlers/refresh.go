package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/order-analytics/internal/api/dto"
	"github.com/eshaffer321/order-analytics/internal/application/service"
)

// RefreshHandler starts and reports refresh jobs.
type RefreshHandler struct {
	*Base
	svc *service.DashboardService
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(svc *service.DashboardService) *RefreshHandler {
	return &RefreshHandler{Base: &Base{}, svc: svc}
}

// Start handles POST /api/refresh.
func (h *RefreshHandler) Start(w http.ResponseWriter, r *http.Request) {
	jobID, err := h.svc.StartRefresh(service.TriggerManual)
	if errors.Is(err, service.ErrRefreshInProgress) {
		h.WriteError(w, http.StatusConflict, dto.RefreshConflictError())
		return
	}
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusAccepted, dto.StartRefreshResponse{
		JobID:  jobID,
		Status: string(service.JobPending),
	})
}

// Get handles GET /api/refresh/{jobId}.
func (h *RefreshHandler) Get(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("job ID is required"))
		return
	}

	job, err := h.svc.GetJob(jobID)
	if err != nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("refresh job"))
		return
	}
	h.WriteJSON(w, http.StatusOK, toRefreshJob(job))
}

// List handles GET /api/refresh.
func (h *RefreshHandler) List(w http.ResponseWriter, r *http.Request) {
	jobs := h.svc.ListJobs()

	response := dto.RefreshJobListResponse{
		Jobs:  make([]dto.RefreshJobResponse, 0, len(jobs)),
		Count: len(jobs),
	}
	for _, job := range jobs {
		response.Jobs = append(response.Jobs, toRefreshJob(job))
	}
	h.WriteJSON(w, http.StatusOK, response)
}
