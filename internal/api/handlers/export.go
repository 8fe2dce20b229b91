package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/eshaffer321/order-analytics/internal/api/dto"
	"github.com/eshaffer321/order-analytics/internal/application/service"
	"github.com/eshaffer321/order-analytics/internal/export"
)

// ExportHandler streams the spreadsheet export.
type ExportHandler struct {
	*Base
	svc *service.DashboardService
}

// NewExportHandler creates a new export handler.
func NewExportHandler(svc *service.DashboardService) *ExportHandler {
	return &ExportHandler{Base: &Base{}, svc: svc}
}

// Download handles GET /api/export.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	criteria, err := ParseCriteria(r, h.svc.Location())
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	file, err := h.svc.Export(criteria)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.ExportFailedError(service.MsgExportFailed))
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Data)
}
