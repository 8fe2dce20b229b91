package handlers

import (
	"net/http"

	"github.com/eshaffer321/order-analytics/internal/api/dto"
	"github.com/eshaffer321/order-analytics/internal/application/service"
	"github.com/eshaffer321/order-analytics/internal/domain/aggregate"
)

// DashboardHandler serves the aggregated views.
type DashboardHandler struct {
	*Base
	svc *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{Base: &Base{}, svc: svc}
}

// Get handles GET /api/dashboard.
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	criteria, err := ParseCriteria(r, h.svc.Location())
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}
	top := ParseIntParam(r, dto.ParamTop, 0)

	state := h.svc.State()
	view := h.svc.DashboardFor(state, criteria, top)
	h.WriteJSON(w, http.StatusOK, toDashboard(view, state))
}

// Countries handles GET /api/countries.
func (h *DashboardHandler) Countries(w http.ResponseWriter, r *http.Request) {
	countries := h.svc.Countries()
	h.WriteJSON(w, http.StatusOK, dto.CountriesResponse{Countries: countries, Count: len(countries)})
}

// Monthly handles GET /api/monthly.
func (h *DashboardHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	months := h.svc.Monthly()
	h.WriteJSON(w, http.StatusOK, dto.MonthlyResponse{
		Year:   h.svc.Now().Year(),
		Months: toMonths(months),
		Totals: toTotals(aggregate.YearTotals(months)),
	})
}

// DailySummary handles GET /api/summary/daily.
func (h *DashboardHandler) DailySummary(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, toDaily(h.svc.DailySummary()))
}
