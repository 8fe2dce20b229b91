package handlers

import (
	"net/http"

	"github.com/eshaffer321/order-analytics/internal/api/dto"
	"github.com/eshaffer321/order-analytics/internal/application/service"
)

// OrdersHandler serves the order list.
type OrdersHandler struct {
	*Base
	svc *service.DashboardService
}

// NewOrdersHandler creates a new orders handler.
func NewOrdersHandler(svc *service.DashboardService) *OrdersHandler {
	return &OrdersHandler{Base: &Base{}, svc: svc}
}

// List handles GET /api/orders. A search term replaces the other criteria.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	criteria, err := ParseCriteria(r, h.svc.Location())
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	params := dto.OrderListParams{
		Limit:  ParseIntParam(r, dto.ParamLimit, dto.DefaultOrderLimit),
		Offset: ParseIntParam(r, dto.ParamOffset, 0),
	}.Clamp()

	orders, total := h.svc.Orders(criteria, params.Limit, params.Offset)
	h.WriteJSON(w, http.StatusOK, dto.OrderListResponse{
		Orders:     toOrders(orders),
		TotalCount: total,
		Limit:      params.Limit,
		Offset:     params.Offset,
	})
}
