package dto

// Query parameter names shared by the dashboard, order and export endpoints.
const (
	ParamPeriod    = "period"
	ParamStartDate = "start_date"
	ParamEndDate   = "end_date"
	ParamCountry   = "country"
	ParamSearch    = "search"
	ParamTop       = "top"
	ParamLimit     = "limit"
	ParamOffset    = "offset"
)

// Paging defaults
const (
	DefaultOrderLimit   = 50
	MaxOrderLimit       = 500
	DefaultLoadRunLimit = 20
)

// OrderListParams is the paging window of an order list request.
type OrderListParams struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// DefaultOrderListParams returns default values for order list params.
func DefaultOrderListParams() OrderListParams {
	return OrderListParams{Limit: DefaultOrderLimit}
}

// Clamp bounds limit to (0, MaxOrderLimit] and offset to >= 0.
func (p OrderListParams) Clamp() OrderListParams {
	if p.Limit <= 0 {
		p.Limit = DefaultOrderLimit
	}
	if p.Limit > MaxOrderLimit {
		p.Limit = MaxOrderLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
