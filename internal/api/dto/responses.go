package dto

import "time"

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Orders    int    `json:"orders"`
	Origin    string `json:"origin,omitempty"`
	LoadedAt  string `json:"loaded_at,omitempty"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// CurrencyTotalsResponse splits sales by currency.
type CurrencyTotalsResponse struct {
	USD      float64 `json:"usd"`
	EUR      float64 `json:"eur"`
	Combined float64 `json:"combined"`
}

// StatsResponse is the headline statistics block.
type StatsResponse struct {
	Sales           CurrencyTotalsResponse `json:"sales"`
	Orders          int                    `json:"orders"`
	Products        int                    `json:"products"`
	UniqueCustomers int                    `json:"unique_customers"`
	UniqueCountries int                    `json:"unique_countries"`
}

// CountryTotalResponse is one slice of the country distribution.
type CountryTotalResponse struct {
	Country  string  `json:"country"`
	Currency string  `json:"currency"`
	Total    float64 `json:"total"`
}

// ProductResponse is one bar of the product chart.
type ProductResponse struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// TrendPointResponse is one point of the sales trend.
type TrendPointResponse struct {
	Date   string  `json:"date"`
	Total  float64 `json:"total"`
	Orders int     `json:"orders"`
}

// TotalsResponse is a sales/orders/products triple.
type TotalsResponse struct {
	Sales    float64 `json:"sales"`
	Orders   int     `json:"orders"`
	Products int     `json:"products"`
}

// MonthResponse is one row of the monthly comparison.
type MonthResponse struct {
	Month    int     `json:"month"`
	Name     string  `json:"name"`
	Sales    float64 `json:"sales"`
	Orders   int     `json:"orders"`
	Products int     `json:"products"`
	HasData  bool    `json:"has_data"`
}

// MonthlyResponse is returned by GET /api/monthly.
type MonthlyResponse struct {
	Year   int             `json:"year"`
	Months []MonthResponse `json:"months"`
	Totals TotalsResponse  `json:"totals"`
}

// ComparisonResponse compares the selected month to an earlier one.
type ComparisonResponse struct {
	Month        int     `json:"month"`
	Name         string  `json:"name"`
	Sales        float64 `json:"sales"`
	Orders       int     `json:"orders"`
	SalesChange  float64 `json:"sales_change"`
	OrdersChange float64 `json:"orders_change"`
}

// PeriodSummaryResponse is the summary card of the selected period.
type PeriodSummaryResponse struct {
	Period     string              `json:"period"`
	Month      int                 `json:"month,omitempty"`
	MonthName  string              `json:"month_name,omitempty"`
	Current    TotalsResponse      `json:"current"`
	Comparison *ComparisonResponse `json:"comparison"`
	Year       int                 `json:"year"`
	Yearly     TotalsResponse      `json:"yearly"`
}

// DailySummaryResponse compares today with yesterday. SalesChange is null
// when yesterday had no sales.
type DailySummaryResponse struct {
	Today       TotalsResponse `json:"today"`
	Yesterday   TotalsResponse `json:"yesterday"`
	SalesChange *float64       `json:"sales_change"`
}

// LineItemResponse is one product of an order.
type LineItemResponse struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Discount  float64 `json:"discount"`
	Revenue   float64 `json:"revenue"`
}

// OrderResponse is one order of the order list.
type OrderResponse struct {
	ID            string             `json:"id"`
	Date          string             `json:"date"`
	DateValid     bool               `json:"date_valid"`
	Total         float64            `json:"total"`
	Currency      string             `json:"currency"`
	Country       string             `json:"country"`
	CustomerType  string             `json:"customer_type"`
	CustomerName  string             `json:"customer_name"`
	CustomerEmail string             `json:"customer_email"`
	CustomerPhone string             `json:"customer_phone"`
	Browser       string             `json:"browser"`
	OS            string             `json:"os"`
	Origin        string             `json:"origin"`
	TrafficSource string             `json:"traffic_source"`
	Affiliate     string             `json:"affiliate,omitempty"`
	ProductCount  int                `json:"product_count"`
	Items         []LineItemResponse `json:"items"`
}

// OrderListResponse is returned when listing orders.
type OrderListResponse struct {
	Orders     []OrderResponse `json:"orders"`
	TotalCount int             `json:"total_count"`
	Limit      int             `json:"limit"`
	Offset     int             `json:"offset"`
}

// CriteriaResponse echoes the criteria a view was computed for.
type CriteriaResponse struct {
	Period    string `json:"period"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Country   string `json:"country,omitempty"`
	Search    string `json:"search,omitempty"`
}

// DashboardResponse is the full dashboard view-model.
type DashboardResponse struct {
	Criteria      CriteriaResponse       `json:"criteria"`
	GeneratedAt   string                 `json:"generated_at"`
	LoadedAt      string                 `json:"loaded_at,omitempty"`
	Origin        string                 `json:"origin"`
	Stats         StatsResponse          `json:"stats"`
	Countries     []CountryTotalResponse `json:"countries"`
	TopProducts   []ProductResponse      `json:"top_products"`
	ChartProducts []ProductResponse      `json:"chart_products"`
	Trend         []TrendPointResponse   `json:"trend"`
	Monthly       []MonthResponse        `json:"monthly"`
	Period        PeriodSummaryResponse  `json:"period"`
	Daily         DailySummaryResponse   `json:"daily"`
	Orders        []OrderResponse        `json:"orders"`
	TotalOrders   int                    `json:"total_orders"`
}

// CountriesResponse lists the country filter options.
type CountriesResponse struct {
	Countries []string `json:"countries"`
	Count     int      `json:"count"`
}

// NoticeResponse is one dismissible notice.
type NoticeResponse struct {
	ID        string `json:"id"`
	Level     string `json:"level"`
	Message   string `json:"message"`
	ExpiresAt string `json:"expires_at"`
}

// NoticeListResponse lists active notices.
type NoticeListResponse struct {
	Notices []NoticeResponse `json:"notices"`
	Count   int              `json:"count"`
}

// LoadRunResponse is one recorded load.
type LoadRunResponse struct {
	ID          int64  `json:"id"`
	Trigger     string `json:"trigger"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at,omitempty"`
	Source      string `json:"source,omitempty"`
	OrderCount  int    `json:"order_count"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
}

// LoadRunListResponse is returned when listing load runs.
type LoadRunListResponse struct {
	Runs  []LoadRunResponse `json:"runs"`
	Count int               `json:"count"`
}

// MessageResponse is a generic message response.
type MessageResponse struct {
	Message string `json:"message"`
}
