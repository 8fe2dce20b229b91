package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/order-analytics/internal/api/dto"
	"github.com/eshaffer321/order-analytics/internal/application/dashboard"
	"github.com/eshaffer321/order-analytics/internal/application/service"
	"github.com/eshaffer321/order-analytics/internal/domain/aggregate"
	"github.com/eshaffer321/order-analytics/internal/domain/currency"
	"github.com/eshaffer321/order-analytics/internal/domain/filter"
	"github.com/eshaffer321/order-analytics/internal/domain/order"
	"github.com/eshaffer321/order-analytics/internal/infrastructure/storage"
)

// money rounds to cents for the wire.
func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// percent rounds a change to one decimal place.
func percent(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func toTotals(t aggregate.Totals) dto.TotalsResponse {
	return dto.TotalsResponse{Sales: money(t.Sales), Orders: t.Orders, Products: t.Products}
}

func toStats(s aggregate.Stats) dto.StatsResponse {
	return dto.StatsResponse{
		Sales: dto.CurrencyTotalsResponse{
			USD:      money(s.Totals.USD),
			EUR:      money(s.Totals.EUR),
			Combined: money(s.Totals.Combined()),
		},
		Orders:          s.OrderCount,
		Products:        s.ProductCount,
		UniqueCustomers: s.UniqueCustomers,
		UniqueCountries: s.UniqueCountries,
	}
}

func toCountries(dist []aggregate.CountryTotal) []dto.CountryTotalResponse {
	out := make([]dto.CountryTotalResponse, 0, len(dist))
	for _, c := range dist {
		out = append(out, dto.CountryTotalResponse{
			Country:  c.Country,
			Currency: string(currency.ForCountry(c.Country)),
			Total:    money(c.Total),
		})
	}
	return out
}

func toProducts(products []aggregate.ProductQuantity) []dto.ProductResponse {
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, dto.ProductResponse{Product: p.Product, Quantity: p.Quantity})
	}
	return out
}

func toTrend(points []aggregate.DailyPoint) []dto.TrendPointResponse {
	out := make([]dto.TrendPointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, dto.TrendPointResponse{Date: p.Date, Total: money(p.Total), Orders: p.Orders})
	}
	return out
}

func toMonths(months []aggregate.MonthEntry) []dto.MonthResponse {
	out := make([]dto.MonthResponse, 0, len(months))
	for _, m := range months {
		out = append(out, dto.MonthResponse{
			Month:    int(m.Month),
			Name:     m.Name(),
			Sales:    money(m.Sales),
			Orders:   m.Orders,
			Products: m.Products,
			HasData:  m.HasData,
		})
	}
	return out
}

func toPeriod(p aggregate.PeriodSummary) dto.PeriodSummaryResponse {
	resp := dto.PeriodSummaryResponse{
		Period:  string(p.Period),
		Current: toTotals(p.Current),
		Year:    p.Year,
		Yearly:  toTotals(p.Yearly),
	}
	if p.Month != 0 {
		resp.Month = int(p.Month)
		resp.MonthName = aggregate.MonthName(p.Month)
	}
	if c := p.Comparison; c != nil {
		resp.Comparison = &dto.ComparisonResponse{
			Month:        int(c.Against),
			Name:         aggregate.MonthName(c.Against),
			Sales:        money(c.Sales),
			Orders:       c.Orders,
			SalesChange:  percent(c.SalesChange),
			OrdersChange: percent(c.OrdersChange),
		}
	}
	return resp
}

func toDaily(d aggregate.DailySummary) dto.DailySummaryResponse {
	resp := dto.DailySummaryResponse{
		Today:     toTotals(d.Today),
		Yesterday: toTotals(d.Yesterday),
	}
	if d.SalesChange != nil {
		change := percent(*d.SalesChange)
		resp.SalesChange = &change
	}
	return resp
}

func toOrder(o order.Order) dto.OrderResponse {
	resp := dto.OrderResponse{
		ID:            o.ID,
		DateValid:     o.DateValid,
		Total:         money(o.Total),
		Currency:      string(currency.ForCountry(o.Country)),
		Country:       o.Country,
		CustomerType:  o.CustomerType,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		Browser:       o.Browser,
		OS:            o.OS,
		Origin:        o.Origin,
		TrafficSource: o.TrafficSource,
		ProductCount:  o.ProductCount,
		Items:         make([]dto.LineItemResponse, 0, len(o.Items)),
	}
	if o.DateValid {
		resp.Date = formatTime(o.PurchasedAt)
	} else {
		resp.Date = o.RawDate
	}
	if o.HasAffiliate() {
		resp.Affiliate = o.Affiliate
	}
	for _, li := range o.Items {
		resp.Items = append(resp.Items, dto.LineItemResponse{
			Name:      li.Name,
			Quantity:  li.Quantity,
			UnitPrice: money(li.UnitPrice),
			Discount:  li.DiscountPercent.InexactFloat64(),
			Revenue:   money(li.Revenue()),
		})
	}
	return resp
}

func toOrders(orders []order.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrder(o))
	}
	return out
}

func toCriteria(c filter.Criteria) dto.CriteriaResponse {
	resp := dto.CriteriaResponse{
		Period:  string(c.Period),
		Country: c.Country,
		Search:  c.Search,
	}
	if !c.DateStart.IsZero() {
		resp.StartDate = c.DateStart.Format(filter.DateLayout)
	}
	if !c.DateEnd.IsZero() {
		resp.EndDate = c.DateEnd.Format(filter.DateLayout)
	}
	return resp
}

func toDashboard(v dashboard.View, state service.State) dto.DashboardResponse {
	return dto.DashboardResponse{
		Criteria:      toCriteria(v.Criteria),
		GeneratedAt:   formatTime(v.GeneratedAt),
		LoadedAt:      formatTime(state.LoadedAt),
		Origin:        string(state.Origin),
		Stats:         toStats(v.Stats),
		Countries:     toCountries(v.Countries),
		TopProducts:   toProducts(v.TopProducts),
		ChartProducts: toProducts(v.ChartProducts),
		Trend:         toTrend(v.Trend),
		Monthly:       toMonths(v.Monthly),
		Period:        toPeriod(v.Period),
		Daily:         toDaily(v.Daily),
		Orders:        toOrders(v.Orders),
		TotalOrders:   v.TotalOrders,
	}
}

func toNotices(notices []service.Notice) dto.NoticeListResponse {
	resp := dto.NoticeListResponse{
		Notices: make([]dto.NoticeResponse, 0, len(notices)),
		Count:   len(notices),
	}
	for _, n := range notices {
		resp.Notices = append(resp.Notices, dto.NoticeResponse{
			ID:        n.ID,
			Level:     string(n.Level),
			Message:   n.Message,
			ExpiresAt: formatTime(n.ExpiresAt),
		})
	}
	return resp
}

func toLoadRun(run storage.LoadRun) dto.LoadRunResponse {
	resp := dto.LoadRunResponse{
		ID:         run.ID,
		Trigger:    run.Trigger,
		StartedAt:  formatTime(run.StartedAt),
		Source:     run.Source,
		OrderCount: run.OrderCount,
		Status:     run.Status,
		Error:      run.Error,
	}
	if run.CompletedAt != nil {
		resp.CompletedAt = formatTime(*run.CompletedAt)
	}
	return resp
}

func toRefreshJob(job service.Job) dto.RefreshJobResponse {
	resp := dto.RefreshJobResponse{
		JobID:      job.ID,
		Trigger:    job.Trigger,
		Status:     string(job.Status),
		StartedAt:  formatTime(job.StartedAt),
		Origin:     string(job.Origin),
		OrderCount: job.OrderCount,
	}
	if job.CompletedAt != nil {
		completedAt := formatTime(*job.CompletedAt)
		resp.CompletedAt = &completedAt
	}
	if job.Error != "" {
		errMsg := job.Error
		resp.Error = &errMsg
	}
	return resp
}
