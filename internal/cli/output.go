package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/eshaffer321/order-analytics/internal/application/dashboard"
	"github.com/eshaffer321/order-analytics/internal/application/loader"
	"github.com/eshaffer321/order-analytics/internal/application/service"
	"github.com/eshaffer321/order-analytics/internal/domain/aggregate"
	"github.com/eshaffer321/order-analytics/internal/domain/currency"
)

// amounts and counts use en-US grouping, matching the dashboard
var printer = message.NewPrinter(language.AmericanEnglish)

const rule = "------------------------------------------------------------"

func formatMoney(code currency.Code, d decimal.Decimal) string {
	return code.Symbol() + printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

func formatChange(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}

// PrintSummary writes the dashboard view as plain text.
func PrintSummary(w io.Writer, view dashboard.View, state service.State) {
	fmt.Fprintf(w, "Order analytics | period: %s", view.Criteria.Period)
	if view.Criteria.Country != "" {
		fmt.Fprintf(w, " | country: %s", view.Criteria.Country)
	}
	if !state.LoadedAt.IsZero() {
		fmt.Fprintf(w, " | data: %s at %s", state.Origin, state.LoadedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)

	stats := view.Stats
	fmt.Fprintf(w, "Orders:            %s\n", formatCount(stats.OrderCount))
	fmt.Fprintf(w, "Sales (USD):       %s\n", formatMoney(currency.USD, stats.Totals.USD))
	fmt.Fprintf(w, "Sales (EUR):       %s\n", formatMoney(currency.EUR, stats.Totals.EUR))
	fmt.Fprintf(w, "Products sold:     %s\n", formatCount(stats.ProductCount))
	fmt.Fprintf(w, "Unique customers:  %s\n", formatCount(stats.UniqueCustomers))
	fmt.Fprintf(w, "Unique countries:  %s\n", formatCount(stats.UniqueCountries))

	printPeriod(w, view.Period)
	printDaily(w, view.Daily)

	if len(view.TopProducts) > 0 {
		fmt.Fprintln(w, "\nTop products:")
		for i, p := range view.TopProducts {
			fmt.Fprintf(w, "  %2d. %-40s %s\n", i+1, p.Product, formatCount(p.Quantity))
		}
	}

	if len(view.Countries) > 0 {
		fmt.Fprintln(w, "\nSales by country:")
		for _, c := range view.Countries {
			fmt.Fprintf(w, "  %-24s %s\n", c.Country, formatMoney(currency.ForCountry(c.Country), c.Total))
		}
	}
}

func printPeriod(w io.Writer, p aggregate.PeriodSummary) {
	fmt.Fprintln(w)
	if p.Month != 0 {
		fmt.Fprintf(w, "%s %d: ", aggregate.MonthName(p.Month), p.Year)
	} else {
		fmt.Fprintf(w, "Period %s: ", p.Period)
	}
	fmt.Fprintf(w, "sales %s, orders %s, products %s\n",
		formatMoney(currency.USD, p.Current.Sales), formatCount(p.Current.Orders), formatCount(p.Current.Products))

	if c := p.Comparison; c != nil {
		fmt.Fprintf(w, "  vs %s: sales %s, orders %s\n",
			aggregate.MonthName(c.Against), formatChange(c.SalesChange), formatChange(c.OrdersChange))
	}
	fmt.Fprintf(w, "Year %d: sales %s, orders %s, products %s\n", p.Year,
		formatMoney(currency.USD, p.Yearly.Sales), formatCount(p.Yearly.Orders), formatCount(p.Yearly.Products))
}

func printDaily(w io.Writer, d aggregate.DailySummary) {
	change := "N/A"
	if d.SalesChange != nil {
		change = formatChange(*d.SalesChange)
	}
	fmt.Fprintf(w, "Today: %s (%s orders) | Yesterday: %s (%s orders) | Change: %s\n",
		formatMoney(currency.USD, d.Today.Sales), formatCount(d.Today.Orders),
		formatMoney(currency.USD, d.Yesterday.Sales), formatCount(d.Yesterday.Orders),
		change)
}

// PrintRefresh reports where a load got its data and any notices.
func PrintRefresh(w io.Writer, result *loader.Result) {
	fmt.Fprintf(w, "Loaded %s orders from %s in %s (%s today)\n",
		formatCount(len(result.Orders)), result.Origin,
		result.Duration.Round(time.Millisecond), formatCount(len(result.Today)))
	for _, n := range result.Notices {
		fmt.Fprintf(w, "  [%s] %s\n", strings.ToUpper(string(n.Level)), n.Message)
	}
}

// PrintExport reports a written workbook.
func PrintExport(w io.Writer, path string, size int) {
	fmt.Fprintf(w, "Wrote %s (%s bytes)\n", path, formatCount(size))
}
