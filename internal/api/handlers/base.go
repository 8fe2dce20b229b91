package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/eshaffer321/order-analytics/internal/api/dto"
	"github.com/eshaffer321/order-analytics/internal/domain/filter"
)

// Base provides shared functionality for all handlers.
type Base struct{}

// WriteJSON writes a JSON response with the given status code.
func (b *Base) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error response with the given status code.
func (b *Base) WriteError(w http.ResponseWriter, status int, err dto.APIError) {
	b.WriteJSON(w, status, err)
}

// ParseIntParam parses an integer query parameter with a default value.
func ParseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// ParseCriteria reads the dashboard filter from the query string. Date
// bounds are calendar days in loc; an inverted range is accepted and simply
// matches nothing.
func ParseCriteria(r *http.Request, loc *time.Location) (filter.Criteria, error) {
	q := r.URL.Query()

	// an absent period is left empty for the service default
	var period filter.Period
	if raw := q.Get(dto.ParamPeriod); raw != "" {
		p, err := filter.ParsePeriod(raw)
		if err != nil {
			return filter.Criteria{}, err
		}
		period = p
	}

	start, err := filter.ParseDay(q.Get(dto.ParamStartDate), loc)
	if err != nil {
		return filter.Criteria{}, fmt.Errorf("%s: %w", dto.ParamStartDate, err)
	}
	end, err := filter.ParseDay(q.Get(dto.ParamEndDate), loc)
	if err != nil {
		return filter.Criteria{}, fmt.Errorf("%s: %w", dto.ParamEndDate, err)
	}

	return filter.Criteria{
		DateStart: start,
		DateEnd:   end,
		Country:   strings.TrimSpace(q.Get(dto.ParamCountry)),
		Period:    period,
		Search:    strings.TrimSpace(q.Get(dto.ParamSearch)),
	}, nil
}
