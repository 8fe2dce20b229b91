package dto

// StartRefreshResponse is returned when a refresh job is accepted.
type StartRefreshResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// RefreshJobResponse is the polled status of a refresh job.
type RefreshJobResponse struct {
	JobID       string  `json:"job_id"`
	Trigger     string  `json:"trigger"`
	Status      string  `json:"status"`
	StartedAt   string  `json:"started_at"`
	CompletedAt *string `json:"completed_at,omitempty"`
	Origin      string  `json:"origin,omitempty"`
	OrderCount  int     `json:"order_count"`
	Error       *string `json:"error,omitempty"`
}

// RefreshJobListResponse lists tracked refresh jobs.
type RefreshJobListResponse struct {
	Jobs  []RefreshJobResponse `json:"jobs"`
	Count int                  `json:"count"`
}
