package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// HTTPSource fetches the export over HTTP with retries on transient
// failures.
type HTTPSource struct {
	url      string
	maxBytes int64
	client   *retryablehttp.Client
}

// Compile-time check that HTTPSource implements OrderSource
var _ OrderSource = (*HTTPSource)(nil)

// NewHTTPSource creates an HTTP source for opts.URL.
func NewHTTPSource(opts Options, logger *slog.Logger) *HTTPSource {
	client := retryablehttp.NewClient()
	client.RetryMax = opts.Retries
	if opts.RetryWaitMin > 0 {
		client.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		client.RetryWaitMax = opts.RetryWaitMax
	}
	if opts.Timeout > 0 {
		client.HTTPClient.Timeout = opts.Timeout
	}
	// hand the final response back so non-2xx surfaces as StatusError
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if logger != nil {
		client.Logger = logger.With(slog.String("component", "http_source"))
	} else {
		client.Logger = nil
	}

	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	return &HTTPSource{url: opts.URL, maxBytes: maxBytes, client: client}
}

// Name returns the URL.
func (s *HTTPSource) Name() string {
	return s.url
}

// Fetch performs a GET and returns the body of a 2xx response.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: s.url, StatusCode: resp.StatusCode}
	}

	body, err := readCapped(resp.Body, s.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from %s: %w", s.url, err)
	}
	return body, nil
}
