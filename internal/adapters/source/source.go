// Package source fetches the raw order export from where it is published.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// OrderSource is the interface every order export location implements.
type OrderSource interface {
	// Name identifies the source in logs and load history
	Name() string

	// Fetch returns the raw payload bytes
	Fetch(ctx context.Context) ([]byte, error)
}

// Options configures New.
type Options struct {
	URL          string
	File         string
	Timeout      time.Duration
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	MaxBytes     int64
}

// ErrNoSource is returned when neither a URL nor a file is configured.
var ErrNoSource = errors.New("no order source configured")

// ErrPayloadTooLarge is returned when a payload exceeds the size cap.
var ErrPayloadTooLarge = errors.New("payload too large")

// DefaultMaxBytes caps payload size.
const DefaultMaxBytes = 64 << 20

// New builds the source described by opts. A URL takes precedence over a
// file path.
func New(opts Options, logger *slog.Logger) (OrderSource, error) {
	if logger == nil {
		logger = slog.Default()
	}

	switch {
	case opts.URL != "":
		src := NewHTTPSource(opts, logger)
		logger.Info("using http order source", slog.String("url", opts.URL), slog.Int("retries", opts.Retries))
		return src, nil
	case opts.File != "":
		logger.Info("using file order source", slog.String("path", opts.File))
		return NewFileSource(opts.File, opts.MaxBytes), nil
	default:
		return nil, ErrNoSource
	}
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
}

// readCapped reads all of r, failing with ErrPayloadTooLarge instead of
// truncating when r holds more than maxBytes.
func readCapped(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrPayloadTooLarge, maxBytes)
	}
	return data, nil
}
