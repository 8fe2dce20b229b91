package source

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads the export from a local file.
type FileSource struct {
	path     string
	maxBytes int64
}

// Compile-time check that FileSource implements OrderSource
var _ OrderSource = (*FileSource)(nil)

// NewFileSource creates a file source.
func NewFileSource(path string, maxBytes int64) *FileSource {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &FileSource{path: path, maxBytes: maxBytes}
}

// Name returns the file path.
func (s *FileSource) Name() string {
	return s.path
}

// Fetch reads the whole file.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", s.path, err)
	}
	defer f.Close()

	data, err := readCapped(f, s.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return data, nil
}
