// Package fetch loads Fortio report collections from disk or over HTTP.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/benchgrid/internal/contract"
)

// maxBodyBytes bounds how much of a remote report collection is read.
const maxBodyBytes = 256 << 20

// FileSource reads a report collection from a local file.
type FileSource struct {
	Path string
}

var _ contract.ReportSource = (*FileSource)(nil)

// ID returns the absolute path of the file.
func (s *FileSource) ID() string {
	if abs, err := filepath.Abs(s.Path); err == nil {
		return abs
	}
	return s.Path
}

// Fingerprint returns the modification time and size of the file.
func (s *FileSource) Fingerprint(_ context.Context) (string, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", s.Path, err)
	}
	return fmt.Sprintf("%d:%d", info.ModTime().UnixNano(), info.Size()), nil
}

// Fetch reads the whole file.
func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	return data, nil
}

// HTTPSource downloads a report collection with a single GET request.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

var _ contract.ReportSource = (*HTTPSource)(nil)

// NewHTTPSource returns an HTTPSource whose requests time out after timeout.
func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{URL: url, Client: &http.Client{Timeout: timeout}}
}

// ID returns the URL.
func (s *HTTPSource) ID() string { return s.URL }

// Fingerprint returns the URL so that cached bodies expire by TTL only.
func (s *HTTPSource) Fingerprint(_ context.Context) (string, error) { return s.URL, nil }

// Fetch issues the GET request. Any non-2xx status is an error.
func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", s.URL, err)
	}
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.URL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %d", s.URL, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body from %s: %w", s.URL, err)
	}
	return data, nil
}

// NewSource picks a FileSource or HTTPSource for location.
func NewSource(location string, timeout time.Duration) contract.ReportSource {
	if contract.IsRemoteLocation(location) {
		return NewHTTPSource(location, timeout)
	}
	return &FileSource{Path: location}
}
