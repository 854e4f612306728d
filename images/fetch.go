package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxImageBytes = 25 << 20

var (
	ErrNoURL       = errors.New("no image url")
	ErrNotImage    = errors.New("not a direct image link")
	ErrImageTooBig = errors.New("image exceeds size limit")
)

// Fetcher downloads the raw bytes behind an image URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches images over HTTP with a bounded timeout. Each report
// build owns one, so its connections die with the build.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates a fetcher with its own transport.
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: userAgent,
	}
}

// Fetch downloads url. Transport errors, non-2xx statuses and HTML responses
// (share pages instead of files) are failures.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if url == "" {
		return nil, ErrNoURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch image: %s", resp.Status)
	}
	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "text/html") {
		return nil, ErrNotImage
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image body: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, ErrImageTooBig
	}
	return data, nil
}

// Close drops idle keep-alive connections.
func (f *HTTPFetcher) Close() {
	f.client.CloseIdleConnections()
}
