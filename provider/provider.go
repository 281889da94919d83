package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sig-0/fxquotes/storage/types"
)

// DefaultTimeout is the fixed per-page fetch timeout
const DefaultTimeout = 12 * time.Second

// maxPageSize caps how much of a page body is read
const maxPageSize = 8 << 20

var errInvalidStatus = errors.New("invalid status code received")

// browserHeaders is the fixed header set sent with every page request
var browserHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language":           "en-US,en;q=0.9",
	"Referer":                   "https://www.google.com/",
	"Connection":                "keep-alive",
	"Upgrade-Insecure-Requests": "1",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
}

// Fetcher retrieves the raw markup of a source page
type Fetcher interface {
	// Fetch returns the page body, or an error if the page is unavailable
	Fetch(context.Context, types.Source) ([]byte, error)
}

// PageFetcher is the HTTP source page fetcher
type PageFetcher struct {
	client *http.Client
}

// NewPageFetcher creates a new page fetcher with the given fixed timeout
func NewPageFetcher(timeout time.Duration) *PageFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &PageFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (f *PageFetcher) Fetch(ctx context.Context, source types.Source) ([]byte, error) {
	// Prepare the request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("unable to create new GET request: %w", err)
	}

	for key, value := range browserHeaders {
		req.Header.Set(key, value)
	}

	// Execute the request
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to execute GET request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", errInvalidStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("unable to read page body: %w", err)
	}

	return body, nil
}
