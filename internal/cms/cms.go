// Package cms reads content documents from the headless CMS and from the
// optional news feed.
package cms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"coalition_site/internal/model"
)

// ErrNotFound is returned when no document matches a lookup.
var ErrNotFound = errors.New("document not found")

// maxBody caps every response body read from upstream.
const maxBody = 5 * 1024 * 1024

const userAgent = "CoalitionSite/1.0"

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Source is a provider of content documents.
type Source interface {
	FetchAllOfType(ctx context.Context, kind model.Kind) ([]model.Document, error)
	FetchByUID(ctx context.Context, kind model.Kind, uid string) (*model.Document, error)
}

// get downloads url and returns its capped body.
func get(ctx context.Context, client HTTPClient, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
