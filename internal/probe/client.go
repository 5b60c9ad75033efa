package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	json "github.com/goccy/go-json"
)

// client issues catalog requests.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// get fetches path with query and decodes the JSON body into out.
func (c *client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s returned %d", ErrStatus, path, resp.StatusCode)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *client) shuffled(ctx context.Context) (Page, error) {
	var p Page
	err := c.get(ctx, "/api/movies", url.Values{"random": {"true"}}, &p)
	return p, err
}

func (c *client) curated(ctx context.Context, limit int) (Page, error) {
	var p Page
	err := c.get(ctx, "/api/movies", url.Values{"curated": {"true"}, "limit": {fmt.Sprint(limit)}}, &p)
	return p, err
}

func (c *client) titles(ctx context.Context) ([]Film, error) {
	var refs []Film
	err := c.get(ctx, "/api/movies/titles", nil, &refs)
	return refs, err
}

func (c *client) health(ctx context.Context) error {
	if err := c.get(ctx, "/healthz", nil, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	return nil
}
