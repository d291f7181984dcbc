package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/dtnitsch/versions-page/pkg/storage"
)

// Response is the settled result of a single retrieval.
type Response struct {
	URL        string
	StatusCode int
	Body       []byte
}

// OK reports whether the status is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// RetrieveFunc performs one retrieval. An error means no response was
// produced at all; a non-2xx status is returned as a Response.
type RetrieveFunc func(ctx context.Context, target string) (*Response, error)

type Fetcher struct {
	client    *http.Client
	store     *storage.Storage
	userAgent string
}

func NewFetcher(userAgent string) *Fetcher {
	return &Fetcher{
		client:    &http.Client{},
		store:     &storage.Storage{},
		userAgent: userAgent,
	}
}

// Retrieve fetches target over http(s) or from the local filesystem for
// file URLs. It has the RetrieveFunc signature.
func (f *Fetcher) Retrieve(ctx context.Context, target string) (*Response, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", target, err)
	}

	switch u.Scheme {
	case "http", "https":
		return f.getHTTP(ctx, target)
	case "file", "":
		return f.getFile(target, u.Path)
	default:
		return nil, fmt.Errorf("unsupported scheme %q in %s", u.Scheme, target)
	}
}

func (f *Fetcher) getHTTP(ctx context.Context, target string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build HTTP request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return &Response{URL: target, StatusCode: resp.StatusCode, Body: bodyBytes}, nil
}

// getFile maps filesystem outcomes onto HTTP statuses so callers can treat
// a local docs tree the same way as a served one.
func (f *Fetcher) getFile(target, path string) (*Response, error) {
	if !f.store.HasFile(path) {
		return &Response{URL: target, StatusCode: http.StatusNotFound}, nil
	}

	data, err := f.store.ReadFile(path)
	switch {
	case err == nil:
		return &Response{URL: target, StatusCode: http.StatusOK, Body: data}, nil
	case errors.Is(err, fs.ErrNotExist):
		return &Response{URL: target, StatusCode: http.StatusNotFound}, nil
	case errors.Is(err, fs.ErrPermission):
		return &Response{URL: target, StatusCode: http.StatusForbidden}, nil
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
}
