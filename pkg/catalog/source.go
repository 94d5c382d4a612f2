// Package catalog retrieves the read-only creature lists. A Source fetches a
// kind; Cached keeps the result on disk and in memory for the session.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tableflip.dev/critterdex/pkg/creature"
	"tableflip.dev/critterdex/pkg/log"
)

// Source fetches the catalog for one creature kind.
type Source interface {
	Fetch(ctx context.Context, kind creature.Kind) ([]creature.Creature, error)
}

// NetworkError reports a failed catalog request: a transport failure or a
// non-200 status.
type NetworkError struct {
	Kind   creature.Kind
	URL    string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("catalog: fetch %s from %s: status %d", e.Kind, e.URL, e.Status)
	}
	return fmt.Sprintf("catalog: fetch %s from %s: %v", e.Kind, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPSource talks to a Nookipedia-compatible API.
type HTTPSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHTTPSource(baseURL, apiKey string) *HTTPSource {
	return &HTTPSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (h *HTTPSource) Fetch(ctx context.Context, kind creature.Kind) ([]creature.Creature, error) {
	url := h.BaseURL + kind.Endpoint()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{Kind: kind, URL: url, Err: err}
	}
	if h.APIKey != "" {
		req.Header.Set("X-API-KEY", h.APIKey)
	}
	req.Header.Set("Accept-Version", "1.0.0")
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	log.Debug("catalog fetch start", "kind", kind, "url", url)
	resp, err := client.Do(req)
	if err != nil {
		return nil, &NetworkError{Kind: kind, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &NetworkError{Kind: kind, URL: url, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Kind: kind, URL: url, Err: err}
	}
	list, err := creature.Decode(body)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", kind, err)
	}
	log.Debug("catalog fetch success", "kind", kind, "count", len(list))
	return list, nil
}

// FileSource reads <Dir>/<kind>.json, for offline use and tests.
type FileSource struct {
	Dir string
}

func (f FileSource) Path(kind creature.Kind) string {
	return filepath.Join(f.Dir, string(kind)+".json")
}

func (f FileSource) Fetch(ctx context.Context, kind creature.Kind) ([]creature.Creature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(f.Path(kind))
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", kind, err)
	}
	list, err := creature.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", kind, err)
	}
	return list, nil
}
