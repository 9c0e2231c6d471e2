// Package client provides HTTP implementations of the ledger's external
// collaborator ports: the permission authority, the asset transfer service
// and the yield reserve. Each collaborator exposes a small JSON API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"batched-savings-ledger/config"

	"github.com/rs/zerolog"
)

// baseClient holds what every collaborator client needs: a base URL, an HTTP
// client with the configured timeout, and a logger.
type baseClient struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func newBaseClient(cfg config.ClientConfig, log zerolog.Logger) baseClient {
	return baseClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     log,
	}
}

// do issues one JSON request and decodes a 2xx response body into out (when
// out is non-nil). It returns the HTTP status code so callers can map
// protocol-level statuses to domain errors; a non-nil error means the request
// never produced a usable response.
func (c *baseClient) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// statusError turns an unexpected HTTP status into an error naming the
// collaborator.
func statusError(collaborator string, status int) error {
	return fmt.Errorf("%s returned status %d", collaborator, status)
}
