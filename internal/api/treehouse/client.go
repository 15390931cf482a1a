package treehouse

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/vilaca/treehouse-badges/internal/api"
)

// Client implements api.ProfileClient for the Treehouse profile endpoint.
// It only handles communication; decoding the document is left to the caller.
type Client struct {
	base *api.BaseClient
}

// NewClient creates a new Treehouse client.
// Uses dependency injection for HTTPClient so tests can stub the transport.
func NewClient(config api.ClientConfig, httpClient api.HTTPClient) *Client {
	return &Client{
		base: api.NewBaseClient(config, httpClient),
	}
}

// FetchProfile retrieves the raw profile document for username.
func (c *Client) FetchProfile(ctx context.Context, username string) ([]byte, error) {
	url := c.base.ProfileURL(username)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &api.TransportError{Err: err}
	}

	req.Header.Set("Accept", "application/json")
	if c.base.UserAgent != "" {
		req.Header.Set("User-Agent", c.base.UserAgent)
	}

	resp, err := c.base.HTTPClient.Do(req)
	if err != nil {
		return nil, &api.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused; the body is never parsed.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, api.NewStatusError(resp.StatusCode)
	}

	body, err := readBody(resp.Body)
	if err != nil {
		return nil, &api.TransportError{Err: err}
	}

	return body, nil
}

// readBody appends every fragment of r in arrival order until EOF.
func readBody(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
