package api

import (
	"net/http"
	"strings"

	"github.com/vilaca/treehouse-badges/internal/domain"
)

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// BaseClient contains common fields and functionality for all API clients.
type BaseClient struct {
	URLTemplate string
	UserAgent   string
	HTTPClient  HTTPClient
}

// NewBaseClient creates a new base client. An empty template falls back
// to the default profile endpoint.
func NewBaseClient(config ClientConfig, httpClient HTTPClient) *BaseClient {
	template := config.URLTemplate
	if template == "" {
		template = domain.DefaultProfileURLTemplate
	}

	return &BaseClient{
		URLTemplate: template,
		UserAgent:   config.UserAgent,
		HTTPClient:  httpClient,
	}
}

// ProfileURL substitutes username into the URL template verbatim.
func (c *BaseClient) ProfileURL(username string) string {
	return strings.ReplaceAll(c.URLTemplate, domain.UsernamePlaceholder, username)
}
