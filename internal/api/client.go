package api

import (
	"context"
)

// ProfileClient defines the interface for remote profile services.
// Consumers depend on this interface, not on a concrete service client.
type ProfileClient interface {
	// FetchProfile returns the raw profile document for username.
	// A non-200 response yields a *StatusError; any failure to complete
	// the round trip yields a *TransportError.
	FetchProfile(ctx context.Context, username string) ([]byte, error)
}

// ClientConfig holds common configuration for API clients.
type ClientConfig struct {
	URLTemplate string
	UserAgent   string
}
