package domain

import "github.com/google/uuid"

// ProfileRequest is one username to report on.
type ProfileRequest struct {
	Username string
	ID       string // Correlates log lines for a single request
}

// NewProfileRequest creates a request with a fresh correlation ID.
func NewProfileRequest(username string) ProfileRequest {
	return ProfileRequest{
		Username: username,
		ID:       uuid.NewString(),
	}
}

// Profile is the summary extracted from a remote profile document.
type Profile struct {
	Username   string
	BadgeCount int
	Category   string
	Points     string // Numeric literal exactly as it appeared in the document
}
