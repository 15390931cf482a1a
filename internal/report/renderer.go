package report

import (
	"fmt"

	"github.com/vilaca/treehouse-badges/internal/domain"
)

// Renderer formats report lines.
type Renderer interface {
	RenderProfile(profile *domain.Profile) string
	RenderStatusError(username, reason string) string
}

// TextRenderer implements Renderer with plain one-line messages.
type TextRenderer struct{}

// NewTextRenderer creates a new text renderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

func (r *TextRenderer) RenderProfile(profile *domain.Profile) string {
	return fmt.Sprintf("%s has %d total badge(s) and %s points in %s",
		profile.Username, profile.BadgeCount, profile.Points, profile.Category)
}

func (r *TextRenderer) RenderStatusError(username, reason string) string {
	return fmt.Sprintf("There was an error getting the profile for %s (%s)", username, reason)
}
