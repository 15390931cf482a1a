package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/vilaca/treehouse-badges/internal/domain"
)

// ParseError is returned when a profile document cannot be decoded into a
// domain.Profile.
type ParseError struct {
	Err error
}

// Error returns the decoder's message unchanged.
func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// profileDocument is the subset of the remote document we read.
// Nil fields mean the key was absent or null.
type profileDocument struct {
	Badges *[]json.RawMessage         `json:"badges"`
	Points map[string]json.RawMessage `json:"points"`
}

// Decoder turns raw profile documents into domain profiles.
type Decoder struct {
	category      string
	missingPoints domain.MissingPointsPolicy
}

// NewDecoder creates a decoder for the given points category.
func NewDecoder(category string, missingPoints domain.MissingPointsPolicy) *Decoder {
	if category == "" {
		category = domain.DefaultPointsCategory
	}
	if !missingPoints.Valid() {
		missingPoints = domain.MissingPointsError
	}

	return &Decoder{
		category:      category,
		missingPoints: missingPoints,
	}
}

// Decode parses body as the profile of username.
func (d *Decoder) Decode(username string, body []byte) (*domain.Profile, error) {
	var doc profileDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}

	if doc.Badges == nil {
		return nil, &ParseError{Err: fmt.Errorf("profile for %s has no badges list", username)}
	}
	if doc.Points == nil {
		return nil, &ParseError{Err: fmt.Errorf("profile for %s has no points", username)}
	}

	points, err := d.categoryPoints(username, doc.Points[d.category])
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	return &domain.Profile{
		Username:   username,
		BadgeCount: len(*doc.Badges),
		Category:   d.category,
		Points:     points,
	}, nil
}

// categoryPoints decodes the reported category's value. Only that category
// has to be numeric; a quoted number is not a number.
func (d *Decoder) categoryPoints(username string, raw json.RawMessage) (string, error) {
	var value interface{}
	if len(raw) > 0 {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&value); err != nil {
			return "", err
		}
	}

	switch v := value.(type) {
	case nil:
		if d.missingPoints != domain.MissingPointsZero {
			return "", fmt.Errorf("profile for %s has no %s points", username, d.category)
		}
		return "0", nil
	case json.Number:
		return formatPoints(v)
	default:
		return "", fmt.Errorf("profile for %s has non-numeric %s points", username, d.category)
	}
}

// formatPoints prints n in its shortest decimal form, so 2e6 and 2000000.0
// both print as 2000000.
func formatPoints(n json.Number) (string, error) {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	f, err := n.Float64()
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}
