package domain

// Profile endpoint defaults
const (
	// UsernamePlaceholder is replaced by the username in a URL template
	UsernamePlaceholder = "{username}"
	// DefaultProfileURLTemplate points at the public profile-as-JSON endpoint
	DefaultProfileURLTemplate = "https://teamtreehouse.com/" + UsernamePlaceholder + ".json"
	// DefaultPointsCategory is the points category reported on
	DefaultPointsCategory = "JavaScript"
)

// MissingPointsPolicy decides what happens when a profile has no points
// for the reported category.
type MissingPointsPolicy string

const (
	// MissingPointsError reports the profile as unparseable
	MissingPointsError MissingPointsPolicy = "error"
	// MissingPointsZero reports zero points
	MissingPointsZero MissingPointsPolicy = "zero"
)

// Valid returns true if p is a known policy.
func (p MissingPointsPolicy) Valid() bool {
	return p == MissingPointsError || p == MissingPointsZero
}
