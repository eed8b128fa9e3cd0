package enums

import (
	"fmt"
	"strings"
)

// ArtisanStatus tracks the onboarding approval state of an artisan profile.
type ArtisanStatus string

const (
	ArtisanStatusPending  ArtisanStatus = "pending"
	ArtisanStatusApproved ArtisanStatus = "approved"
	ArtisanStatusRejected ArtisanStatus = "rejected"
)

var validArtisanStatuses = []ArtisanStatus{
	ArtisanStatusPending,
	ArtisanStatusApproved,
	ArtisanStatusRejected,
}

// String implements fmt.Stringer.
func (s ArtisanStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ArtisanStatus.
func (s ArtisanStatus) IsValid() bool {
	for _, candidate := range validArtisanStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseArtisanStatus converts raw input into an ArtisanStatus, ignoring
// case and surrounding whitespace.
func ParseArtisanStatus(value string) (ArtisanStatus, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validArtisanStatuses {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid artisan status %q", value)
}
