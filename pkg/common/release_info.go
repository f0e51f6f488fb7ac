package common

import (
	"fmt"
	"time"
)

// This type contains one observed release of a product as reported by a source.
type ReleaseCandidate struct {
	// The version string of the release (dotted numeric with an optional pre-release suffix).
	Version string
	// The time when the release was published. The zero value means the source did not provide one.
	Timestamp time.Time
}

// Checks if the candidate carries a timestamp.
func (rc *ReleaseCandidate) HasTimestamp() bool {
	return !rc.Timestamp.IsZero()
}

func (rc *ReleaseCandidate) String() string {
	if !rc.HasTimestamp() {
		return rc.Version
	}
	return fmt.Sprintf("%s (%s)", rc.Version, rc.Timestamp.Format(time.DateTime))
}

// This type contains the selected release of a product.
type ResolvedRelease struct {
	// The id of the product the release belongs to.
	Product string
	// The version string of the release.
	Version string
	// The time when the release was published. The zero value means no timestamp is known.
	Timestamp time.Time
	// The time when the release was stored in the cache.
	ResolvedAt time.Time
}

// Checks if the resolved release carries a timestamp.
func (rr *ResolvedRelease) HasTimestamp() bool {
	return !rr.Timestamp.IsZero()
}
