package selector

import (
	"strconv"
	"strings"

	"github.com/roemer/gover"
	"github.com/roemer/relwatch/pkg/common"
)

// Selects the highest stable candidate, optionally restricted to a "major.minor" branch.
// Returns nil if no candidate survives the filter. On equal versions the first candidate wins.
func Select(candidates []*common.ReleaseCandidate, branch string) *common.ReleaseCandidate {
	var best *common.ReleaseCandidate
	var bestVersion *gover.Version
	for _, candidate := range Filter(candidates, branch) {
		version, ok := ParseVersion(candidate.Version)
		if !ok {
			continue
		}
		if best == nil || bestVersion.LessThan(version) {
			best = candidate
			bestVersion = version
		}
	}
	return best
}

// Removes pre-releases and candidates outside of the branch.
func Filter(candidates []*common.ReleaseCandidate, branch string) []*common.ReleaseCandidate {
	filtered := []*common.ReleaseCandidate{}
	for _, candidate := range candidates {
		if candidate == nil || IsPrerelease(candidate.Version) || !MatchesBranch(candidate.Version, branch) {
			continue
		}
		filtered = append(filtered, candidate)
	}
	return filtered
}

// Checks if the version is marked as pre-release (contains a hyphen).
func IsPrerelease(version string) bool {
	return strings.Contains(version, "-")
}

// Checks if the version belongs to the branch. An empty branch matches everything.
func MatchesBranch(version string, branch string) bool {
	if branch == "" {
		return true
	}
	return version == branch || strings.HasPrefix(version, branch+".")
}

// Parses the numeric segments of a version. Up to four segments are supported.
func ParseVersion(version string) (*gover.Version, bool) {
	segments := strings.Split(strings.TrimPrefix(version, "v"), ".")
	parts := make([]int, 0, len(segments))
	for _, segment := range segments {
		number, err := strconv.Atoi(segment)
		if err != nil || number < 0 {
			return nil, false
		}
		parts = append(parts, number)
	}
	switch len(parts) {
	case 1:
		return gover.ParseSimple(parts[0]), true
	case 2:
		return gover.ParseSimple(parts[0], parts[1]), true
	case 3:
		return gover.ParseSimple(parts[0], parts[1], parts[2]), true
	case 4:
		return gover.ParseSimple(parts[0], parts[1], parts[2], parts[3]), true
	}
	return nil, false
}
