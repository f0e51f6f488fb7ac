package parsers

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/roemer/relwatch/pkg/common"
)

// The result of parsing a source payload.
type ParseResult struct {
	// The release candidates found in the payload.
	Candidates []*common.ReleaseCandidate
	// Problems that did not prevent parsing, eg. a missing timestamp.
	Warnings []string
}

func (r *ParseResult) addCandidate(version string, timestamp time.Time) {
	r.Candidates = append(r.Candidates, &common.ReleaseCandidate{Version: version, Timestamp: timestamp})
}

func (r *ParseResult) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Matches versions like 1.2.3 without anything else.
var strictVersionRegex = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Checks if the given string is a plain "major.minor.patch" version.
func IsStrictVersion(version string) bool {
	return strictVersionRegex.MatchString(version)
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

// Layouts for ISO-8601 like timestamps. Values without a zone are treated as UTC.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z0700",
}

func parseIsoTimestamp(value string) (time.Time, error) {
	return parseTimestamp(value, isoLayouts...)
}

// Parses the value with the first matching layout and normalizes it to UTC.
func parseTimestamp(value string, layouts ...string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp '%s'", value)
}

func newParseError(subject string, err error) *common.ParseError {
	return &common.ParseError{Subject: subject, Err: err}
}
