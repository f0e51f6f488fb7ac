package parsers

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Parses a JSON document with a "version" and a "releaseDate". The suffix is stripped from the version.
func ParseJsonRelease(body []byte, suffix string) (ParseResult, error) {
	release := struct {
		Version     string `json:"version"`
		ReleaseDate string `json:"releaseDate"`
	}{}
	if err := json.Unmarshal(body, &release); err != nil {
		return ParseResult{}, newParseError("release document", err)
	}
	if release.Version == "" {
		return ParseResult{}, newParseError("release document", fmt.Errorf("no version found"))
	}

	result := ParseResult{}
	version := strings.TrimSuffix(release.Version, suffix)
	releaseDate, err := parseIsoTimestamp(release.ReleaseDate)
	if err != nil {
		result.addWarning("no valid release date for version %s: %v", version, err)
	}
	result.addCandidate(version, releaseDate)
	return result, nil
}
