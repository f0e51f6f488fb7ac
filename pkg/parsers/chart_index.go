package parsers

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

type chartIndex struct {
	Entries map[string][]struct {
		Name       string `yaml:"name"`
		Version    string `yaml:"version"`
		AppVersion string `yaml:"appVersion"`
		Created    rawScalar `yaml:"created"`
	} `yaml:"entries"`
}

// Parses a Helm / ChartMuseum index.yaml for the entries of the given chart.
func ParseChartIndex(index []byte, chart string) (ParseResult, error) {
	parsedIndex := chartIndex{}
	if err := yaml.Unmarshal(index, &parsedIndex); err != nil {
		return ParseResult{}, newParseError("chart index", err)
	}
	if parsedIndex.Entries == nil {
		return ParseResult{}, newParseError("chart index", fmt.Errorf("no entries found"))
	}

	result := ParseResult{}
	entries, ok := parsedIndex.Entries[chart]
	if !ok {
		result.addWarning("chart '%s' not found in index", chart)
		return result, nil
	}
	for _, entry := range entries {
		version := entry.AppVersion
		if version == "" {
			version = entry.Version
		}
		// Pre-releases are marked with a hyphen
		if version == "" || strings.Contains(version, "-") {
			continue
		}
		created, err := parseIsoTimestamp(string(entry.Created))
		if err != nil {
			result.addWarning("no valid creation date for version %s: %v", version, err)
		}
		result.addCandidate(version, created)
	}
	return result, nil
}

// Keeps the literal text of a scalar so timestamps are parsed by the own layouts.
type rawScalar string

func (s *rawScalar) UnmarshalYAML(data []byte) error {
	*s = rawScalar(strings.Trim(strings.TrimSpace(string(data)), `"'`))
	return nil
}
