package parsers

import (
	"encoding/json"
	"fmt"
	"time"
)

const createdAnnotation = "org.opencontainers.image.created"

// Parses an OCI tag list and returns the tag names.
func ParseTagList(body []byte) ([]string, error) {
	tagList := struct {
		Name string   `json:"name"`
		Tags []string `json:"tags"`
	}{}
	if err := json.Unmarshal(body, &tagList); err != nil {
		return nil, newParseError("tag list", err)
	}
	return tagList.Tags, nil
}

// Reads the creation time from the annotations of a manifest or its config.
// A missing annotation returns the zero time without an error.
func ParseManifestCreated(manifest []byte) (time.Time, error) {
	parsedManifest := struct {
		Annotations map[string]string `json:"annotations"`
		Config      struct {
			Annotations map[string]string `json:"annotations"`
		} `json:"config"`
	}{}
	if err := json.Unmarshal(manifest, &parsedManifest); err != nil {
		return time.Time{}, newParseError("manifest", err)
	}

	created, ok := parsedManifest.Annotations[createdAnnotation]
	if !ok || created == "" {
		created = parsedManifest.Config.Annotations[createdAnnotation]
	}
	if created == "" {
		return time.Time{}, nil
	}
	timestamp, err := parseIsoTimestamp(created)
	if err != nil {
		return time.Time{}, newParseError("manifest", fmt.Errorf("invalid %s annotation: %w", createdAnnotation, err))
	}
	return timestamp, nil
}
