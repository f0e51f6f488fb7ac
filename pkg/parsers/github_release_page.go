package parsers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"time"

	"golang.org/x/net/html"
)

var releaseTagUrlRegex = regexp.MustCompile(`/releases/tag/v?([^/?#]+)/?$`)

// Parses the "latest release" page of GitHub. The version is taken from the url the page
// redirected to, the timestamp from the first relative-time element.
// The timestamp is converted to UTC, a value without zone is read as UTC.
func ParseGitHubReleasePage(finalUrl string, page []byte) (ParseResult, error) {
	match := releaseTagUrlRegex.FindStringSubmatch(finalUrl)
	if match == nil {
		return ParseResult{}, newParseError("release page", fmt.Errorf("no release tag in url '%s'", finalUrl))
	}
	version := match[1]

	result := ParseResult{}
	datetime, err := findRelativeTime(page)
	if err != nil {
		return ParseResult{}, newParseError("release page", err)
	}
	var timestamp time.Time
	if datetime == "" {
		result.addWarning("no release date found for version %s", version)
	} else if timestamp, err = parseIsoTimestamp(datetime); err != nil {
		result.addWarning("invalid release date for version %s: %v", version, err)
	}
	result.addCandidate(version, timestamp)
	return result, nil
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

// Searches the datetime attribute of the first relative-time element.
func findRelativeTime(page []byte) (string, error) {
	tokenizer := html.NewTokenizer(bytes.NewReader(page))
	for {
		tokenType := tokenizer.Next()
		switch tokenType {
		case html.ErrorToken:
			if err := tokenizer.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return "", nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttributes := tokenizer.TagName()
			if string(name) != "relative-time" {
				continue
			}
			for hasAttributes {
				var key, value []byte
				key, value, hasAttributes = tokenizer.TagAttr()
				if string(key) == "datetime" {
					return string(value), nil
				}
			}
		}
	}
}
