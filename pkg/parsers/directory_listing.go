package parsers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var directoryListingLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"02-Jan-2006 15:04",
}

const directoryListingDatePattern = `(\d{4}-\d{2}-\d{2}[ T]\d{2}:\d{2}(?::\d{2})?|\d{2}-[A-Za-z]{3}-\d{4}\s+\d{2}:\d{2})`

// Parses a directory listing (HTML or plain text) for files named "<component>-<x.y.z>.<extension>"
// which are followed by a date and time.
func ParseDirectoryListing(page []byte, component string, extension string) (ParseResult, error) {
	result := ParseResult{}
	if component == "" {
		return result, newParseError("directory listing", fmt.Errorf("no component given"))
	}
	if extension == "" {
		extension = "zip"
	}

	text, err := extractText(page)
	if err != nil {
		return ParseResult{}, newParseError("directory listing", err)
	}

	fileRegex := DirectoryListingFileRegex(component, extension)
	entryRegex := regexp.MustCompile(fileRegex.String() + `\s+` + directoryListingDatePattern)
	for _, match := range entryRegex.FindAllStringSubmatch(text, -1) {
		version := match[1]
		timestamp, err := parseTimestamp(strings.Join(strings.Fields(match[2]), " "), directoryListingLayouts...)
		if err != nil {
			result.addWarning("invalid date for version %s: %v", version, err)
		}
		result.addCandidate(version, timestamp)
	}
	return result, nil
}

// Gets the regex which matches a released file name and captures its version.
func DirectoryListingFileRegex(component string, extension string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^\w-])` + regexp.QuoteMeta(component) + `-(\d+\.\d+\.\d+)\.` + regexp.QuoteMeta(extension))
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

// Gets the text content of an HTML page. Plain text is returned as is.
func extractText(page []byte) (string, error) {
	if !bytes.Contains(page, []byte("<")) {
		return string(page), nil
	}
	var sb strings.Builder
	tokenizer := html.NewTokenizer(bytes.NewReader(page))
	skipDepth := 0
	for {
		tokenType := tokenizer.Next()
		switch tokenType {
		case html.ErrorToken:
			if err := tokenizer.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return sb.String(), nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style":
				if tokenType == html.StartTagToken {
					skipDepth++
				}
			case "br", "tr":
				sb.WriteString("\n")
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style":
				skipDepth = max(skipDepth-1, 0)
			case "td", "th":
				// Keep table cells apart
				sb.WriteString(" ")
			case "tr", "pre":
				sb.WriteString("\n")
			}
		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(tokenizer.Text())
			}
		}
	}
}
