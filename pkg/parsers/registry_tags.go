package parsers

import "encoding/json"

type registryTagsPage struct {
	Next    string `json:"next"`
	Results []struct {
		Name          string `json:"name"`
		TagLastPushed string `json:"tag_last_pushed"`
	} `json:"results"`
}

// Parses a Docker Hub style tag listing. Only plain "x.y.z" tags with a valid push date are kept.
func ParseRegistryTags(body []byte) (ParseResult, error) {
	page, err := unmarshalRegistryTags(body)
	if err != nil {
		return ParseResult{}, err
	}
	result := ParseResult{}
	for _, tag := range page.Results {
		if !IsStrictVersion(tag.Name) || tag.TagLastPushed == "" {
			continue
		}
		pushed, err := parseIsoTimestamp(tag.TagLastPushed)
		if err != nil {
			result.addWarning("skipping tag %s: %v", tag.Name, err)
			continue
		}
		result.addCandidate(tag.Name, pushed)
	}
	return result, nil
}

// Gets the url of the next page of a tag listing or an empty string on the last page.
func RegistryTagsNextPage(body []byte) (string, error) {
	page, err := unmarshalRegistryTags(body)
	if err != nil {
		return "", err
	}
	return page.Next, nil
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

func unmarshalRegistryTags(body []byte) (*registryTagsPage, error) {
	page := &registryTagsPage{}
	if err := json.Unmarshal(body, page); err != nil {
		return nil, newParseError("registry tags", err)
	}
	return page, nil
}
