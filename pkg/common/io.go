package common

import (
	"errors"
	"os"

	"github.com/bmatcuk/doublestar/v4"
)

func FileExists(filePath string) (bool, error) {
	info, err := os.Stat(filePath)
	if err == nil {
		return !info.IsDir(), nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Checks if the given value matches at least one of the given glob patterns.
// Without patterns, everything matches.
func MatchesAnyPattern(value string, patterns ...string) (bool, error) {
	if len(patterns) == 0 {
		return true, nil
	}
	for _, pattern := range patterns {
		isMatch, err := doublestar.Match(pattern, value)
		if err != nil {
			return false, err
		}
		if isMatch {
			return true, nil
		}
	}
	return false, nil
}
