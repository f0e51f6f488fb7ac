package sources

import (
	"context"
	"fmt"

	"github.com/roemer/relwatch/pkg/common"
	"github.com/roemer/relwatch/pkg/parsers"
)

// Upper limit of tag pages that are read per repository.
const maxTagPages = 10

// Reads releases from a Docker Hub style tag api.
type RegistryTagsSource struct {
	*sourceBase
}

func NewRegistryTagsSource(product *common.ProductConfig, settings *common.SourceSettings) common.ISource {
	return &RegistryTagsSource{
		sourceBase: newSourceBase(common.SOURCE_KIND_REGISTRY_TAGS, product, settings),
	}
}

func (s *RegistryTagsSource) GetReleases(ctx context.Context) ([]*common.ReleaseCandidate, error) {
	var lastErr error
	for _, repository := range s.product.ArtifactPaths() {
		candidates, err := s.getReleasesForRepository(ctx, repository)
		if err != nil {
			s.logger.Debug(fmt.Sprintf("Repository '%s' failed: %s", repository, err.Error()))
			lastErr = err
			continue
		}
		if len(candidates) > 0 {
			return candidates, nil
		}
		s.logger.Debug(fmt.Sprintf("Repository '%s' has no tags", repository))
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, nil
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

func (s *RegistryTagsSource) getReleasesForRepository(ctx context.Context, repository string) ([]*common.ReleaseCandidate, error) {
	pageUrl := fmt.Sprintf("%s/v2/repositories/%s/tags?page_size=100", trimUrl(s.product.Registry), repository)
	modifiers := s.authModifiers(s.product.Registry)

	candidates := []*common.ReleaseCandidate{}
	for page := 0; pageUrl != "" && page < maxTagPages; page++ {
		s.logger.Debug(fmt.Sprintf("Fetching tags from %s", pageUrl))
		body, err := s.http().DownloadToMemory(ctx, pageUrl, modifiers...)
		if err != nil {
			return nil, err
		}
		result, err := parsers.ParseRegistryTags(body)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, s.collect(result)...)
		if pageUrl, err = parsers.RegistryTagsNextPage(body); err != nil {
			return nil, err
		}
	}
	return candidates, nil
}
