package sources

import (
	"context"
	"fmt"

	"github.com/roemer/relwatch/pkg/common"
	"github.com/roemer/relwatch/pkg/parsers"
)

// Reads the latest release from the public release page of a GitHub repository.
type GitHubReleasePageSource struct {
	*sourceBase
}

func NewGitHubReleasePageSource(product *common.ProductConfig, settings *common.SourceSettings) common.ISource {
	return &GitHubReleasePageSource{
		sourceBase: newSourceBase(common.SOURCE_KIND_GITHUB_RELEASE_PAGE, product, settings),
	}
}

func (s *GitHubReleasePageSource) GetReleases(ctx context.Context) ([]*common.ReleaseCandidate, error) {
	pageUrl := s.product.Url
	if pageUrl == "" {
		pageUrl = fmt.Sprintf("https://github.com/%s/releases/latest", s.product.Repository)
	}
	s.logger.Debug(fmt.Sprintf("Fetching release page %s", pageUrl))
	response, err := s.http().Fetch(ctx, pageUrl, common.WithAccept(common.ContentTypeHTML))
	if err != nil {
		return nil, err
	}
	if !response.IsSuccess() {
		return nil, &common.HttpStatusError{Url: pageUrl, StatusCode: response.StatusCode}
	}
	result, err := parsers.ParseGitHubReleasePage(response.FinalUrl.String(), response.Body)
	if err != nil {
		return nil, err
	}
	return s.collect(result), nil
}
