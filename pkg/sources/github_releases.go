package sources

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v80/github"
	"github.com/roemer/relwatch/pkg/common"
)

// Reads releases with the GitHub REST api.
type GitHubReleasesSource struct {
	*sourceBase
}

func NewGitHubReleasesSource(product *common.ProductConfig, settings *common.SourceSettings) common.ISource {
	return &GitHubReleasesSource{
		sourceBase: newSourceBase(common.SOURCE_KIND_GITHUB_RELEASES, product, settings),
	}
}

func (s *GitHubReleasesSource) GetReleases(ctx context.Context) ([]*common.ReleaseCandidate, error) {
	client, err := s.createClient()
	if err != nil {
		return nil, err
	}
	owner, repository, found := strings.Cut(s.product.Repository, "/")
	if !found {
		return nil, fmt.Errorf("repository '%s' is not in the form owner/name", s.product.Repository)
	}

	allReleases := []*github.RepositoryRelease{}
	listOptions := &github.ListOptions{PerPage: 100}
	for {
		gitHubReleases, resp, err := client.Repositories.ListReleases(ctx, owner, repository, listOptions)
		if err != nil {
			return nil, clientError(s.product.Repository, gitHubResponse(resp, err), err)
		}
		allReleases = append(allReleases, gitHubReleases...)
		if resp.NextPage == 0 {
			break
		}
		listOptions.Page = resp.NextPage
	}

	candidates := []*common.ReleaseCandidate{}
	for _, entry := range allReleases {
		if entry.GetDraft() || entry.GetPrerelease() {
			continue
		}
		candidates = append(candidates, &common.ReleaseCandidate{
			Version:   strings.TrimPrefix(entry.GetTagName(), "v"),
			Timestamp: entry.GetPublishedAt().Time.UTC(),
		})
	}
	return candidates, nil
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

// Gets the http response of a failed call, either from the response or from the error.
func gitHubResponse(resp *github.Response, err error) *http.Response {
	if resp != nil && resp.Response != nil {
		return resp.Response
	}
	var errorResponse *github.ErrorResponse
	if errors.As(err, &errorResponse) {
		return errorResponse.Response
	}
	return nil
}

func (s *GitHubReleasesSource) createClient() (*github.Client, error) {
	apiUrl := "https://api.github.com/"
	if s.product.Registry != "" {
		apiUrl = trimUrl(s.product.Registry) + "/"
	}
	client := github.NewClient(s.http().Client())
	if s.product.Registry != "" {
		baseUrl, err := url.Parse(apiUrl)
		if err != nil {
			return nil, fmt.Errorf("failed parsing the api url '%s': %w", apiUrl, err)
		}
		client.BaseURL = baseUrl
	}
	// Add the token to the client
	if credentials := s.credentials(apiUrl); credentials != nil && credentials.TokenExpanded() != "" {
		client = client.WithAuthToken(credentials.TokenExpanded())
	}
	return client, nil
}
