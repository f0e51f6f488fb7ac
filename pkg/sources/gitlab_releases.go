package sources

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/roemer/relwatch/pkg/common"
	gitlab "gitlab.com/gitlab-org/api/client-go"
)

// Reads releases of a GitLab project.
type GitLabReleasesSource struct {
	*sourceBase
}

func NewGitLabReleasesSource(product *common.ProductConfig, settings *common.SourceSettings) common.ISource {
	return &GitLabReleasesSource{
		sourceBase: newSourceBase(common.SOURCE_KIND_GITLAB_RELEASES, product, settings),
	}
}

func (s *GitLabReleasesSource) GetReleases(ctx context.Context) ([]*common.ReleaseCandidate, error) {
	client, err := s.createClient()
	if err != nil {
		return nil, err
	}

	allReleases := []*gitlab.Release{}
	listOptions := &gitlab.ListReleasesOptions{ListOptions: gitlab.ListOptions{PerPage: 100}}
	for {
		gitLabReleases, resp, err := client.Releases.ListReleases(s.product.Repository, listOptions, gitlab.WithContext(ctx))
		if err != nil {
			return nil, clientError(s.product.Repository, gitLabResponse(resp, err), err)
		}
		allReleases = append(allReleases, gitLabReleases...)
		if resp.NextPage == 0 {
			break
		}
		listOptions.Page = resp.NextPage
	}

	candidates := []*common.ReleaseCandidate{}
	for _, entry := range allReleases {
		if entry.UpcomingRelease {
			continue
		}
		candidate := &common.ReleaseCandidate{Version: strings.TrimPrefix(entry.TagName, "v")}
		if entry.ReleasedAt != nil {
			candidate.Timestamp = entry.ReleasedAt.UTC()
		} else if entry.CreatedAt != nil {
			candidate.Timestamp = entry.CreatedAt.UTC()
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

// Gets the http response of a failed call, either from the response or from the error.
func gitLabResponse(resp *gitlab.Response, err error) *http.Response {
	if resp != nil && resp.Response != nil {
		return resp.Response
	}
	var errorResponse *gitlab.ErrorResponse
	if errors.As(err, &errorResponse) {
		return errorResponse.Response
	}
	return nil
}

func (s *GitLabReleasesSource) createClient() (*gitlab.Client, error) {
	apiUrl := "https://gitlab.com/api/v4"
	if s.product.Registry != "" {
		apiUrl = trimUrl(s.product.Registry)
	}
	token := ""
	if credentials := s.credentials(apiUrl); credentials != nil {
		token = credentials.TokenExpanded()
	}
	return gitlab.NewClient(token, gitlab.WithBaseURL(apiUrl), gitlab.WithHTTPClient(s.http().Client()))
}
