package sources

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"code.gitea.io/sdk/gitea"
	"github.com/roemer/relwatch/pkg/common"
)

const giteaPageSize = 50

// Reads releases of a Gitea repository.
type GiteaReleasesSource struct {
	*sourceBase
}

func NewGiteaReleasesSource(product *common.ProductConfig, settings *common.SourceSettings) common.ISource {
	return &GiteaReleasesSource{
		sourceBase: newSourceBase(common.SOURCE_KIND_GITEA_RELEASES, product, settings),
	}
}

func (s *GiteaReleasesSource) GetReleases(ctx context.Context) ([]*common.ReleaseCandidate, error) {
	owner, repository, found := strings.Cut(s.product.Repository, "/")
	if !found {
		return nil, fmt.Errorf("repository '%s' is not in the form owner/name", s.product.Repository)
	}
	client, err := s.createClient(ctx)
	if err != nil {
		return nil, &common.NetworkError{Url: s.product.Registry, Err: err}
	}

	candidates := []*common.ReleaseCandidate{}
	for page := 1; ; page++ {
		giteaReleases, resp, err := client.ListReleases(owner, repository, gitea.ListReleasesOptions{
			ListOptions: gitea.ListOptions{Page: page, PageSize: giteaPageSize},
		})
		if err != nil {
			var httpResponse *http.Response
			if resp != nil {
				httpResponse = resp.Response
			}
			return nil, clientError(s.product.Repository, httpResponse, err)
		}
		for _, entry := range giteaReleases {
			if entry.IsDraft || entry.IsPrerelease {
				continue
			}
			timestamp := entry.PublishedAt
			if timestamp.IsZero() {
				timestamp = entry.CreatedAt
			}
			candidates = append(candidates, &common.ReleaseCandidate{
				Version:   strings.TrimPrefix(entry.TagName, "v"),
				Timestamp: timestamp.UTC(),
			})
		}
		if len(giteaReleases) < giteaPageSize {
			break
		}
	}
	return candidates, nil
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

func (s *GiteaReleasesSource) createClient(ctx context.Context) (*gitea.Client, error) {
	endpoint := "https://gitea.com"
	if s.product.Registry != "" {
		endpoint = trimUrl(s.product.Registry)
	}
	options := []gitea.ClientOption{
		gitea.SetContext(ctx),
		gitea.SetHTTPClient(s.http().Client()),
	}
	if credentials := s.credentials(endpoint); credentials != nil && credentials.TokenExpanded() != "" {
		options = append(options, gitea.SetToken(credentials.TokenExpanded()))
	}
	return gitea.NewClient(endpoint, options...)
}
