package sources

import (
	"context"
	"fmt"

	"github.com/roemer/relwatch/pkg/common"
	"github.com/roemer/relwatch/pkg/parsers"
	"github.com/roemer/relwatch/pkg/registryauth"
	"github.com/roemer/relwatch/pkg/selector"
)

var manifestContentTypes = []string{
	"application/vnd.oci.image.manifest.v1+json",
	"application/vnd.oci.image.index.v1+json",
	"application/vnd.docker.distribution.manifest.v2+json",
	"application/vnd.docker.distribution.manifest.list.v2+json",
}

// Reads releases from an OCI registry: tag list plus the creation time of each relevant manifest.
type OciRegistrySource struct {
	*sourceBase
	authenticator *registryauth.Authenticator
}

func NewOciRegistrySource(product *common.ProductConfig, settings *common.SourceSettings) common.ISource {
	newSource := &OciRegistrySource{
		sourceBase: newSourceBase(common.SOURCE_KIND_OCI_REGISTRY, product, settings),
	}
	newSource.authenticator = registryauth.NewAuthenticator(newSource.logger, settings.Http)
	return newSource
}

func (s *OciRegistrySource) GetReleases(ctx context.Context) ([]*common.ReleaseCandidate, error) {
	registry := trimUrl(s.product.Registry)
	credentials := s.credentials(registry)

	var lastErr error
	for _, repository := range s.product.ArtifactPaths() {
		// The token must be in place before the tag list is requested
		token, err := s.authenticator.GetToken(ctx, registry, repository, credentials)
		if err != nil {
			s.logger.Debug(fmt.Sprintf("Authentication for repository '%s' failed: %s", repository, err.Error()))
			lastErr = err
			continue
		}
		tags, err := s.getTags(ctx, registry, repository, token)
		if err != nil {
			s.logger.Debug(fmt.Sprintf("Repository '%s' failed: %s", repository, err.Error()))
			lastErr = err
			continue
		}
		if len(tags) == 0 {
			s.logger.Debug(fmt.Sprintf("Repository '%s' has no tags", repository))
			continue
		}
		return s.getCandidates(ctx, registry, repository, token, tags), nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, nil
}

////////////////////////////////////////////////////////////
// Internal
////////////////////////////////////////////////////////////

// Gets all tags of the repository, following the "Link" header of the registry.
func (s *OciRegistrySource) getTags(ctx context.Context, registry string, repository string, token *registryauth.Token) ([]string, error) {
	tags := []string{}
	pageUrl := fmt.Sprintf("%s/v2/%s/tags/list", registry, repository)
	for page := 0; pageUrl != "" && page < maxTagPages; page++ {
		s.logger.Debug(fmt.Sprintf("Fetching tags from %s", pageUrl))
		response, err := s.http().Fetch(ctx, pageUrl, token.Modifier())
		if err != nil {
			return nil, err
		}
		if !response.IsSuccess() {
			return nil, &common.HttpStatusError{Url: pageUrl, StatusCode: response.StatusCode}
		}
		pageTags, err := parsers.ParseTagList(response.Body)
		if err != nil {
			return nil, err
		}
		tags = append(tags, pageTags...)

		nextUrl, err := s.http().GetNextPageURL(response)
		if err != nil {
			return nil, err
		}
		pageUrl = ""
		if nextUrl != nil {
			pageUrl = nextUrl.String()
		}
	}
	return tags, nil
}

// Filters the tags and reads the creation time of the remaining ones, one after another.
func (s *OciRegistrySource) getCandidates(ctx context.Context, registry string, repository string, token *registryauth.Token, tags []string) []*common.ReleaseCandidate {
	tagCandidates := []*common.ReleaseCandidate{}
	for _, tag := range tags {
		if parsers.IsStrictVersion(tag) {
			tagCandidates = append(tagCandidates, &common.ReleaseCandidate{Version: tag})
		}
	}

	candidates := []*common.ReleaseCandidate{}
	for _, tagCandidate := range selector.Filter(tagCandidates, s.product.Branch) {
		manifestUrl := fmt.Sprintf("%s/v2/%s/manifests/%s", registry, repository, tagCandidate.Version)
		manifest, err := s.http().DownloadToMemory(ctx, manifestUrl, token.Modifier(), common.WithAccept(manifestContentTypes...))
		if err != nil {
			s.warn(fmt.Sprintf("failed reading the manifest of %s: %s", tagCandidate.Version, err.Error()))
			candidates = append(candidates, tagCandidate)
			continue
		}
		created, err := parsers.ParseManifestCreated(manifest)
		if err != nil {
			s.warn(err.Error())
		} else if created.IsZero() {
			s.logger.Debug(fmt.Sprintf("No creation time for tag %s", tagCandidate.Version))
		}
		candidates = append(candidates, &common.ReleaseCandidate{Version: tagCandidate.Version, Timestamp: created})
	}
	return candidates
}
