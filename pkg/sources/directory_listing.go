package sources

import (
	"context"
	"fmt"

	"github.com/roemer/relwatch/pkg/common"
	"github.com/roemer/relwatch/pkg/parsers"
)

// Reads releases from a web server directory listing.
type DirectoryListingSource struct {
	*sourceBase
}

func NewDirectoryListingSource(product *common.ProductConfig, settings *common.SourceSettings) common.ISource {
	return &DirectoryListingSource{
		sourceBase: newSourceBase(common.SOURCE_KIND_DIRECTORY_LISTING, product, settings),
	}
}

func (s *DirectoryListingSource) GetReleases(ctx context.Context) ([]*common.ReleaseCandidate, error) {
	listingUrl := s.product.Url
	if listingUrl == "" {
		listingUrl = fmt.Sprintf("%s/win/static/%s/x86_64/", trimUrl(s.product.Repository), s.product.Channel)
	}
	s.logger.Debug(fmt.Sprintf("Fetching directory listing from %s", listingUrl))
	page, err := s.http().DownloadToMemory(ctx, listingUrl, s.authModifiers(listingUrl)...)
	if err != nil {
		return nil, err
	}
	result, err := parsers.ParseDirectoryListing(page, s.product.Component, s.product.Extension)
	if err != nil {
		return nil, err
	}
	return s.collect(result), nil
}
