package sources

import (
	"context"
	"fmt"

	"github.com/roemer/relwatch/pkg/common"
	"github.com/roemer/relwatch/pkg/parsers"
)

const defaultVersionSuffix = "-latest"

// Reads a single release from a JSON document.
type JsonReleaseSource struct {
	*sourceBase
}

func NewJsonReleaseSource(product *common.ProductConfig, settings *common.SourceSettings) common.ISource {
	return &JsonReleaseSource{
		sourceBase: newSourceBase(common.SOURCE_KIND_JSON_RELEASE, product, settings),
	}
}

func (s *JsonReleaseSource) GetReleases(ctx context.Context) ([]*common.ReleaseCandidate, error) {
	suffix := s.product.VersionSuffix
	if suffix == "" {
		suffix = defaultVersionSuffix
	}
	s.logger.Debug(fmt.Sprintf("Fetching release document from %s", s.product.Url))
	body, err := s.http().DownloadToMemory(ctx, s.product.Url, append(s.authModifiers(s.product.Url), common.WithAccept(common.ContentTypeJSON))...)
	if err != nil {
		return nil, err
	}
	result, err := parsers.ParseJsonRelease(body, suffix)
	if err != nil {
		return nil, err
	}
	return s.collect(result), nil
}
