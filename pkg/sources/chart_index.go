package sources

import (
	"context"
	"fmt"
	"path"

	"github.com/roemer/relwatch/pkg/common"
	"github.com/roemer/relwatch/pkg/parsers"
)

// Reads releases from a Helm chart repository index.
type ChartIndexSource struct {
	*sourceBase
}

func NewChartIndexSource(product *common.ProductConfig, settings *common.SourceSettings) common.ISource {
	return &ChartIndexSource{
		sourceBase: newSourceBase(common.SOURCE_KIND_CHART_INDEX, product, settings),
	}
}

func (s *ChartIndexSource) GetReleases(ctx context.Context) ([]*common.ReleaseCandidate, error) {
	indexUrl := s.product.Url
	if indexUrl == "" {
		indexUrl = fmt.Sprintf("%s/charts/%s/index.yaml", trimUrl(s.product.Registry), s.product.Repository)
	}
	chart := s.product.Chart
	if chart == "" && s.product.Repository != "" {
		chart = path.Base(s.product.Repository)
	}
	if chart == "" {
		chart = s.product.Product
	}

	s.logger.Debug(fmt.Sprintf("Fetching index from %s", indexUrl))
	index, err := s.http().DownloadToMemory(ctx, indexUrl, append(s.authModifiers(indexUrl), common.WithAccept(common.ContentTypeYAML, "*/*"))...)
	if err != nil {
		return nil, err
	}
	result, err := parsers.ParseChartIndex(index, chart)
	if err != nil {
		return nil, err
	}
	return s.collect(result), nil
}
