package relwatch

import (
	"context"

	"github.com/roemer/relwatch/pkg/common"
	"github.com/roemer/relwatch/pkg/config"
	"github.com/roemer/relwatch/pkg/engine"
	"github.com/roemer/relwatch/pkg/presets"
	"github.com/roemer/relwatch/pkg/sources"
)

// Get a source for the given product.
func GetSource(product *common.ProductConfig, settings *common.SourceSettings) (common.ISource, error) {
	return sources.GetSource(product, settings)
}

// Creates an engine for the given products.
func NewEngine(products []*common.ProductConfig, settings *engine.Settings) (*engine.Engine, error) {
	return engine.NewEngine(products, settings)
}

// Load the default configuration.
func LoadDefaultConfig(ctx context.Context) (*config.RelwatchConfig, error) {
	return LoadConfig(ctx, "preset:"+presets.DefaultPreset)
}

// Load a given configuration.
func LoadConfig(ctx context.Context, configPath string) (*config.RelwatchConfig, error) {
	return config.Load(ctx, configPath, nil)
}
