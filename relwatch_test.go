package relwatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigCreatesEngine(t *testing.T) {
	assert := assert.New(t)

	cfg, err := LoadDefaultConfig(context.Background())
	assert.NoError(err)

	products, err := cfg.FilterProducts()
	assert.NoError(err)
	relwatchEngine, err := NewEngine(products, cfg.ToEngineSettings(nil, cfg.ToHttpUtil(), nil))
	assert.NoError(err)
	assert.Len(relwatchEngine.Products(), 3)
}
