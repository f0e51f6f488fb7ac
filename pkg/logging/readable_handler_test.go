package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadableTextHandlerFormat(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	logger := slog.New(NewReadableTextHandler(&buf, nil))
	logger.With(slog.String("product", "mke")).Info("Resolved release", slog.String("version", "3.7.1"))

	parts := strings.Split(strings.TrimSpace(buf.String()), "|")
	assert.Len(parts, 5)
	assert.Equal("INFO", parts[2])
	assert.Equal("Resolved release", parts[3])
	assert.Equal("product=mke, version=3.7.1", parts[4])
}

func TestReadableTextHandlerLevel(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	logger := slog.New(NewReadableTextHandler(&buf, &ReadableTextHandlerOptions{Level: slog.LevelWarn}))
	logger.Info("hidden")
	assert.Empty(buf.String())
	logger.Warn("shown")
	assert.Contains(buf.String(), "|WARN|shown")
}

func TestReadableTextHandlerGroups(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	logger := slog.New(NewReadableTextHandler(&buf, nil))
	logger.WithGroup("source").Info("msg", slog.String("kind", "chart-index"))
	assert.Contains(buf.String(), "source.kind=chart-index")
}

func TestReadableTextHandlerSiblingsDoNotShareAttributes(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	base := slog.New(NewReadableTextHandler(&buf, nil)).With(slog.String("a", "1"))
	first := base.With(slog.String("b", "2"))
	second := base.With(slog.String("c", "3"))

	first.Info("first")
	second.Info("second")
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(lines, 2)
	assert.True(strings.HasSuffix(lines[0], "a=1, b=2"))
	assert.True(strings.HasSuffix(lines[1], "a=1, c=3"))
}
