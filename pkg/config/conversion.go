package config

import (
	"log/slog"

	"github.com/roemer/relwatch/pkg/common"
	"github.com/roemer/relwatch/pkg/engine"
)

// Creates the http client with the timeout and retries from the config.
func (cfg *RelwatchConfig) ToHttpUtil() *common.HttpUtil {
	return common.NewHttpUtil(cfg.GetRequestTimeout(), cfg.GetRetries())
}

// Creates the settings for the engine.
func (cfg *RelwatchConfig) ToEngineSettings(logger *slog.Logger, httpUtil *common.HttpUtil, reporter common.IReporter) *engine.Settings {
	return &engine.Settings{
		Logger:      logger,
		Http:        httpUtil,
		HostRules:   cfg.HostRules,
		CacheTtl:    cfg.GetCacheTtl(),
		Workers:     cfg.GetWorkers(),
		Reporter:    reporter,
		DocsBaseUrl: cfg.GetDocsBaseUrl(),
	}
}
