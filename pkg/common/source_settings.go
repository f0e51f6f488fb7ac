package common

import "log/slog"

type SourceSettings struct {
	// The logger to use for the source.
	Logger *slog.Logger
	// Host rules that might apply when using this source.
	HostRules []*HostRule
	// The http client used for all requests.
	Http *HttpUtil
	// Receives warnings of the sources. Optional.
	Reporter IReporter
}

// Gets the credentials for the product, falling back to a matching host rule.
func (s *SourceSettings) CredentialsFor(product *ProductConfig, host string) *Credentials {
	if product.Credentials != nil {
		return product.Credentials
	}
	if hostRule := FindHostRule(s.HostRules, host); hostRule != nil {
		return &hostRule.Credentials
	}
	return nil
}
