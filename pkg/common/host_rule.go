package common

import (
	"os"
	"strings"
)

// Credentials that are used to authenticate against an upstream.
type Credentials struct {
	// The username to authenticate with the host.
	Username string `json:"username" yaml:"username"`
	// The password to authenticate with the host.
	Password string `json:"password" yaml:"password"`
	// A token to authenticate with the host.
	Token string `json:"token" yaml:"token"`
}

// Expands the username with environment variables.
func (c *Credentials) UsernameExpanded() string {
	return os.ExpandEnv(c.Username)
}

// Expands the password with environment variables.
func (c *Credentials) PasswordExpanded() string {
	return os.ExpandEnv(c.Password)
}

// Expands the token with environment variables.
func (c *Credentials) TokenExpanded() string {
	return os.ExpandEnv(c.Token)
}

// Checks if a username and a password are set.
func (c *Credentials) HasBasicAuth() bool {
	return c != nil && len(c.UsernameExpanded()) > 0 && len(c.PasswordExpanded()) > 0
}

// A host rule that is applied when using a certain host.
type HostRule struct {
	// The host that needs to match in order to use this rule.
	MatchHost   string `json:"matchHost" yaml:"matchHost"`
	Credentials `json:",inline" yaml:",inline"`
}

// Checks if the rule applies to the given host or url.
func (hr *HostRule) Matches(host string) bool {
	return hr.MatchHost != "" && strings.Contains(host, hr.MatchHost)
}

// Searches the first host rule that matches the given host.
func FindHostRule(hostRules []*HostRule, host string) *HostRule {
	for _, hostRule := range hostRules {
		if hostRule.Matches(host) {
			return hostRule
		}
	}
	return nil
}
