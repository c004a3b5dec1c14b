package githubauth

import (
	"os"
	"strings"
)

// Environment variable names consulted when no token is configured explicitly.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

var tokenPreference = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// Credentials pairs an optional username with an API token.
type Credentials struct {
	Username string
	Token    string
}

// Anonymous reports whether no token is available.
func (credentials Credentials) Anonymous() bool {
	return len(credentials.Token) == 0
}

// ResolveCredentials returns the configured username and token, falling back
// to the first non-empty well-known token variable when no token is configured.
func ResolveCredentials(configuredUsername string, configuredToken string, environmentLookup EnvironmentLookup) Credentials {
	credentials := Credentials{
		Username: strings.TrimSpace(configuredUsername),
		Token:    strings.TrimSpace(configuredToken),
	}
	if len(credentials.Token) > 0 {
		return credentials
	}

	if environmentToken, found := ResolveToken(environmentLookup); found {
		credentials.Token = environmentToken
	}
	return credentials
}

// ResolveToken returns the first non-empty token among the well-known
// variables. A nil lookup reads the process environment.
func ResolveToken(environmentLookup EnvironmentLookup) (string, bool) {
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	for _, key := range tokenPreference {
		value, exists := environmentLookup(key)
		if !exists {
			continue
		}
		value = strings.TrimSpace(value)
		if len(value) > 0 {
			return value, true
		}
	}
	return "", false
}
