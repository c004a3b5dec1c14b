package githubauth_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bincrafters/default-branch/internal/githubauth"
)

func mapLookup(environment map[string]string) githubauth.EnvironmentLookup {
	return func(key string) (string, bool) {
		value, exists := environment[key]
		return value, exists
	}
}

func TestResolveCredentials(testInstance *testing.T) {
	testCases := []struct {
		name                string
		configuredUsername  string
		configuredToken     string
		environment         map[string]string
		expectedCredentials githubauth.Credentials
		expectedAnonymous   bool
	}{
		{
			name:                "configured_values_win",
			configuredUsername:  " octocat ",
			configuredToken:     "configured",
			environment:         map[string]string{githubauth.EnvGitHubCLIToken: "cli"},
			expectedCredentials: githubauth.Credentials{Username: "octocat", Token: "configured"},
		},
		{
			name:                "cli_token_preferred",
			environment:         map[string]string{githubauth.EnvGitHubCLIToken: "cli", githubauth.EnvGitHubToken: "github"},
			expectedCredentials: githubauth.Credentials{Token: "cli"},
		},
		{
			name:                "blank_values_skipped",
			environment:         map[string]string{githubauth.EnvGitHubCLIToken: "  ", githubauth.EnvGitHubAPIToken: "api"},
			expectedCredentials: githubauth.Credentials{Token: "api"},
		},
		{
			name:                "anonymous",
			configuredUsername:  "octocat",
			environment:         map[string]string{},
			expectedCredentials: githubauth.Credentials{Username: "octocat"},
			expectedAnonymous:   true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			credentials := githubauth.ResolveCredentials(testCase.configuredUsername, testCase.configuredToken, mapLookup(testCase.environment))
			require.Equal(testInstance, testCase.expectedCredentials, credentials)
			require.Equal(testInstance, testCase.expectedAnonymous, credentials.Anonymous())
		})
	}
}

func TestResolveTokenReadsProcessEnvironment(testInstance *testing.T) {
	testInstance.Setenv(githubauth.EnvGitHubCLIToken, "")
	testInstance.Setenv(githubauth.EnvGitHubToken, "process-token")

	token, found := githubauth.ResolveToken(nil)
	require.True(testInstance, found)
	require.Equal(testInstance, "process-token", token)
}
