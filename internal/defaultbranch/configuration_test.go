package defaultbranch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bincrafters/default-branch/internal/defaultbranch"
)

func TestConfigurationSanitize(testInstance *testing.T) {
	testCases := []struct {
		name          string
		configuration defaultbranch.Configuration
		expected      defaultbranch.Configuration
	}{
		{
			name:          "blank_values_restore_defaults",
			configuration: defaultbranch.Configuration{Organization: "  ", APIURL: "", PageSize: 0, Report: " "},
			expected: defaultbranch.Configuration{
				Organization: "bincrafters",
				APIURL:       "https://api.github.com",
				PageSize:     100,
				Report:       "none",
			},
		},
		{
			name: "values_are_trimmed",
			configuration: defaultbranch.Configuration{
				Username:     " octocat ",
				APIKey:       " token ",
				Organization: " conan-community ",
				IgnoreErrors: true,
				DryRun:       true,
				APIURL:       " https://github.example.com/api/v3 ",
				PageSize:     25,
				Report:       " TABLE ",
			},
			expected: defaultbranch.Configuration{
				Username:     "octocat",
				APIKey:       "token",
				Organization: "conan-community",
				IgnoreErrors: true,
				DryRun:       true,
				APIURL:       "https://github.example.com/api/v3",
				PageSize:     25,
				Report:       "table",
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, testCase.configuration.Sanitize())
		})
	}
}

func TestDefaultConfigurationValues(testInstance *testing.T) {
	testInstance.Run("flat_keys", func(testInstance *testing.T) {
		values := defaultbranch.DefaultConfigurationValues("")
		require.Equal(testInstance, "bincrafters", values["organization"])
		require.Equal(testInstance, true, values["ignore_errors"])
		require.Equal(testInstance, false, values["dry_run"])
		require.Equal(testInstance, 100, values["page_size"])
		require.Contains(testInstance, values, "api_key")
	})

	testInstance.Run("prefixed_keys", func(testInstance *testing.T) {
		values := defaultbranch.DefaultConfigurationValues(".updater.")
		require.Equal(testInstance, "bincrafters", values["updater.organization"])
		require.NotContains(testInstance, values, "organization")
	})
}
