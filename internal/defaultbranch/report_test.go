package defaultbranch_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bincrafters/default-branch/internal/defaultbranch"
	"github.com/bincrafters/default-branch/internal/githubapi"
)

func TestParseReportFormat(testInstance *testing.T) {
	testCases := []struct {
		name           string
		value          string
		expectedFormat defaultbranch.ReportFormat
		expectError    bool
	}{
		{name: "blank_means_none", value: "  ", expectedFormat: defaultbranch.ReportFormatNone},
		{name: "none", value: "none", expectedFormat: defaultbranch.ReportFormatNone},
		{name: "table_case_insensitive", value: " Table ", expectedFormat: defaultbranch.ReportFormatTable},
		{name: "unsupported", value: "json", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			format, parseError := defaultbranch.ParseReportFormat(testCase.value)
			if testCase.expectError {
				require.Error(testInstance, parseError)
				return
			}
			require.NoError(testInstance, parseError)
			require.Equal(testInstance, testCase.expectedFormat, format)
		})
	}
}

func TestRenderReport(testInstance *testing.T) {
	summary := defaultbranch.RunSummary{
		Organization:  testOrganizationConstant,
		RunIdentifier: testRunIdentifierConstant,
		Outcomes: []defaultbranch.RepositoryOutcome{
			{
				Repository:     githubapi.Repository{Name: "conan-zlib", DefaultBranch: "master"},
				SelectedBranch: "stable/1.2.11",
				Action:         defaultbranch.ActionUpdated,
			},
			{
				Repository:     githubapi.Repository{Name: "conan-boost", DefaultBranch: "master"},
				SelectedBranch: "stable/1.70.0",
				Action:         defaultbranch.ActionFailed,
				Error:          errors.New("patch rejected"),
			},
		},
	}

	testInstance.Run("none_writes_nothing", func(testInstance *testing.T) {
		outputBuffer := &bytes.Buffer{}
		require.NoError(testInstance, defaultbranch.RenderReport(outputBuffer, summary, defaultbranch.ReportFormatNone))
		require.Zero(testInstance, outputBuffer.Len())
	})

	testInstance.Run("table_lists_outcomes", func(testInstance *testing.T) {
		outputBuffer := &bytes.Buffer{}
		require.NoError(testInstance, defaultbranch.RenderReport(outputBuffer, summary, defaultbranch.ReportFormatTable))

		output := outputBuffer.String()
		for _, expectedFragment := range []string{
			"Repository",
			"Selected branch",
			"bincrafters/conan-zlib",
			"stable/1.2.11",
			"bincrafters/conan-boost",
			"patch rejected",
			"2 repositories",
			"1 updated, 0 planned, 1 failed",
		} {
			require.Contains(testInstance, output, expectedFragment)
		}
	})

	testInstance.Run("unsupported_format", func(testInstance *testing.T) {
		outputBuffer := &bytes.Buffer{}
		require.Error(testInstance, defaultbranch.RenderReport(outputBuffer, summary, defaultbranch.ReportFormat("xml")))
	})
}
