package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(t *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "DefaultFirstChoice",
			defaultChoice:  "none",
			choices:        []string{"none", "table"},
			description:    "End-of-run report format.",
			expectedOutput: "`<NONE|table>` End-of-run report format.",
		},
		{
			name:           "DefaultSecondChoice",
			defaultChoice:  "table",
			choices:        []string{"none", "table"},
			description:    "End-of-run report format.",
			expectedOutput: "`<none|TABLE>` End-of-run report format.",
		},
		{
			name:           "EmptyDescription",
			defaultChoice:  "yes",
			choices:        []string{"yes", "no"},
			expectedOutput: "`<YES|no>`",
		},
		{
			name:           "DuplicateAndBlankChoicesIgnored",
			defaultChoice:  "no",
			choices:        []string{"yes", " ", "YES", "no"},
			description:    "Toggle.",
			expectedOutput: "`<yes|NO>` Toggle.",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			require.Equal(t, testCase.expectedOutput, FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description))
		})
	}
}
