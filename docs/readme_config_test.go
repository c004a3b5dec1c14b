package docs_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bincrafters/default-branch/cmd/cli"
	"github.com/bincrafters/default-branch/internal/defaultbranch"
	"github.com/bincrafters/default-branch/internal/utils"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	readmeSnippetTemporaryPattern    = "readme-config-*.yaml"
	parentDirectoryReferenceConstant = ".."
	testEnvironmentPrefixConstant    = "READMEDEFAULTBRANCH"
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
	unknownKeyMessageTemplate        = "README example uses unknown key %s"
)

var knownTopLevelKeys = map[string]struct{}{
	"common":        {},
	"username":      {},
	"api_key":       {},
	"organization":  {},
	"ignore_errors": {},
	"dry_run":       {},
	"api_url":       {},
	"page_size":     {},
	"report":        {},
}

func readReadmeConfigurationSnippet(testInstance *testing.T) string {
	testInstance.Helper()

	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	contentBytes, readError := os.ReadFile(filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant))
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	fenceEndRelativeIndex := strings.Index(contentText[headerIndex:], yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)
	fenceEndIndex := headerIndex + fenceEndRelativeIndex

	return strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : fenceEndIndex])
}

func TestReadmeConfigurationParses(testInstance *testing.T) {
	snippetContent := readReadmeConfigurationSnippet(testInstance)

	var rawConfiguration map[string]any
	require.NoError(testInstance, yaml.Unmarshal([]byte(snippetContent), &rawConfiguration))
	for key := range rawConfiguration {
		_, known := knownTopLevelKeys[key]
		require.Truef(testInstance, known, unknownKeyMessageTemplate, key)
	}

	temporaryFile, temporaryFileError := os.CreateTemp(testInstance.TempDir(), readmeSnippetTemporaryPattern)
	require.NoError(testInstance, temporaryFileError)
	_, writeError := temporaryFile.WriteString(snippetContent)
	require.NoError(testInstance, writeError)
	require.NoError(testInstance, temporaryFile.Close())

	loader := utils.NewConfigurationLoader("config", "yaml", testEnvironmentPrefixConstant, nil)
	var applicationConfiguration cli.ApplicationConfiguration
	_, loadError := loader.LoadConfiguration(temporaryFile.Name(), defaultbranch.DefaultConfigurationValues(""), &applicationConfiguration)
	require.NoError(testInstance, loadError)

	sanitized := applicationConfiguration.Updater.Sanitize()
	require.Equal(testInstance, "bincrafters", sanitized.Organization)
	require.True(testInstance, sanitized.IgnoreErrors)
	_, reportError := defaultbranch.ParseReportFormat(sanitized.Report)
	require.NoError(testInstance, reportError)
}
