package defaultbranch

import (
	"strings"
)

const (
	usernameConfigurationKeyConstant     = "username"
	apiKeyConfigurationKeyConstant       = "api_key"
	organizationConfigurationKeyConstant = "organization"
	ignoreErrorsConfigurationKeyConstant = "ignore_errors"
	dryRunConfigurationKeyConstant       = "dry_run"
	apiURLConfigurationKeyConstant       = "api_url"
	pageSizeConfigurationKeyConstant     = "page_size"
	reportConfigurationKeyConstant       = "report"
	defaultOrganizationConstant          = "bincrafters"
	defaultAPIURLConstant                = "https://api.github.com"
	defaultPageSizeConstant              = 100
	configurationKeySeparatorConstant    = "."
)

// Configuration captures the settings of one default branch update run.
type Configuration struct {
	Username     string `mapstructure:"username"`
	APIKey       string `mapstructure:"api_key"`
	Organization string `mapstructure:"organization"`
	IgnoreErrors bool   `mapstructure:"ignore_errors"`
	DryRun       bool   `mapstructure:"dry_run"`
	APIURL       string `mapstructure:"api_url"`
	PageSize     int    `mapstructure:"page_size"`
	Report       string `mapstructure:"report"`
}

// DefaultConfiguration returns baseline values for a run.
func DefaultConfiguration() Configuration {
	return Configuration{
		Organization: defaultOrganizationConstant,
		IgnoreErrors: true,
		DryRun:       false,
		APIURL:       defaultAPIURLConstant,
		PageSize:     defaultPageSizeConstant,
		Report:       string(ReportFormatNone),
	}
}

// DefaultConfigurationValues exposes the defaults as loader keys, optionally
// nested below prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	values := map[string]any{
		usernameConfigurationKeyConstant:     defaults.Username,
		apiKeyConfigurationKeyConstant:       defaults.APIKey,
		organizationConfigurationKeyConstant: defaults.Organization,
		ignoreErrorsConfigurationKeyConstant: defaults.IgnoreErrors,
		dryRunConfigurationKeyConstant:       defaults.DryRun,
		apiURLConfigurationKeyConstant:       defaults.APIURL,
		pageSizeConfigurationKeyConstant:     defaults.PageSize,
		reportConfigurationKeyConstant:       defaults.Report,
	}

	trimmedPrefix := strings.Trim(strings.TrimSpace(prefix), configurationKeySeparatorConstant)
	if len(trimmedPrefix) == 0 {
		return values
	}

	prefixedValues := make(map[string]any, len(values))
	for key, value := range values {
		prefixedValues[trimmedPrefix+configurationKeySeparatorConstant+key] = value
	}
	return prefixedValues
}

// Sanitize trims configured values and restores defaults for blank entries.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration

	sanitized.Username = strings.TrimSpace(configuration.Username)
	sanitized.APIKey = strings.TrimSpace(configuration.APIKey)

	sanitized.Organization = strings.TrimSpace(configuration.Organization)
	if len(sanitized.Organization) == 0 {
		sanitized.Organization = defaults.Organization
	}

	sanitized.APIURL = strings.TrimSpace(configuration.APIURL)
	if len(sanitized.APIURL) == 0 {
		sanitized.APIURL = defaults.APIURL
	}

	if sanitized.PageSize <= 0 {
		sanitized.PageSize = defaults.PageSize
	}

	sanitized.Report = strings.ToLower(strings.TrimSpace(configuration.Report))
	if len(sanitized.Report) == 0 {
		sanitized.Report = defaults.Report
	}

	return sanitized
}
