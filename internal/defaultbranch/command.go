package defaultbranch

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bincrafters/default-branch/internal/githubapi"
	"github.com/bincrafters/default-branch/internal/githubauth"
	flagutils "github.com/bincrafters/default-branch/internal/utils/flags"
)

const (
	commandUseConstant                      = "default-branch"
	commandShortDescriptionConstant         = "Point organization repositories at their stable branch"
	commandLongDescriptionConstant          = "default-branch lists every repository of a GitHub organization, selects the newest stable/ or release/ branch (falling back to testing/), and makes it the default branch when it differs."
	organizationFlagNameConstant            = "organization"
	organizationFlagUsageConstant           = "GitHub organization whose repositories are updated"
	ignoreErrorsFlagNameConstant            = "ignore-errors"
	ignoreErrorsFlagUsageConstant           = "Continue with the next repository when an update fails"
	dryRunFlagNameConstant                  = "dry-run"
	dryRunFlagUsageConstant                 = "Report the selected branches without changing GitHub"
	reportFlagNameConstant                  = "report"
	reportFlagUsageConstant                 = "End-of-run report format"
	httpTimeoutConstant                     = 30 * time.Second
	githubClientCreationErrorTemplate       = "unable to construct GitHub client: %w"
	serviceCreationErrorTemplateConstant    = "unable to construct default branch service: %w"
	reportFormatErrorTemplateConstant       = "invalid report format: %w"
	reportRenderErrorTemplateConstant       = "unable to render report: %w"
	defaultBranchRunErrorTemplateConstant   = "default branch update failed: %w"
	logMessageAnonymousAccessConstant       = "No GitHub token configured; using anonymous API access"
	logMessageGitHubClientConfiguredConst   = "GitHub client configured"
	logFieldAPIURLConstant                  = "api_url"
	logFieldAuthenticatedConstant           = "authenticated"
	logFieldPageSizeConstant                = "page_size"
	logFieldIgnoreErrorsConstant            = "ignore_errors"
	flagValueRetrievalErrorTemplateConstant = "unable to read --%s: %w"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current run configuration.
type ConfigurationProvider func() Configuration

// ClientProvider constructs the GitHub client for a run.
type ClientProvider func(configuration githubapi.ClientConfiguration) (RepositoryClient, error)

// CommandBuilder assembles the default-branch Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	HTTPClient            githubapi.HTTPClient
	ClientProvider        ClientProvider
	EnvironmentLookup     githubauth.EnvironmentLookup
	RunIdentifierProvider RunIdentifierProvider
}

type commandOptions struct {
	runOptions   RunOptions
	reportFormat ReportFormat
	credentials  githubauth.Credentials
	apiURL       string
	pageSize     int
}

// Build constructs the default-branch command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.run,
	}

	defaults := DefaultConfiguration()
	command.Flags().String(organizationFlagNameConstant, "", organizationFlagUsageConstant)
	flagutils.AddToggleFlag(command.Flags(), nil, ignoreErrorsFlagNameConstant, defaults.IgnoreErrors, ignoreErrorsFlagUsageConstant)
	flagutils.AddToggleFlag(command.Flags(), nil, dryRunFlagNameConstant, defaults.DryRun, dryRunFlagUsageConstant)
	command.Flags().String(
		reportFlagNameConstant,
		"",
		flagutils.FormatChoiceUsage(defaults.Report, []string{string(ReportFormatNone), string(ReportFormatTable)}, reportFlagUsageConstant),
	)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()

	if options.credentials.Anonymous() {
		logger.Warn(logMessageAnonymousAccessConstant)
	}

	client, clientError := builder.resolveClient(githubapi.ClientConfiguration{
		BaseURL:  options.apiURL,
		PageSize: options.pageSize,
		Credentials: githubapi.Credentials{
			Username: options.credentials.Username,
			Token:    options.credentials.Token,
		},
	})
	if clientError != nil {
		return fmt.Errorf(githubClientCreationErrorTemplate, clientError)
	}

	logger.Debug(
		logMessageGitHubClientConfiguredConst,
		zap.String(logFieldAPIURLConstant, options.apiURL),
		zap.Bool(logFieldAuthenticatedConstant, !options.credentials.Anonymous()),
		zap.Int(logFieldPageSizeConstant, options.pageSize),
		zap.Bool(logFieldIgnoreErrorsConstant, options.runOptions.IgnoreErrors),
	)

	service, serviceError := NewService(ServiceDependencies{
		Logger:                logger,
		Client:                client,
		RunIdentifierProvider: builder.RunIdentifierProvider,
	})
	if serviceError != nil {
		return fmt.Errorf(serviceCreationErrorTemplateConstant, serviceError)
	}

	summary, runError := service.Run(command.Context(), options.runOptions)

	if renderError := RenderReport(command.OutOrStdout(), summary, options.reportFormat); renderError != nil {
		return fmt.Errorf(reportRenderErrorTemplateConstant, renderError)
	}

	if runError != nil {
		return fmt.Errorf(defaultBranchRunErrorTemplateConstant, runError)
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (commandOptions, error) {
	configuration := builder.resolveConfiguration()

	organization := configuration.Organization
	if command.Flags().Changed(organizationFlagNameConstant) {
		flagValue, flagError := command.Flags().GetString(organizationFlagNameConstant)
		if flagError != nil {
			return commandOptions{}, fmt.Errorf(flagValueRetrievalErrorTemplateConstant, organizationFlagNameConstant, flagError)
		}
		if trimmedValue := strings.TrimSpace(flagValue); len(trimmedValue) > 0 {
			organization = trimmedValue
		}
	}

	ignoreErrors, ignoreErrorsError := resolveToggle(command, ignoreErrorsFlagNameConstant, configuration.IgnoreErrors)
	if ignoreErrorsError != nil {
		return commandOptions{}, ignoreErrorsError
	}

	dryRun, dryRunError := resolveToggle(command, dryRunFlagNameConstant, configuration.DryRun)
	if dryRunError != nil {
		return commandOptions{}, dryRunError
	}

	reportValue := configuration.Report
	if command.Flags().Changed(reportFlagNameConstant) {
		flagValue, flagError := command.Flags().GetString(reportFlagNameConstant)
		if flagError != nil {
			return commandOptions{}, fmt.Errorf(flagValueRetrievalErrorTemplateConstant, reportFlagNameConstant, flagError)
		}
		reportValue = flagValue
	}
	reportFormat, reportFormatError := ParseReportFormat(reportValue)
	if reportFormatError != nil {
		return commandOptions{}, fmt.Errorf(reportFormatErrorTemplateConstant, reportFormatError)
	}

	return commandOptions{
		runOptions: RunOptions{
			Organization: organization,
			IgnoreErrors: ignoreErrors,
			DryRun:       dryRun,
		},
		reportFormat: reportFormat,
		credentials:  githubauth.ResolveCredentials(configuration.Username, configuration.APIKey, builder.EnvironmentLookup),
		apiURL:       configuration.APIURL,
		pageSize:     configuration.PageSize,
	}, nil
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveClient(configuration githubapi.ClientConfiguration) (RepositoryClient, error) {
	if builder.ClientProvider != nil {
		return builder.ClientProvider(configuration)
	}

	httpClient := builder.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: httpTimeoutConstant}
	}

	return githubapi.NewClient(httpClient, configuration)
}

func resolveToggle(command *cobra.Command, flagName string, configuredValue bool) (bool, error) {
	if !command.Flags().Changed(flagName) {
		return configuredValue, nil
	}
	flagValue, flagError := command.Flags().GetBool(flagName)
	if flagError != nil {
		return false, fmt.Errorf(flagValueRetrievalErrorTemplateConstant, flagName, flagError)
	}
	return flagValue, nil
}
