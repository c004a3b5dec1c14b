package defaultbranch

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bincrafters/default-branch/internal/githubapi"
	"github.com/bincrafters/default-branch/internal/stablebranch"
)

const (
	repositoryClientMissingMessageConstant      = "repository client not configured"
	organizationRequiredMessageConstant         = "organization must be provided"
	repositoryListingErrorTemplateConstant      = "unable to list repositories for %s: %w"
	branchListingErrorTemplateConstant          = "unable to list branches: %w"
	defaultBranchUpdateErrorTemplateConstant    = "unable to set default branch to %s: %w"
	repositoryFailureTemplateConstant           = "repository %s/%s: %w"
	logMessageRunStartedConstant                = "Collecting repositories"
	logMessageRepositoriesFoundConstant         = "Found repositories"
	logMessageRepositoryInspectedConstant       = "Checking default branch"
	logMessageBranchesMissingConstant           = "Repository has no branches; using current default"
	logMessageRepositoryUpToDateConstant        = "Repository is up-to-date"
	logMessageRepositoryUpdatePlannedConstant   = "Repository will be updated"
	logMessageRepositoryUpdateSkippedConstant   = "Dry run; default branch left unchanged"
	logMessageRepositoryUpdatedConstant         = "Repository has been updated with success"
	logMessageRepositoryFailureIgnoredConstant  = "Default branch update failed; continuing"
	logMessageRepositoryFailureAbortingConstant = "Default branch update failed; aborting"
	logMessageRunCompletedConstant              = "Default branch run completed"
	logFieldRunIdentifierConstant               = "run_id"
	logFieldOrganizationConstant                = "organization"
	logFieldRepositoryConstant                  = "repository"
	logFieldDefaultBranchConstant               = "default_branch"
	logFieldSelectedBranchConstant              = "selected_branch"
	logFieldBranchCountConstant                 = "branch_count"
	logFieldRepositoryCountConstant             = "repository_count"
	logFieldUpdatedCountConstant                = "updated"
	logFieldUnchangedCountConstant              = "unchanged"
	logFieldPlannedCountConstant                = "planned"
	logFieldFailedCountConstant                 = "failed"
	logFieldDryRunConstant                      = "dry_run"
)

// Action describes what happened to a repository during a run.
type Action string

// Repository actions.
const (
	ActionUnchanged Action = "unchanged"
	ActionUpdated   Action = "updated"
	ActionPlanned   Action = "planned"
	ActionFailed    Action = "failed"
)

// RepositoryClient is the GitHub surface the service depends on.
type RepositoryClient interface {
	ListOrganizationRepositories(executionContext context.Context, organization string) ([]githubapi.Repository, error)
	ListBranches(executionContext context.Context, organization string, repository string) ([]string, error)
	SetDefaultBranch(executionContext context.Context, organization string, repository string, branch string) error
}

// RunIdentifierProvider produces identifiers that correlate the log entries of one run.
type RunIdentifierProvider func() string

// ServiceDependencies describes the collaborators of the service.
type ServiceDependencies struct {
	Logger                *zap.Logger
	Client                RepositoryClient
	RunIdentifierProvider RunIdentifierProvider
}

// RunOptions configures a single run.
type RunOptions struct {
	Organization string
	IgnoreErrors bool
	DryRun       bool
}

// RepositoryOutcome records the result for one repository.
type RepositoryOutcome struct {
	Repository     githubapi.Repository
	SelectedBranch string
	Action         Action
	Error          error
}

// RunSummary aggregates the outcomes of a run in processing order.
type RunSummary struct {
	Organization  string
	RunIdentifier string
	DryRun        bool
	Outcomes      []RepositoryOutcome
}

// Count returns how many repositories ended with the given action.
func (summary RunSummary) Count(action Action) int {
	count := 0
	for _, outcome := range summary.Outcomes {
		if outcome.Action == action {
			count++
		}
	}
	return count
}

// Service updates organization repositories to their stable default branch.
type Service struct {
	logger                *zap.Logger
	client                RepositoryClient
	runIdentifierProvider RunIdentifierProvider
}

var (
	// ErrRepositoryClientNotConfigured indicates the service was built without a client.
	ErrRepositoryClientNotConfigured = errors.New(repositoryClientMissingMessageConstant)
	// ErrOrganizationRequired indicates a run was requested without an organization.
	ErrOrganizationRequired = errors.New(organizationRequiredMessageConstant)
)

// NewService constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Client == nil {
		return nil, ErrRepositoryClientNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	runIdentifierProvider := dependencies.RunIdentifierProvider
	if runIdentifierProvider == nil {
		runIdentifierProvider = uuid.NewString
	}

	return &Service{
		logger:                logger,
		client:                dependencies.Client,
		runIdentifierProvider: runIdentifierProvider,
	}, nil
}

// Run processes every repository of the organization sequentially. Listing
// failures abort the run; per-repository failures abort it only when
// IgnoreErrors is disabled. The summary holds the outcomes gathered so far
// even when an error is returned.
func (service *Service) Run(executionContext context.Context, options RunOptions) (RunSummary, error) {
	organization := strings.TrimSpace(options.Organization)
	summary := RunSummary{
		Organization:  organization,
		RunIdentifier: service.runIdentifierProvider(),
		DryRun:        options.DryRun,
	}
	if len(organization) == 0 {
		return summary, ErrOrganizationRequired
	}
	options.Organization = organization

	runService := service.withLogger(service.logger.With(zap.String(logFieldRunIdentifierConstant, summary.RunIdentifier)))
	runLogger := runService.logger.With(zap.String(logFieldOrganizationConstant, organization))
	runLogger.Info(logMessageRunStartedConstant, zap.Bool(logFieldDryRunConstant, options.DryRun))

	repositories, listingError := service.client.ListOrganizationRepositories(executionContext, organization)
	if listingError != nil {
		return summary, fmt.Errorf(repositoryListingErrorTemplateConstant, organization, listingError)
	}

	runLogger.Info(logMessageRepositoriesFoundConstant, zap.Int(logFieldRepositoryCountConstant, len(repositories)))

	for _, repository := range repositories {
		outcome, updateError := runService.UpdateRepository(executionContext, options, repository)
		summary.Outcomes = append(summary.Outcomes, outcome)
		if updateError == nil {
			continue
		}

		wrappedError := fmt.Errorf(repositoryFailureTemplateConstant, organization, repository.Name, updateError)
		if errors.Is(updateError, context.Canceled) || errors.Is(updateError, context.DeadlineExceeded) {
			return summary, wrappedError
		}

		if !options.IgnoreErrors {
			runLogger.Error(
				logMessageRepositoryFailureAbortingConstant,
				zap.String(logFieldRepositoryConstant, repository.Name),
				zap.Error(updateError),
			)
			return summary, wrappedError
		}

		runLogger.Warn(
			logMessageRepositoryFailureIgnoredConstant,
			zap.String(logFieldRepositoryConstant, repository.Name),
			zap.Error(updateError),
		)
	}

	runLogger.Info(
		logMessageRunCompletedConstant,
		zap.Int(logFieldRepositoryCountConstant, len(summary.Outcomes)),
		zap.Int(logFieldUpdatedCountConstant, summary.Count(ActionUpdated)),
		zap.Int(logFieldPlannedCountConstant, summary.Count(ActionPlanned)),
		zap.Int(logFieldUnchangedCountConstant, summary.Count(ActionUnchanged)),
		zap.Int(logFieldFailedCountConstant, summary.Count(ActionFailed)),
	)

	return summary, nil
}

// UpdateRepository aligns a single repository's default branch with its
// stable branch. Run calls it for every repository of the organization.
func (service *Service) UpdateRepository(executionContext context.Context, options RunOptions, repository githubapi.Repository) (RepositoryOutcome, error) {
	options.Organization = strings.TrimSpace(options.Organization)
	if len(options.Organization) == 0 {
		return RepositoryOutcome{Repository: repository, Action: ActionFailed, Error: ErrOrganizationRequired}, ErrOrganizationRequired
	}

	outcome := RepositoryOutcome{Repository: repository, Action: ActionFailed}
	repositoryLogger := service.logger.With(
		zap.String(logFieldOrganizationConstant, options.Organization),
		zap.String(logFieldRepositoryConstant, repository.Name),
		zap.String(logFieldDefaultBranchConstant, repository.DefaultBranch),
	)

	repositoryLogger.Info(logMessageRepositoryInspectedConstant)

	branches, branchesError := service.client.ListBranches(executionContext, options.Organization, repository.Name)
	if branchesError != nil {
		outcome.Error = fmt.Errorf(branchListingErrorTemplateConstant, branchesError)
		return outcome, outcome.Error
	}
	if len(branches) == 0 {
		repositoryLogger.Debug(logMessageBranchesMissingConstant)
		branches = []string{repository.DefaultBranch}
	}

	selectedBranch, _ := stablebranch.SelectStableBranch(branches)
	outcome.SelectedBranch = selectedBranch

	repositoryLogger = repositoryLogger.With(
		zap.String(logFieldSelectedBranchConstant, selectedBranch),
		zap.Int(logFieldBranchCountConstant, len(branches)),
	)

	if selectedBranch == repository.DefaultBranch {
		outcome.Action = ActionUnchanged
		repositoryLogger.Info(logMessageRepositoryUpToDateConstant)
		return outcome, nil
	}

	repositoryLogger.Info(logMessageRepositoryUpdatePlannedConstant)

	if options.DryRun {
		outcome.Action = ActionPlanned
		repositoryLogger.Info(logMessageRepositoryUpdateSkippedConstant)
		return outcome, nil
	}

	if updateError := service.client.SetDefaultBranch(executionContext, options.Organization, repository.Name, selectedBranch); updateError != nil {
		outcome.Error = fmt.Errorf(defaultBranchUpdateErrorTemplateConstant, selectedBranch, updateError)
		return outcome, outcome.Error
	}

	outcome.Action = ActionUpdated
	repositoryLogger.Info(logMessageRepositoryUpdatedConstant)
	return outcome, nil
}

func (service *Service) withLogger(logger *zap.Logger) *Service {
	scopedService := *service
	scopedService.logger = logger
	return &scopedService
}
