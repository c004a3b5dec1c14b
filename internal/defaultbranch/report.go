package defaultbranch

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

const (
	reportFormatNoneValueConstant       = "none"
	reportFormatTableValueConstant      = "table"
	unsupportedReportFormatTemplate     = "unsupported report format %q"
	reportHeaderRepositoryConstant      = "Repository"
	reportHeaderPreviousDefaultConstant = "Previous default"
	reportHeaderSelectedBranchConstant  = "Selected branch"
	reportHeaderActionConstant          = "Action"
	reportHeaderErrorConstant           = "Error"
	reportFooterTotalTemplateConstant   = "%d repositories"
	reportFooterCountsTemplateConstant  = "%d updated, %d planned, %d failed"
	reportRepositoryIdentifierTemplate  = "%s/%s"
)

// ReportFormat enumerates the supported end-of-run report renderings.
type ReportFormat string

// Report formats.
const (
	ReportFormatNone  ReportFormat = ReportFormat(reportFormatNoneValueConstant)
	ReportFormatTable ReportFormat = ReportFormat(reportFormatTableValueConstant)
)

// ParseReportFormat normalizes a textual report format. Blank values mean no report.
func ParseReportFormat(value string) (ReportFormat, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(value))
	switch ReportFormat(normalizedValue) {
	case "", ReportFormatNone:
		return ReportFormatNone, nil
	case ReportFormatTable:
		return ReportFormatTable, nil
	default:
		return "", fmt.Errorf(unsupportedReportFormatTemplate, value)
	}
}

// RenderReport writes the run summary to writer in the requested format.
func RenderReport(writer io.Writer, summary RunSummary, format ReportFormat) error {
	switch format {
	case ReportFormatNone:
		return nil
	case ReportFormatTable:
		renderTable(writer, summary)
		return nil
	default:
		return fmt.Errorf(unsupportedReportFormatTemplate, format)
	}
}

func renderTable(writer io.Writer, summary RunSummary) {
	table := tablewriter.NewWriter(writer)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{
		reportHeaderRepositoryConstant,
		reportHeaderPreviousDefaultConstant,
		reportHeaderSelectedBranchConstant,
		reportHeaderActionConstant,
		reportHeaderErrorConstant,
	})

	for _, outcome := range summary.Outcomes {
		errorText := ""
		if outcome.Error != nil {
			errorText = outcome.Error.Error()
		}
		table.Append([]string{
			fmt.Sprintf(reportRepositoryIdentifierTemplate, summary.Organization, outcome.Repository.Name),
			outcome.Repository.DefaultBranch,
			outcome.SelectedBranch,
			string(outcome.Action),
			errorText,
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf(reportFooterTotalTemplateConstant, len(summary.Outcomes)),
		"",
		"",
		fmt.Sprintf(reportFooterCountsTemplateConstant, summary.Count(ActionUpdated), summary.Count(ActionPlanned), summary.Count(ActionFailed)),
		"",
	})
	table.Render()
}
