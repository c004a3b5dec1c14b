package githubapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	defaultBaseURLConstant                    = "https://api.github.com"
	defaultPageSizeConstant                   = 100
	maximumPageSizeConstant                   = 100
	acceptHeaderNameConstant                  = "Accept"
	acceptHeaderValueConstant                 = "application/vnd.github+json"
	apiVersionHeaderNameConstant              = "X-GitHub-Api-Version"
	apiVersionHeaderValueConstant             = "2022-11-28"
	authorizationHeaderNameConstant           = "Authorization"
	bearerAuthorizationTemplateConstant       = "Bearer %s"
	contentTypeHeaderNameConstant             = "Content-Type"
	contentTypeJSONValueConstant              = "application/json"
	linkHeaderNameConstant                    = "Link"
	linkEntrySeparatorConstant                = ","
	linkParameterSeparatorConstant            = ";"
	linkRelationLastConstant                  = `rel="last"`
	perPageQueryParameterConstant             = "per_page"
	pageQueryParameterConstant                = "page"
	organizationRepositoriesPathTemplate      = "/orgs/%s/repos"
	repositoryBranchesPathTemplate            = "/repos/%s/%s/branches"
	repositoryPathTemplate                    = "/repos/%s/%s"
	organizationFieldNameConstant             = "organization"
	repositoryFieldNameConstant               = "repository"
	branchFieldNameConstant                   = "branch"
	baseURLFieldNameConstant                  = "base_url"
	requiredValueMessageConstant              = "value required"
	invalidURLMessageTemplateConstant         = "invalid url %q"
	maximumErrorBodyBytesConstant             = 512
	listRepositoriesOperationNameConstant     = OperationName("ListOrganizationRepositories")
	listBranchesOperationNameConstant         = OperationName("ListBranches")
	setDefaultBranchOperationNameConstant     = OperationName("SetDefaultBranch")
	firstPageNumberConstant                   = 1
	githubErrorMessageFieldJSONConstant       = "message"
	requestConstructionErrorTemplateConstant  = "unable to build request: %w"
	responseBodyReadErrorTemplateConstant     = "unable to read response body: %w"
	lastPageParseErrorTemplateConstant        = "unable to parse last page from link header: %w"
	defaultBranchPayloadFieldJSONNameConstant = "default_branch"
)

// HTTPClient is the subset of *http.Client used by the GitHub client.
type HTTPClient interface {
	Do(request *http.Request) (*http.Response, error)
}

// Credentials authenticate API requests.
type Credentials struct {
	Username string
	Token    string
}

// ClientConfiguration tunes how the client reaches the GitHub REST API.
type ClientConfiguration struct {
	BaseURL     string
	PageSize    int
	Credentials Credentials
}

// Repository is the minimal repository listing entry.
type Repository struct {
	Name          string
	DefaultBranch string
}

// Client issues GitHub REST API calls.
type Client struct {
	httpClient  HTTPClient
	baseURL     *url.URL
	pageSize    int
	credentials Credentials
}

// NewClient constructs a GitHub REST client.
func NewClient(httpClient HTTPClient, configuration ClientConfiguration) (*Client, error) {
	if httpClient == nil {
		return nil, ErrHTTPClientNotConfigured
	}

	baseURLValue := strings.TrimRight(strings.TrimSpace(configuration.BaseURL), "/")
	if len(baseURLValue) == 0 {
		baseURLValue = defaultBaseURLConstant
	}

	parsedBaseURL, parseError := url.Parse(baseURLValue)
	if parseError != nil || len(parsedBaseURL.Scheme) == 0 || len(parsedBaseURL.Host) == 0 {
		return nil, InvalidInputError{FieldName: baseURLFieldNameConstant, Message: fmt.Sprintf(invalidURLMessageTemplateConstant, baseURLValue)}
	}

	pageSize := configuration.PageSize
	if pageSize <= 0 || pageSize > maximumPageSizeConstant {
		pageSize = defaultPageSizeConstant
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    parsedBaseURL,
		pageSize:   pageSize,
		credentials: Credentials{
			Username: strings.TrimSpace(configuration.Credentials.Username),
			Token:    strings.TrimSpace(configuration.Credentials.Token),
		},
	}, nil
}

// ListOrganizationRepositories returns every repository of the organization.
// The total page count is taken from the Link header of the first page.
func (client *Client) ListOrganizationRepositories(executionContext context.Context, organization string) ([]Repository, error) {
	organizationName := strings.TrimSpace(organization)
	if len(organizationName) == 0 {
		return nil, InvalidInputError{FieldName: organizationFieldNameConstant, Message: requiredValueMessageConstant}
	}

	requestPath := fmt.Sprintf(organizationRepositoriesPathTemplate, url.PathEscape(organizationName))

	repositories, lastPage, firstPageError := client.fetchRepositoryPage(executionContext, requestPath, firstPageNumberConstant)
	if firstPageError != nil {
		return nil, firstPageError
	}

	for pageNumber := firstPageNumberConstant + 1; pageNumber <= lastPage; pageNumber++ {
		pageRepositories, _, pageError := client.fetchRepositoryPage(executionContext, requestPath, pageNumber)
		if pageError != nil {
			return nil, pageError
		}
		repositories = append(repositories, pageRepositories...)
	}

	return repositories, nil
}

// ListBranches returns the branch names of a repository.
func (client *Client) ListBranches(executionContext context.Context, organization string, repository string) ([]string, error) {
	organizationName := strings.TrimSpace(organization)
	if len(organizationName) == 0 {
		return nil, InvalidInputError{FieldName: organizationFieldNameConstant, Message: requiredValueMessageConstant}
	}
	repositoryName := strings.TrimSpace(repository)
	if len(repositoryName) == 0 {
		return nil, InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}

	requestPath := fmt.Sprintf(repositoryBranchesPathTemplate, url.PathEscape(organizationName), url.PathEscape(repositoryName))
	queryValues := url.Values{}
	queryValues.Set(perPageQueryParameterConstant, strconv.Itoa(client.pageSize))

	_, responseBody, requestError := client.execute(executionContext, listBranchesOperationNameConstant, http.MethodGet, requestPath, queryValues, nil)
	if requestError != nil {
		return nil, requestError
	}

	var branchEntries []struct {
		Name string `json:"name"`
	}
	if decodingError := json.Unmarshal(responseBody, &branchEntries); decodingError != nil {
		return nil, ResponseDecodingError{Operation: listBranchesOperationNameConstant, Cause: decodingError}
	}

	branchNames := make([]string, 0, len(branchEntries))
	for _, branchEntry := range branchEntries {
		branchNames = append(branchNames, branchEntry.Name)
	}

	return branchNames, nil
}

// SetDefaultBranch changes the default branch of a repository.
func (client *Client) SetDefaultBranch(executionContext context.Context, organization string, repository string, branch string) error {
	organizationName := strings.TrimSpace(organization)
	if len(organizationName) == 0 {
		return InvalidInputError{FieldName: organizationFieldNameConstant, Message: requiredValueMessageConstant}
	}
	repositoryName := strings.TrimSpace(repository)
	if len(repositoryName) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(branch)) == 0 {
		return InvalidInputError{FieldName: branchFieldNameConstant, Message: requiredValueMessageConstant}
	}

	payloadBytes, encodingError := json.Marshal(map[string]string{defaultBranchPayloadFieldJSONNameConstant: branch})
	if encodingError != nil {
		return PayloadEncodingError{Operation: setDefaultBranchOperationNameConstant, Cause: encodingError}
	}

	requestPath := fmt.Sprintf(repositoryPathTemplate, url.PathEscape(organizationName), url.PathEscape(repositoryName))
	_, _, requestError := client.execute(executionContext, setDefaultBranchOperationNameConstant, http.MethodPatch, requestPath, nil, payloadBytes)
	return requestError
}

func (client *Client) fetchRepositoryPage(executionContext context.Context, requestPath string, pageNumber int) ([]Repository, int, error) {
	queryValues := url.Values{}
	queryValues.Set(perPageQueryParameterConstant, strconv.Itoa(client.pageSize))
	queryValues.Set(pageQueryParameterConstant, strconv.Itoa(pageNumber))

	response, responseBody, requestError := client.execute(executionContext, listRepositoriesOperationNameConstant, http.MethodGet, requestPath, queryValues, nil)
	if requestError != nil {
		return nil, 0, requestError
	}

	var repositoryEntries []struct {
		Name          string `json:"name"`
		DefaultBranch string `json:"default_branch"`
	}
	if decodingError := json.Unmarshal(responseBody, &repositoryEntries); decodingError != nil {
		return nil, 0, ResponseDecodingError{Operation: listRepositoriesOperationNameConstant, Cause: decodingError}
	}

	repositories := make([]Repository, 0, len(repositoryEntries))
	for _, repositoryEntry := range repositoryEntries {
		repositories = append(repositories, Repository{Name: repositoryEntry.Name, DefaultBranch: repositoryEntry.DefaultBranch})
	}

	lastPage, lastPageError := ParseLastPage(response.Header.Get(linkHeaderNameConstant))
	if lastPageError != nil {
		return nil, 0, OperationError{Operation: listRepositoriesOperationNameConstant, Cause: fmt.Errorf(lastPageParseErrorTemplateConstant, lastPageError)}
	}

	return repositories, lastPage, nil
}

func (client *Client) execute(executionContext context.Context, operation OperationName, method string, requestPath string, queryValues url.Values, payload []byte) (*http.Response, []byte, error) {
	requestURL := client.baseURL.JoinPath(requestPath)
	if len(queryValues) > 0 {
		requestURL.RawQuery = queryValues.Encode()
	}

	var requestBody io.Reader
	if payload != nil {
		requestBody = bytes.NewReader(payload)
	}

	request, requestError := http.NewRequestWithContext(executionContext, method, requestURL.String(), requestBody)
	if requestError != nil {
		return nil, nil, OperationError{Operation: operation, Cause: fmt.Errorf(requestConstructionErrorTemplateConstant, requestError)}
	}

	request.Header.Set(acceptHeaderNameConstant, acceptHeaderValueConstant)
	request.Header.Set(apiVersionHeaderNameConstant, apiVersionHeaderValueConstant)
	if payload != nil {
		request.Header.Set(contentTypeHeaderNameConstant, contentTypeJSONValueConstant)
	}
	client.authorize(request)

	response, responseError := client.httpClient.Do(request)
	if responseError != nil {
		return nil, nil, OperationError{Operation: operation, Cause: responseError}
	}
	defer response.Body.Close()

	responseBody, readError := io.ReadAll(response.Body)
	if readError != nil {
		return nil, nil, OperationError{Operation: operation, Cause: fmt.Errorf(responseBodyReadErrorTemplateConstant, readError)}
	}

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, nil, ResponseStatusError{Operation: operation, StatusCode: response.StatusCode, Message: summarizeErrorBody(responseBody)}
	}

	return response, responseBody, nil
}

func (client *Client) authorize(request *http.Request) {
	switch {
	case len(client.credentials.Username) > 0 && len(client.credentials.Token) > 0:
		request.SetBasicAuth(client.credentials.Username, client.credentials.Token)
	case len(client.credentials.Token) > 0:
		request.Header.Set(authorizationHeaderNameConstant, fmt.Sprintf(bearerAuthorizationTemplateConstant, client.credentials.Token))
	}
}

// ParseLastPage reads the page number of the rel="last" entry of a Link
// header. A header without such an entry means a single page.
func ParseLastPage(linkHeader string) (int, error) {
	for _, linkEntry := range strings.Split(linkHeader, linkEntrySeparatorConstant) {
		linkParts := strings.Split(linkEntry, linkParameterSeparatorConstant)
		if len(linkParts) < 2 {
			continue
		}

		isLastRelation := false
		for _, linkParameter := range linkParts[1:] {
			if strings.TrimSpace(linkParameter) == linkRelationLastConstant {
				isLastRelation = true
				break
			}
		}
		if !isLastRelation {
			continue
		}

		linkTarget := strings.Trim(strings.TrimSpace(linkParts[0]), "<>")
		parsedTarget, parseError := url.Parse(linkTarget)
		if parseError != nil {
			return 0, parseError
		}

		pageValue := parsedTarget.Query().Get(pageQueryParameterConstant)
		if len(pageValue) == 0 {
			return firstPageNumberConstant, nil
		}

		pageNumber, conversionError := strconv.Atoi(pageValue)
		if conversionError != nil {
			return 0, conversionError
		}
		if pageNumber < firstPageNumberConstant {
			return firstPageNumberConstant, nil
		}
		return pageNumber, nil
	}

	return firstPageNumberConstant, nil
}

func summarizeErrorBody(responseBody []byte) string {
	var errorPayload map[string]any
	if json.Unmarshal(responseBody, &errorPayload) == nil {
		if message, isString := errorPayload[githubErrorMessageFieldJSONConstant].(string); isString {
			return message
		}
	}

	trimmedBody := strings.TrimSpace(string(responseBody))
	if len(trimmedBody) > maximumErrorBodyBytesConstant {
		trimmedBody = trimmedBody[:maximumErrorBodyBytesConstant]
	}
	return trimmedBody
}
