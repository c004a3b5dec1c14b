// Package githubapi talks to the GitHub REST API for organization
// maintenance tasks.
//
// It lists organization repositories across all pages, reads branch names,
// and changes a repository's default branch. Requests are issued through the
// HTTPClient interface so tests can substitute httptest servers or stubs, and
// failures are reported through typed errors that wrap their causes.
package githubapi
