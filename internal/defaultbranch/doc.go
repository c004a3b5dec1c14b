// Package defaultbranch keeps the default branch of every repository in a
// GitHub organization pointed at its newest stable release branch.
//
// Service lists the organization's repositories, selects a stable branch for
// each one with the stablebranch package, and changes the default branch when
// it differs. CommandBuilder exposes the workflow as a Cobra command.
package defaultbranch
