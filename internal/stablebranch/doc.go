// Package stablebranch picks the branch that should serve as a repository's
// default by reading release conventions encoded in branch names.
//
// Branches named stable/<version> or release/<version> are preferred,
// testing/<version> branches are used when no stable line exists, and the
// highest version wins. Anything after the first underscore is a free-form
// suffix and does not take part in version ordering.
package stablebranch
