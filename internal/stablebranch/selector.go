package stablebranch

import (
	"strings"

	"golang.org/x/mod/semver"
)

const (
	stablePrefixConstant          = "stable/"
	releasePrefixConstant         = "release/"
	testingPrefixConstant         = "testing/"
	excludedBranchMarkerConstant  = "master"
	namespaceSeparatorConstant    = "/"
	suffixSeparatorConstant       = "_"
	semanticVersionPrefixConstant = "v"
	versionPartSeparatorConstant  = "."
	missingVersionPartConstant    = "0"
)

var (
	preferredPrefixes = []string{stablePrefixConstant, releasePrefixConstant}
	fallbackPrefixes  = []string{testingPrefixConstant}
)

// ExtractVersion returns the version encoded in a branch name with the
// namespace prefix and any trailing underscore suffix removed.
func ExtractVersion(branchName string) string {
	cleanedName := branchName
	if suffixIndex := strings.Index(cleanedName, suffixSeparatorConstant); suffixIndex >= 0 {
		cleanedName = cleanedName[:suffixIndex]
	}
	if separatorIndex := strings.Index(cleanedName, namespaceSeparatorConstant); separatorIndex >= 0 {
		return cleanedName[separatorIndex+len(namespaceSeparatorConstant):]
	}
	return cleanedName
}

// CompareVersions orders two branch versions. Well-formed semantic versions
// use semver precedence; anything else is compared part by part on ".",
// numerically when both parts are digits and as text otherwise. Missing parts
// count as 0, so "1.2.3.4" > "1.2.3" and "2020.02" > "2019.01".
func CompareVersions(firstVersion string, secondVersion string) int {
	firstCanonical := canonicalVersion(firstVersion)
	secondCanonical := canonicalVersion(secondVersion)
	if len(firstCanonical) > 0 && len(secondCanonical) > 0 {
		return semver.Compare(firstCanonical, secondCanonical)
	}
	return compareDottedVersions(strings.TrimSpace(firstVersion), strings.TrimSpace(secondVersion))
}

// SelectStableBranch chooses the default branch candidate among branches.
//
// The boolean result is false only when branches is empty.
func SelectStableBranch(branches []string) (string, bool) {
	if len(branches) == 0 {
		return "", false
	}

	candidates := filterByPrefix(branches, preferredPrefixes, true)
	if len(candidates) == 0 {
		candidates = filterByPrefix(branches, fallbackPrefixes, false)
	}
	if len(candidates) == 0 {
		return branches[0], true
	}

	selectedBranch := candidates[0]
	selectedVersion := ExtractVersion(selectedBranch)
	for _, candidateBranch := range candidates[1:] {
		candidateVersion := ExtractVersion(candidateBranch)
		if CompareVersions(candidateVersion, selectedVersion) > 0 {
			selectedBranch = candidateBranch
			selectedVersion = candidateVersion
		}
	}

	return selectedBranch, true
}

func filterByPrefix(branches []string, prefixes []string, excludeMaster bool) []string {
	matchingBranches := make([]string, 0, len(branches))
	for _, branchName := range branches {
		if excludeMaster && strings.Contains(branchName, excludedBranchMarkerConstant) {
			continue
		}
		for _, prefix := range prefixes {
			if strings.HasPrefix(branchName, prefix) {
				matchingBranches = append(matchingBranches, branchName)
				break
			}
		}
	}
	return matchingBranches
}

func canonicalVersion(version string) string {
	trimmedVersion := strings.TrimSpace(version)
	if len(trimmedVersion) == 0 {
		return ""
	}
	if !strings.HasPrefix(trimmedVersion, semanticVersionPrefixConstant) {
		trimmedVersion = semanticVersionPrefixConstant + trimmedVersion
	}
	if !semver.IsValid(trimmedVersion) {
		return ""
	}
	return semver.Canonical(trimmedVersion)
}

func compareDottedVersions(firstVersion string, secondVersion string) int {
	firstParts := strings.Split(firstVersion, versionPartSeparatorConstant)
	secondParts := strings.Split(secondVersion, versionPartSeparatorConstant)

	partCount := max(len(firstParts), len(secondParts))
	for partIndex := 0; partIndex < partCount; partIndex++ {
		if comparison := compareVersionParts(versionPart(firstParts, partIndex), versionPart(secondParts, partIndex)); comparison != 0 {
			return comparison
		}
	}
	return 0
}

func versionPart(parts []string, partIndex int) string {
	if partIndex >= len(parts) || len(parts[partIndex]) == 0 {
		return missingVersionPartConstant
	}
	return parts[partIndex]
}

func compareVersionParts(firstPart string, secondPart string) int {
	if !isNumeric(firstPart) || !isNumeric(secondPart) {
		return strings.Compare(firstPart, secondPart)
	}

	firstDigits := strings.TrimLeft(firstPart, missingVersionPartConstant)
	secondDigits := strings.TrimLeft(secondPart, missingVersionPartConstant)
	if len(firstDigits) != len(secondDigits) {
		if len(firstDigits) > len(secondDigits) {
			return 1
		}
		return -1
	}
	return strings.Compare(firstDigits, secondDigits)
}

func isNumeric(part string) bool {
	for _, character := range part {
		if character < '0' || character > '9' {
			return false
		}
	}
	return len(part) > 0
}
