package githubactions

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names set by GitHub Actions runners.
const (
	EnvOutputFile = "GITHUB_OUTPUT"
	EnvRepository = "GITHUB_REPOSITORY"
	EnvReference  = "GITHUB_REF"
)

const (
	pullRequestReferencePrefixConstant = "refs/pull/"
	referenceSeparatorConstant         = "/"
)

// EnvironmentLookup reads a single environment variable.
type EnvironmentLookup func(key string) (string, bool)

// Environment exposes the runner variables used by filediff.
type Environment struct {
	lookup EnvironmentLookup
}

// NewEnvironment wraps the lookup. A nil lookup reads the process environment.
func NewEnvironment(lookup EnvironmentLookup) Environment {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return Environment{lookup: lookup}
}

// OutputFilePath returns the GITHUB_OUTPUT path when the runner provides one.
func (environment Environment) OutputFilePath() (string, bool) {
	return environment.value(EnvOutputFile)
}

// Repository returns the owner/name slug of the workflow repository.
func (environment Environment) Repository() (string, bool) {
	return environment.value(EnvRepository)
}

// PullRequestNumber extracts the pull request number from a refs/pull/<number>/merge reference.
func (environment Environment) PullRequestNumber() (int, bool) {
	reference, present := environment.value(EnvReference)
	if !present || !strings.HasPrefix(reference, pullRequestReferencePrefixConstant) {
		return 0, false
	}

	remainder := strings.TrimPrefix(reference, pullRequestReferencePrefixConstant)
	numberSegment := strings.SplitN(remainder, referenceSeparatorConstant, 2)[0]
	number, parseError := strconv.Atoi(numberSegment)
	if parseError != nil || number <= 0 {
		return 0, false
	}
	return number, true
}

func (environment Environment) value(key string) (string, bool) {
	lookup := environment.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	value, present := lookup(key)
	if !present {
		return "", false
	}
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return "", false
	}
	return trimmedValue, true
}
