package githubactions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/filediff/internal/githubactions"
)

func TestEnvironmentPullRequestNumber(testInstance *testing.T) {
	testCases := []struct {
		name           string
		reference      string
		expectedNumber int
		expectedFound  bool
	}{
		{name: "merge_reference", reference: "refs/pull/42/merge", expectedNumber: 42, expectedFound: true},
		{name: "head_reference", reference: "refs/pull/7/head", expectedNumber: 7, expectedFound: true},
		{name: "branch_reference", reference: "refs/heads/main", expectedFound: false},
		{name: "malformed_number", reference: "refs/pull/abc/merge", expectedFound: false},
		{name: "empty", reference: "  ", expectedFound: false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			environment := githubactions.NewEnvironment(func(key string) (string, bool) {
				if key == githubactions.EnvReference {
					return testCase.reference, true
				}
				return "", false
			})

			number, found := environment.PullRequestNumber()
			require.Equal(testInstance, testCase.expectedFound, found)
			require.Equal(testInstance, testCase.expectedNumber, number)
		})
	}
}

func TestEnvironmentReadsRunnerVariables(testInstance *testing.T) {
	testInstance.Setenv(githubactions.EnvOutputFile, "/tmp/output")
	testInstance.Setenv(githubactions.EnvRepository, " octo/repo ")

	environment := githubactions.NewEnvironment(nil)

	outputPath, outputFound := environment.OutputFilePath()
	require.True(testInstance, outputFound)
	require.Equal(testInstance, "/tmp/output", outputPath)

	repository, repositoryFound := environment.Repository()
	require.True(testInstance, repositoryFound)
	require.Equal(testInstance, "octo/repo", repository)
}
