package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/filediff/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/runner"

func TestLocalPathResolverResolve(testInstance *testing.T) {
	resolver := pathutils.NewLocalPathResolver(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	testCases := []struct {
		name         string
		localPath    string
		expectedPath string
	}{
		{name: "home_only", localPath: "~", expectedPath: testHomeDirectoryConstant},
		{name: "home_relative", localPath: "~/reports/a.csv", expectedPath: filepath.Join(testHomeDirectoryConstant, "reports", "a.csv")},
		{name: "relative_cleaned", localPath: "sample_data/./one/../two/b.csv", expectedPath: filepath.Join("sample_data", "two", "b.csv")},
		{name: "absolute_untouched", localPath: "/tmp/a.txt", expectedPath: "/tmp/a.txt"},
		{name: "named_user_not_expanded", localPath: "~ops/a.txt", expectedPath: "~ops/a.txt"},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolvedPath, resolveError := resolver.Resolve(testCase.localPath)
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedPath, resolvedPath)
		})
	}
}

func TestLocalPathResolverReportsMissingHome(testInstance *testing.T) {
	homeFailure := errors.New("home unset")
	resolver := pathutils.NewLocalPathResolver(func() (string, error) {
		return "", homeFailure
	})

	_, resolveError := resolver.Resolve("~/a.txt")
	require.ErrorIs(testInstance, resolveError, homeFailure)

	resolvedPath, plainError := resolver.Resolve("a.txt")
	require.NoError(testInstance, plainError)
	require.Equal(testInstance, "a.txt", resolvedPath)
}
