package compare_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/filediff/internal/compare"
)

func TestCompareLinesRendersUnifiedDiff(testInstance *testing.T) {
	renderedDiff, compareError := compare.CompareLines("first.txt", "second.txt", []string{"a", "b", "c"}, []string{"a", "x", "c"})
	require.NoError(testInstance, compareError)

	expectedDiff := "--- first.txt\n" +
		"+++ second.txt\n" +
		"@@ -1,3 +1,3 @@\n" +
		" a\n" +
		"-b\n" +
		"+x\n" +
		" c"
	require.Equal(testInstance, expectedDiff, renderedDiff)
}

func TestCompareLinesIdenticalSequences(testInstance *testing.T) {
	testCases := []struct {
		name  string
		lines []string
	}{
		{name: "several_lines", lines: []string{"alpha", "beta", "gamma"}},
		{name: "empty", lines: []string{}},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			renderedDiff, compareError := compare.CompareLines("a", "b", testCase.lines, append([]string{}, testCase.lines...))
			require.NoError(testInstance, compareError)
			require.Empty(testInstance, renderedDiff)
		})
	}
}

func TestCountLineChanges(testInstance *testing.T) {
	renderedDiff, compareError := compare.CompareLines("first.log", "second.log",
		[]string{"one", "two", "three", "four"},
		[]string{"one", "2", "three", "four", "five", "six"},
	)
	require.NoError(testInstance, compareError)

	statistics, statisticsError := compare.CountLineChanges(renderedDiff)
	require.NoError(testInstance, statisticsError)
	require.Equal(testInstance, compare.Statistics{Added: 3, Removed: 1}, statistics)

	emptyStatistics, emptyError := compare.CountLineChanges("")
	require.NoError(testInstance, emptyError)
	require.Equal(testInstance, compare.Statistics{}, emptyStatistics)
}
