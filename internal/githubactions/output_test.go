package githubactions_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/filediff/internal/githubactions"
)

const (
	testOutputFileNameConstant = "github_output"
	testDiffValueConstant      = "--- a.txt\n+++ b.txt\n@@ -1 +1 @@\n-a\n+b"
	testDelimiterConstant      = "EOF_MARKER"
)

func TestWriteSetOutputCommandEmbedsValueVerbatim(testInstance *testing.T) {
	var builder strings.Builder
	require.NoError(testInstance, githubactions.WriteSetOutputCommand(&builder, "diff", testDiffValueConstant))
	require.Equal(testInstance, "::set-output name=diff::"+testDiffValueConstant+"\n", builder.String())

	require.ErrorIs(testInstance, githubactions.WriteSetOutputCommand(&builder, " ", "value"), githubactions.ErrMissingOutputName)
}

func TestOutputFileRecordsSingleAndMultilineValues(testInstance *testing.T) {
	outputPath := filepath.Join(testInstance.TempDir(), testOutputFileNameConstant)
	require.NoError(testInstance, os.WriteFile(outputPath, []byte("existing=1\n"), 0o600))

	outputFile := githubactions.NewOutputFile(outputPath, func() string { return testDelimiterConstant })
	recordError := outputFile.Record([]githubactions.Output{
		{Name: "identical", Value: "false"},
		{Name: "diff", Value: testDiffValueConstant},
	})
	require.NoError(testInstance, recordError)

	content, readError := os.ReadFile(outputPath)
	require.NoError(testInstance, readError)
	expected := "existing=1\n" +
		"identical=false\n" +
		"diff<<" + testDelimiterConstant + "\n" + testDiffValueConstant + "\n" + testDelimiterConstant + "\n"
	require.Equal(testInstance, expected, string(content))
}

func TestOutputFileAvoidsDelimiterContainedInValue(testInstance *testing.T) {
	outputPath := filepath.Join(testInstance.TempDir(), testOutputFileNameConstant)
	candidates := []string{"COLLIDE", "SAFE"}
	outputFile := githubactions.NewOutputFile(outputPath, func() string {
		candidate := candidates[0]
		if len(candidates) > 1 {
			candidates = candidates[1:]
		}
		return candidate
	})

	require.NoError(testInstance, outputFile.Record([]githubactions.Output{{Name: "diff", Value: "line\nCOLLIDE"}}))

	content, readError := os.ReadFile(outputPath)
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "diff<<SAFE\nline\nCOLLIDE\nSAFE\n", string(content))
}

func TestOutputFileDefaultDelimiterIsRandom(testInstance *testing.T) {
	outputPath := filepath.Join(testInstance.TempDir(), testOutputFileNameConstant)
	outputFile := githubactions.NewOutputFile(outputPath, nil)

	require.NoError(testInstance, outputFile.Record([]githubactions.Output{{Name: "diff", Value: "a\nb"}}))

	content, readError := os.ReadFile(outputPath)
	require.NoError(testInstance, readError)
	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
	require.Len(testInstance, lines, 4)
	require.True(testInstance, strings.HasPrefix(lines[0], "diff<<ghadelimiter_"))
	require.Equal(testInstance, strings.TrimPrefix(lines[0], "diff<<"), lines[3])
}
