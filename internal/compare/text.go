package compare

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	unifiedDiffContextLinesConstant = 3
	lineTerminatorConstant          = "\n"
)

// CompareLines renders a unified diff of two line sequences. Lines must not carry their terminators.
// The result is empty when the sequences are identical.
func CompareLines(firstName string, secondName string, firstLines []string, secondLines []string) (string, error) {
	unifiedDiff := difflib.UnifiedDiff{
		A:        terminateLines(firstLines),
		B:        terminateLines(secondLines),
		FromFile: firstName,
		ToFile:   secondName,
		Context:  unifiedDiffContextLinesConstant,
	}

	renderedDiff, renderError := difflib.GetUnifiedDiffString(unifiedDiff)
	if renderError != nil {
		return "", renderError
	}

	return strings.TrimSuffix(renderedDiff, lineTerminatorConstant), nil
}

func terminateLines(lines []string) []string {
	terminatedLines := make([]string, len(lines))
	for lineIndex, line := range lines {
		terminatedLines[lineIndex] = line + lineTerminatorConstant
	}
	return terminatedLines
}
