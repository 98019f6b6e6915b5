package compare

import (
	"strings"

	"github.com/sourcegraph/go-diff/diff"
)

const (
	addedLinePrefixConstant   = "+"
	removedLinePrefixConstant = "-"
)

// CountLineChanges counts added and removed lines in a unified diff produced by CompareLines.
func CountLineChanges(unifiedDiff string) (Statistics, error) {
	if len(unifiedDiff) == 0 {
		return Statistics{}, nil
	}

	fileDiff, parseError := diff.ParseFileDiff([]byte(unifiedDiff + lineTerminatorConstant))
	if parseError != nil {
		return Statistics{}, parseError
	}

	statistics := Statistics{}
	for _, hunk := range fileDiff.Hunks {
		for _, hunkLine := range strings.Split(string(hunk.Body), lineTerminatorConstant) {
			switch {
			case strings.HasPrefix(hunkLine, addedLinePrefixConstant):
				statistics.Added++
			case strings.HasPrefix(hunkLine, removedLinePrefixConstant):
				statistics.Removed++
			}
		}
	}

	return statistics, nil
}
