package compare

import (
	"github.com/temirov/filediff/internal/format"
)

// Statistics counts the changed lines of a line-oriented diff.
type Statistics struct {
	Added   int
	Removed int
}

// Result is the outcome of comparing two locations.
type Result struct {
	Format     format.Format
	First      string
	Second     string
	Diff       string
	Statistics Statistics
}

// Identical reports whether no differences were found.
func (result Result) Identical() bool {
	return len(result.Diff) == 0
}
