// Package compare implements the format-specific comparators, the dispatcher
// that selects one by file extension, and the compare command.
//
// Every comparator renders its findings as a single text block. An empty
// block means the inputs are identical for that format.
package compare
