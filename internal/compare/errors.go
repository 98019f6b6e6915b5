package compare

import (
	"errors"
	"fmt"

	"github.com/temirov/filediff/internal/format"
)

const (
	typeMismatchErrorTemplateConstant       = "file types do not match: %s vs %s"
	unsupportedFormatErrorTemplateConstant  = "%s: %s"
	differencesFoundMessageConstant         = "differences found"
	parseErrorTemplateConstant              = "unable to parse %s: %w"
	typeMismatchReportMessageConstant       = "File types do not match. Cannot compare."
	unsupportedFormatReportTemplateConstant = "Unsupported file type: %s"
)

// ErrDifferencesFound is returned when differences exist and the caller asked to fail on them.
var ErrDifferencesFound = errors.New(differencesFoundMessageConstant)

// TypeMismatchError reports inputs whose extensions differ.
type TypeMismatchError struct {
	FirstExtension  string
	SecondExtension string
}

// Error describes the mismatch.
func (mismatchError TypeMismatchError) Error() string {
	return fmt.Sprintf(typeMismatchErrorTemplateConstant, mismatchError.FirstExtension, mismatchError.SecondExtension)
}

// UnsupportedFormatError reports an extension outside the supported set.
type UnsupportedFormatError struct {
	Extension string
}

// Error describes the unsupported extension.
func (unsupportedError UnsupportedFormatError) Error() string {
	return fmt.Sprintf(unsupportedFormatErrorTemplateConstant, format.ErrUnsupportedFormat.Error(), unsupportedError.Extension)
}

// Unwrap exposes format.ErrUnsupportedFormat.
func (unsupportedError UnsupportedFormatError) Unwrap() error {
	return format.ErrUnsupportedFormat
}

// rejectionMessage returns the fixed report line for comparisons that were refused before any content was read.
func rejectionMessage(rejectionError error) (string, bool) {
	var mismatchError TypeMismatchError
	if errors.As(rejectionError, &mismatchError) {
		return typeMismatchReportMessageConstant, true
	}
	var unsupportedError UnsupportedFormatError
	if errors.As(rejectionError, &unsupportedError) {
		return fmt.Sprintf(unsupportedFormatReportTemplateConstant, unsupportedError.Extension), true
	}
	return "", false
}

func wrapParseError(subject string, parseError error) error {
	return fmt.Errorf(parseErrorTemplateConstant, subject, parseError)
}
