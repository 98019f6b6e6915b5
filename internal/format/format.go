// Package format resolves file extensions into the closed set of comparable formats.
package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	textExtensionConstant                  = ".txt"
	logExtensionConstant                   = ".log"
	csvExtensionConstant                   = ".csv"
	legacySpreadsheetExtensionConstant     = ".xls"
	spreadsheetExtensionConstant           = ".xlsx"
	jsonExtensionConstant                  = ".json"
	pdfExtensionConstant                   = ".pdf"
	unsupportedFormatErrorMessageConstant  = "unsupported file type"
	unsupportedFormatErrorTemplateConstant = "%w: %s"
	unknownFormatNameConstant              = "unknown"
)

// ErrUnsupportedFormat indicates an extension outside the supported set.
var ErrUnsupportedFormat = errors.New(unsupportedFormatErrorMessageConstant)

// Format enumerates the comparable document formats.
type Format int

// Supported formats. The zero value is not a valid format.
const (
	FormatText Format = iota + 1
	FormatCSV
	FormatSpreadsheet
	FormatJSON
	FormatPDF
)

var formatNames = map[Format]string{
	FormatText:        "text",
	FormatCSV:         "csv",
	FormatSpreadsheet: "spreadsheet",
	FormatJSON:        "json",
	FormatPDF:         "pdf",
}

var extensionFormats = map[string]Format{
	textExtensionConstant:              FormatText,
	logExtensionConstant:               FormatText,
	csvExtensionConstant:               FormatCSV,
	legacySpreadsheetExtensionConstant: FormatSpreadsheet,
	spreadsheetExtensionConstant:       FormatSpreadsheet,
	jsonExtensionConstant:              FormatJSON,
	pdfExtensionConstant:               FormatPDF,
}

// String returns the lowercase format name.
func (format Format) String() string {
	if name, known := formatNames[format]; known {
		return name
	}
	return unknownFormatNameConstant
}

// Extension returns the lowercase extension of a path or object key, including the leading dot.
func Extension(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// IsLegacySpreadsheet reports whether the extension selects the binary .xls reader.
func IsLegacySpreadsheet(extension string) bool {
	return strings.EqualFold(extension, legacySpreadsheetExtensionConstant)
}

// Resolve maps an extension (as returned by Extension) to its Format.
func Resolve(extension string) (Format, error) {
	resolvedFormat, supported := extensionFormats[strings.ToLower(extension)]
	if !supported {
		return 0, fmt.Errorf(unsupportedFormatErrorTemplateConstant, ErrUnsupportedFormat, extension)
	}
	return resolvedFormat, nil
}
