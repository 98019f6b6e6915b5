package format_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/filediff/internal/format"
)

func TestResolveSupportedExtensions(testInstance *testing.T) {
	testCases := []struct {
		name           string
		fileName       string
		expectedFormat format.Format
	}{
		{name: "text", fileName: "notes.txt", expectedFormat: format.FormatText},
		{name: "log_uppercase", fileName: "build/OUTPUT.LOG", expectedFormat: format.FormatText},
		{name: "csv", fileName: "sample_data/one/a.csv", expectedFormat: format.FormatCSV},
		{name: "xls", fileName: "ledger.xls", expectedFormat: format.FormatSpreadsheet},
		{name: "xlsx_mixed_case", fileName: "ledger.XlSx", expectedFormat: format.FormatSpreadsheet},
		{name: "json", fileName: "payload.json", expectedFormat: format.FormatJSON},
		{name: "pdf", fileName: "report.pdf", expectedFormat: format.FormatPDF},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolvedFormat, resolveError := format.Resolve(format.Extension(testCase.fileName))
			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedFormat, resolvedFormat)
		})
	}
}

func TestResolveRejectsUnsupportedExtensions(testInstance *testing.T) {
	for _, fileName := range []string{"archive.zip", "README", "image.png"} {
		_, resolveError := format.Resolve(format.Extension(fileName))
		require.ErrorIs(testInstance, resolveError, format.ErrUnsupportedFormat)
	}
}

func TestIsLegacySpreadsheet(testInstance *testing.T) {
	require.True(testInstance, format.IsLegacySpreadsheet(format.Extension("old.XLS")))
	require.False(testInstance, format.IsLegacySpreadsheet(format.Extension("new.xlsx")))
	require.Equal(testInstance, "spreadsheet", format.FormatSpreadsheet.String())
	require.Equal(testInstance, "unknown", format.Format(0).String())
}
