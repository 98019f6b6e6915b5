package compare_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/filediff/internal/compare"
)

func loadTable(testInstance *testing.T, content string) compare.Table {
	testInstance.Helper()
	table, loadError := compare.LoadCSV([]byte(content))
	require.NoError(testInstance, loadError)
	return table
}

func TestSymmetricDifferenceKeepsRowsUniqueToOneSide(testInstance *testing.T) {
	firstTable := loadTable(testInstance, "id,v\n1,a\n2,b\n")
	secondTable := loadTable(testInstance, "id,v\n1,a\n2,c\n")

	difference := compare.SymmetricDifference(firstTable, secondTable)
	require.Equal(testInstance, []string{"id", "v"}, difference.Columns)
	require.Equal(testInstance, []compare.DifferenceRow{
		{Side: compare.SideFirst, Index: 1, Cells: []string{"2", "b"}},
		{Side: compare.SideSecond, Index: 1, Cells: []string{"2", "c"}},
	}, difference.Rows)
}

func TestSymmetricDifferenceCases(testInstance *testing.T) {
	testCases := []struct {
		name          string
		first         string
		second        string
		expectedCells [][]string
	}{
		{
			name:          "identical_tables",
			first:         "id,v\n1,a\n2,b\n",
			second:        "id,v\n1,a\n2,b\n",
			expectedCells: [][]string{},
		},
		{
			name:          "row_order_ignored",
			first:         "id,v\n1,a\n2,b\n",
			second:        "id,v\n2,b\n1,a\n",
			expectedCells: [][]string{},
		},
		{
			name:          "numeric_cells_normalized",
			first:         "id,amount\n1,1.0\n",
			second:        "id,amount\n1,1\n",
			expectedCells: [][]string{},
		},
		{
			name:          "internal_duplicates_dropped",
			first:         "id,v\n1,a\n1,a\n",
			second:        "id,v\n2,b\n",
			expectedCells: [][]string{{"2", "b"}},
		},
		{
			name:          "columns_unioned",
			first:         "id,v\n1,a\n",
			second:        "id,v,extra\n1,a,x\n",
			expectedCells: [][]string{{"1", "a", ""}, {"1", "a", "x"}},
		},
		{
			name:          "ragged_rows_padded",
			first:         "id,v\n1\n",
			second:        "id,v\n1,\n",
			expectedCells: [][]string{},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			difference := compare.SymmetricDifference(loadTable(testInstance, testCase.first), loadTable(testInstance, testCase.second))
			actualCells := make([][]string, 0, len(difference.Rows))
			for _, differenceRow := range difference.Rows {
				actualCells = append(actualCells, differenceRow.Cells)
			}
			require.Equal(testInstance, testCase.expectedCells, actualCells)
		})
	}
}

func TestCompareTablesRendersIndexSideAndLabels(testInstance *testing.T) {
	renderedDifference := compare.CompareTables(
		loadTable(testInstance, "id,v\n1,a\n2,b\n"),
		loadTable(testInstance, "id,v\n1,a\n2,c\n"),
	)

	lines := strings.Split(renderedDifference, "\n")
	require.Len(testInstance, lines, 4)
	require.Contains(testInstance, lines[0], "id")
	require.Contains(testInstance, lines[0], "v")
	require.Equal(testInstance, []string{"1", "-", "2", "b"}, strings.Fields(strings.ReplaceAll(lines[2], "|", " ")))
	require.Equal(testInstance, []string{"1", "+", "2", "c"}, strings.Fields(strings.ReplaceAll(lines[3], "|", " ")))

	require.Empty(testInstance, compare.CompareTables(loadTable(testInstance, "id\n1\n"), loadTable(testInstance, "id\n1\n")))
}

func TestLoadCSVNormalizesHeader(testInstance *testing.T) {
	table := loadTable(testInstance, "id,id,\n1,2,3\n\n")
	require.Equal(testInstance, []string{"id", "id.1", "Unnamed: 2"}, table.Columns)
	require.Len(testInstance, table.Rows, 1)
}

func TestLoadCSVRejectsInvalidContent(testInstance *testing.T) {
	_, emptyError := compare.LoadCSV([]byte{})
	require.ErrorIs(testInstance, emptyError, compare.ErrEmptyTable)

	_, quoteError := compare.LoadCSV([]byte("id,v\n1,\"unterminated\n"))
	require.Error(testInstance, quoteError)
}
