package compare

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
)

const (
	emptyTableMessageConstant       = "no header row"
	unnamedColumnTemplateConstant   = "Unnamed: %d"
	duplicateColumnTemplateConstant = "%s.%d"
	firstSideMarkerConstant         = "-"
	secondSideMarkerConstant        = "+"
	rowKeySeparatorConstant         = "\x1f"
	csvSubjectConstant              = "csv"
)

// ErrEmptyTable indicates tabular content without a header row.
var ErrEmptyTable = errors.New(emptyTableMessageConstant)

// Row is a data row with its zero-based position among the data rows of its table.
type Row struct {
	Index int
	Cells []string
}

// Table is a header row plus data rows. Every row has one cell per column.
type Table struct {
	Columns []string
	Rows    []Row
}

// Side identifies which input a differing row came from.
type Side int

// Supported sides.
const (
	SideFirst Side = iota
	SideSecond
)

// Marker returns the diff prefix used for rows of this side.
func (side Side) Marker() string {
	if side == SideSecond {
		return secondSideMarkerConstant
	}
	return firstSideMarkerConstant
}

// DifferenceRow is a row that occurs in exactly one of the compared tables.
type DifferenceRow struct {
	Side  Side
	Index int
	Cells []string
}

// TableDifference lists differing rows over the union of both tables' columns.
type TableDifference struct {
	Columns []string
	Rows    []DifferenceRow
}

// Empty reports whether the tables held the same rows.
func (difference TableDifference) Empty() bool {
	return len(difference.Rows) == 0
}

// LoadCSV parses CSV content. The first record is the header and ragged records are padded.
func LoadCSV(content []byte) (Table, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1

	records, readError := reader.ReadAll()
	if readError != nil {
		return Table{}, wrapParseError(csvSubjectConstant, readError)
	}
	if len(records) == 0 {
		return Table{}, wrapParseError(csvSubjectConstant, ErrEmptyTable)
	}

	return tableFromRecords(records), nil
}

// SymmetricDifference returns the rows whose values occur exactly once across both tables.
// A row repeated anywhere, including twice inside the same table, is dropped entirely.
func SymmetricDifference(first Table, second Table) TableDifference {
	columns := unionColumns(first.Columns, second.Columns)

	candidates := make([]DifferenceRow, 0, len(first.Rows)+len(second.Rows))
	candidates = append(candidates, projectRows(first, columns, SideFirst)...)
	candidates = append(candidates, projectRows(second, columns, SideSecond)...)

	occurrences := make(map[string]int, len(candidates))
	for _, candidate := range candidates {
		occurrences[rowKey(candidate.Cells)]++
	}

	difference := TableDifference{Columns: columns, Rows: []DifferenceRow{}}
	for _, candidate := range candidates {
		if occurrences[rowKey(candidate.Cells)] == 1 {
			difference.Rows = append(difference.Rows, candidate)
		}
	}

	return difference
}

// CompareTables renders the symmetric difference of two tables. The result is empty when no row differs.
func CompareTables(first Table, second Table) string {
	difference := SymmetricDifference(first, second)
	if difference.Empty() {
		return ""
	}
	return difference.Render()
}

// Render draws the differing rows as a borderless table led by the row index and side marker.
func (difference TableDifference) Render() string {
	var buffer bytes.Buffer

	tableWriter := tablewriter.NewWriter(&buffer)
	tableWriter.SetBorder(false)
	tableWriter.SetAutoFormatHeaders(false)
	tableWriter.SetAutoWrapText(false)
	tableWriter.SetAlignment(tablewriter.ALIGN_LEFT)
	tableWriter.SetHeaderAlignment(tablewriter.ALIGN_LEFT)

	header := make([]string, 0, len(difference.Columns)+2)
	header = append(header, "", "")
	header = append(header, difference.Columns...)
	tableWriter.SetHeader(header)

	for _, differenceRow := range difference.Rows {
		renderedRow := make([]string, 0, len(differenceRow.Cells)+2)
		renderedRow = append(renderedRow, strconv.Itoa(differenceRow.Index), differenceRow.Side.Marker())
		renderedRow = append(renderedRow, differenceRow.Cells...)
		tableWriter.Append(renderedRow)
	}
	tableWriter.Render()

	return strings.TrimRight(buffer.String(), lineTerminatorConstant)
}

func tableFromRecords(records [][]string) Table {
	if len(records) == 0 {
		return Table{Columns: []string{}, Rows: []Row{}}
	}

	width := 0
	for _, record := range records {
		if len(record) > width {
			width = len(record)
		}
	}

	table := Table{
		Columns: normalizeColumnLabels(padCells(records[0], width)),
		Rows:    make([]Row, 0, len(records)-1),
	}
	for _, record := range records[1:] {
		if isBlankRecord(record) {
			continue
		}
		table.Rows = append(table.Rows, Row{Index: len(table.Rows), Cells: padCells(record, width)})
	}

	return table
}

func padCells(cells []string, width int) []string {
	paddedCells := make([]string, width)
	copy(paddedCells, cells)
	return paddedCells
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if len(strings.TrimSpace(cell)) > 0 {
			return false
		}
	}
	return true
}

func normalizeColumnLabels(labels []string) []string {
	normalizedLabels := make([]string, len(labels))
	seenCounts := make(map[string]int, len(labels))
	for labelIndex, label := range labels {
		trimmedLabel := strings.TrimSpace(label)
		if len(trimmedLabel) == 0 {
			trimmedLabel = fmt.Sprintf(unnamedColumnTemplateConstant, labelIndex)
		}
		if seenCount, seen := seenCounts[trimmedLabel]; seen {
			seenCounts[trimmedLabel] = seenCount + 1
			trimmedLabel = fmt.Sprintf(duplicateColumnTemplateConstant, trimmedLabel, seenCount)
		} else {
			seenCounts[trimmedLabel] = 1
		}
		normalizedLabels[labelIndex] = trimmedLabel
	}
	return normalizedLabels
}

func unionColumns(firstColumns []string, secondColumns []string) []string {
	columns := make([]string, 0, len(firstColumns)+len(secondColumns))
	seenColumns := make(map[string]struct{}, len(firstColumns)+len(secondColumns))
	for _, column := range append(append([]string{}, firstColumns...), secondColumns...) {
		if _, seen := seenColumns[column]; seen {
			continue
		}
		seenColumns[column] = struct{}{}
		columns = append(columns, column)
	}
	return columns
}

func projectRows(table Table, columns []string, side Side) []DifferenceRow {
	columnPositions := make(map[string]int, len(table.Columns))
	for columnIndex, column := range table.Columns {
		columnPositions[column] = columnIndex
	}

	projectedRows := make([]DifferenceRow, 0, len(table.Rows))
	for _, row := range table.Rows {
		cells := make([]string, len(columns))
		for columnIndex, column := range columns {
			position, present := columnPositions[column]
			if present && position < len(row.Cells) {
				cells[columnIndex] = row.Cells[position]
			}
		}
		projectedRows = append(projectedRows, DifferenceRow{Side: side, Index: row.Index, Cells: cells})
	}
	return projectedRows
}

func rowKey(cells []string) string {
	normalizedCells := make([]string, len(cells))
	for cellIndex, cell := range cells {
		normalizedCells[cellIndex] = normalizeCell(cell)
	}
	return strings.Join(normalizedCells, rowKeySeparatorConstant)
}

func normalizeCell(cell string) string {
	trimmedCell := strings.TrimSpace(cell)
	numericValue, parseError := decimal.NewFromString(trimmedCell)
	if parseError != nil {
		return trimmedCell
	}
	return numericValue.String()
}
