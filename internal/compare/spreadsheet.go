package compare

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/temirov/filediff/internal/format"
)

const (
	legacyWorkbookCharsetConstant       = "utf-8"
	workbookSubjectConstant             = "workbook"
	sheetDifferenceTemplateConstant     = "Differences in sheet '%s':\n%s"
	sheetSkippedMessageConstant         = "sheet missing from second workbook; skipped"
	logFieldSheetConstant               = "sheet"
	missingLegacySheetMessageConstant   = "legacy workbook sheet unavailable"
	legacyWorkbookPanicTemplateConstant = "malformed legacy workbook: %v"
)

var errMissingLegacySheet = errors.New(missingLegacySheetMessageConstant)

// SheetSet holds the tables of a workbook in sheet order.
type SheetSet struct {
	Names  []string
	Tables map[string]Table
}

// LoadSpreadsheet parses workbook content. The extension selects the xlsx or legacy xls reader.
// The first row of every sheet is its header.
func LoadSpreadsheet(content []byte, extension string) (SheetSet, error) {
	if format.IsLegacySpreadsheet(extension) {
		return loadLegacyWorkbook(content)
	}
	return loadWorkbook(content)
}

// CompareSheetSets compares every sheet of the first workbook that also exists in the second one.
// Sheets missing from either side are not reported; the names of first-workbook sheets without a
// counterpart are returned as skipped.
func CompareSheetSets(first SheetSet, second SheetSet) (string, []string) {
	sheetDifferences := make([]string, 0, len(first.Names))
	skippedSheets := make([]string, 0)

	for _, sheetName := range first.Names {
		secondTable, present := second.Tables[sheetName]
		if !present {
			skippedSheets = append(skippedSheets, sheetName)
			continue
		}
		renderedDifference := CompareTables(first.Tables[sheetName], secondTable)
		if len(renderedDifference) == 0 {
			continue
		}
		sheetDifferences = append(sheetDifferences, fmt.Sprintf(sheetDifferenceTemplateConstant, sheetName, renderedDifference))
	}

	return strings.Join(sheetDifferences, lineTerminatorConstant), skippedSheets
}

func logSkippedSheets(logger *zap.Logger, skippedSheets []string) {
	for _, sheetName := range skippedSheets {
		logger.Debug(sheetSkippedMessageConstant, zap.String(logFieldSheetConstant, sheetName))
	}
}

func loadWorkbook(content []byte) (SheetSet, error) {
	workbook, openError := excelize.OpenReader(bytes.NewReader(content))
	if openError != nil {
		return SheetSet{}, wrapParseError(workbookSubjectConstant, openError)
	}
	defer workbook.Close()

	sheetNames := workbook.GetSheetList()
	sheetSet := SheetSet{Names: sheetNames, Tables: make(map[string]Table, len(sheetNames))}
	for _, sheetName := range sheetNames {
		rows, rowsError := workbook.GetRows(sheetName)
		if rowsError != nil {
			return SheetSet{}, wrapParseError(workbookSubjectConstant, rowsError)
		}
		sheetSet.Tables[sheetName] = tableFromRecords(rows)
	}

	return sheetSet, nil
}

func loadLegacyWorkbook(content []byte) (sheetSet SheetSet, loadError error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			sheetSet = SheetSet{}
			loadError = wrapParseError(workbookSubjectConstant, fmt.Errorf(legacyWorkbookPanicTemplateConstant, recovered))
		}
	}()

	workbook, openError := xls.OpenReader(bytes.NewReader(content), legacyWorkbookCharsetConstant)
	if openError != nil {
		return SheetSet{}, wrapParseError(workbookSubjectConstant, openError)
	}

	sheetCount := workbook.NumSheets()
	sheetSet = SheetSet{Names: make([]string, 0, sheetCount), Tables: make(map[string]Table, sheetCount)}
	for sheetIndex := 0; sheetIndex < sheetCount; sheetIndex++ {
		sheet := workbook.GetSheet(sheetIndex)
		if sheet == nil {
			return SheetSet{}, wrapParseError(workbookSubjectConstant, errMissingLegacySheet)
		}

		records := make([][]string, 0, int(sheet.MaxRow)+1)
		for rowIndex := 0; rowIndex <= int(sheet.MaxRow); rowIndex++ {
			row, present := legacySheetRow(sheet, rowIndex)
			if !present {
				records = append(records, []string{})
				continue
			}
			cells := make([]string, 0, row.LastCol())
			for columnIndex := 0; columnIndex < row.LastCol(); columnIndex++ {
				cells = append(cells, row.Col(columnIndex))
			}
			records = append(records, cells)
		}

		sheetSet.Names = append(sheetSet.Names, sheet.Name)
		sheetSet.Tables[sheet.Name] = tableFromRecords(records)
	}

	return sheetSet, nil
}

// legacySheetRow reports rows absent from the sheet as missing. WorkSheet.Row panics on them.
func legacySheetRow(sheet *xls.WorkSheet, rowIndex int) (row *xls.Row, present bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			row = nil
			present = false
		}
	}()
	return sheet.Row(rowIndex), true
}
