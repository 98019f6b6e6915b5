package compare

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/temirov/filediff/internal/format"
	"github.com/temirov/filediff/internal/location"
)

const (
	missingFetcherMessageConstant     = "content fetcher not configured"
	comparisonStartedMessageConstant  = "comparing files"
	comparisonFinishedMessageConstant = "comparison finished"
	logFieldFirstLocationConstant     = "first"
	logFieldSecondLocationConstant    = "second"
	logFieldFormatConstant            = "format"
	logFieldIdenticalConstant         = "identical"
	logFieldAddedLinesConstant        = "added_lines"
	logFieldRemovedLinesConstant      = "removed_lines"
)

var errMissingFetcher = errors.New(missingFetcherMessageConstant)

// ContentFetcher loads the contents of a parsed location.
type ContentFetcher interface {
	Fetch(executionContext context.Context, target location.Location) ([]byte, error)
	FetchLines(executionContext context.Context, target location.Location) ([]string, error)
}

// Service selects and runs the comparator matching the inputs' extension.
type Service struct {
	fetcher ContentFetcher
	logger  *zap.Logger
}

// NewService constructs a Service.
func NewService(fetcher ContentFetcher, logger *zap.Logger) (*Service, error) {
	if fetcher == nil {
		return nil, errMissingFetcher
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{fetcher: fetcher, logger: logger}, nil
}

// Compare resolves both formats, rejects mismatched or unsupported extensions before reading anything,
// then fetches both inputs and renders their differences.
func (service *Service) Compare(executionContext context.Context, firstLocation string, secondLocation string) (Result, error) {
	resolvedFormat, extension, resolveError := resolveCommonFormat(firstLocation, secondLocation)
	if resolveError != nil {
		return Result{}, resolveError
	}

	firstTarget, firstParseError := location.Parse(firstLocation)
	if firstParseError != nil {
		return Result{}, firstParseError
	}
	secondTarget, secondParseError := location.Parse(secondLocation)
	if secondParseError != nil {
		return Result{}, secondParseError
	}

	service.logger.Debug(
		comparisonStartedMessageConstant,
		zap.Stringer(logFieldFirstLocationConstant, firstTarget),
		zap.Stringer(logFieldSecondLocationConstant, secondTarget),
		zap.Stringer(logFieldFormatConstant, resolvedFormat),
	)

	result := Result{Format: resolvedFormat, First: firstTarget.String(), Second: secondTarget.String()}
	var compareError error
	switch resolvedFormat {
	case format.FormatText:
		result.Diff, compareError = service.compareText(executionContext, firstTarget, secondTarget)
	case format.FormatCSV:
		result.Diff, compareError = service.compareCSV(executionContext, firstTarget, secondTarget)
	case format.FormatSpreadsheet:
		result.Diff, compareError = service.compareSpreadsheets(executionContext, firstTarget, secondTarget, extension)
	case format.FormatJSON:
		result.Diff, compareError = service.compareJSON(executionContext, firstTarget, secondTarget)
	case format.FormatPDF:
		result.Diff, compareError = service.comparePDF(executionContext, firstTarget, secondTarget)
	default:
		return Result{}, UnsupportedFormatError{Extension: extension}
	}
	if compareError != nil {
		return Result{}, compareError
	}

	if resolvedFormat == format.FormatText || resolvedFormat == format.FormatPDF {
		statistics, statisticsError := CountLineChanges(result.Diff)
		if statisticsError != nil {
			return Result{}, statisticsError
		}
		result.Statistics = statistics
	}

	service.logger.Info(
		comparisonFinishedMessageConstant,
		zap.Stringer(logFieldFormatConstant, resolvedFormat),
		zap.Bool(logFieldIdenticalConstant, result.Identical()),
		zap.Int(logFieldAddedLinesConstant, result.Statistics.Added),
		zap.Int(logFieldRemovedLinesConstant, result.Statistics.Removed),
	)

	return result, nil
}

func resolveCommonFormat(firstLocation string, secondLocation string) (format.Format, string, error) {
	firstExtension := format.Extension(firstLocation)
	secondExtension := format.Extension(secondLocation)
	if firstExtension != secondExtension {
		return 0, "", TypeMismatchError{FirstExtension: firstExtension, SecondExtension: secondExtension}
	}

	resolvedFormat, resolveError := format.Resolve(firstExtension)
	if resolveError != nil {
		return 0, "", UnsupportedFormatError{Extension: firstExtension}
	}
	return resolvedFormat, firstExtension, nil
}

func (service *Service) compareText(executionContext context.Context, firstTarget location.Location, secondTarget location.Location) (string, error) {
	firstLines, firstError := service.fetcher.FetchLines(executionContext, firstTarget)
	if firstError != nil {
		return "", firstError
	}
	secondLines, secondError := service.fetcher.FetchLines(executionContext, secondTarget)
	if secondError != nil {
		return "", secondError
	}
	return CompareLines(firstTarget.String(), secondTarget.String(), firstLines, secondLines)
}

func (service *Service) compareCSV(executionContext context.Context, firstTarget location.Location, secondTarget location.Location) (string, error) {
	firstContent, secondContent, fetchError := service.fetchBoth(executionContext, firstTarget, secondTarget)
	if fetchError != nil {
		return "", fetchError
	}
	firstTable, firstError := LoadCSV(firstContent)
	if firstError != nil {
		return "", firstError
	}
	secondTable, secondError := LoadCSV(secondContent)
	if secondError != nil {
		return "", secondError
	}
	return CompareTables(firstTable, secondTable), nil
}

func (service *Service) compareSpreadsheets(executionContext context.Context, firstTarget location.Location, secondTarget location.Location, extension string) (string, error) {
	firstContent, secondContent, fetchError := service.fetchBoth(executionContext, firstTarget, secondTarget)
	if fetchError != nil {
		return "", fetchError
	}
	firstSheets, firstError := LoadSpreadsheet(firstContent, extension)
	if firstError != nil {
		return "", firstError
	}
	secondSheets, secondError := LoadSpreadsheet(secondContent, extension)
	if secondError != nil {
		return "", secondError
	}

	renderedDifference, skippedSheets := CompareSheetSets(firstSheets, secondSheets)
	logSkippedSheets(service.logger, skippedSheets)
	return renderedDifference, nil
}

func (service *Service) compareJSON(executionContext context.Context, firstTarget location.Location, secondTarget location.Location) (string, error) {
	firstContent, secondContent, fetchError := service.fetchBoth(executionContext, firstTarget, secondTarget)
	if fetchError != nil {
		return "", fetchError
	}
	return CompareJSON(firstContent, secondContent)
}

func (service *Service) comparePDF(executionContext context.Context, firstTarget location.Location, secondTarget location.Location) (string, error) {
	firstContent, secondContent, fetchError := service.fetchBoth(executionContext, firstTarget, secondTarget)
	if fetchError != nil {
		return "", fetchError
	}
	firstLines, firstError := ExtractPDFLines(firstContent)
	if firstError != nil {
		return "", firstError
	}
	secondLines, secondError := ExtractPDFLines(secondContent)
	if secondError != nil {
		return "", secondError
	}
	return CompareLines(firstTarget.String(), secondTarget.String(), firstLines, secondLines)
}

func (service *Service) fetchBoth(executionContext context.Context, firstTarget location.Location, secondTarget location.Location) ([]byte, []byte, error) {
	firstContent, firstError := service.fetcher.Fetch(executionContext, firstTarget)
	if firstError != nil {
		return nil, nil, firstError
	}
	secondContent, secondError := service.fetcher.Fetch(executionContext, secondTarget)
	if secondError != nil {
		return nil, nil, secondError
	}
	return firstContent, secondContent, nil
}
