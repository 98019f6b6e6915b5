package compare

import (
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/temirov/filediff/internal/githubactions"
)

const (
	differencesFoundHeaderConstant = "Differences found:"
	filesIdenticalMessageConstant  = "Files are identical."
	diffOutputNameConstant         = "diff"
	identicalOutputNameConstant    = "identical"
	addedOutputNameConstant        = "added"
	removedOutputNameConstant      = "removed"
	reportLineTemplateConstant     = "%s\n"
	outputsRecordedMessageConstant = "step outputs recorded"
	logFieldOutputCountConstant    = "output_count"
)

// OutputRecorder persists step outputs for later workflow steps.
type OutputRecorder interface {
	Record(outputs []githubactions.Output) error
}

// Reporter renders comparison outcomes to the console and, when configured, to step outputs.
type Reporter struct {
	output         io.Writer
	outputRecorder OutputRecorder
	logger         *zap.Logger
}

// NewReporter constructs a Reporter. A nil outputRecorder disables step output files.
func NewReporter(output io.Writer, outputRecorder OutputRecorder, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{output: output, outputRecorder: outputRecorder, logger: logger}
}

// Report prints the diff followed by the ::set-output marker, or the identical message.
func (reporter *Reporter) Report(result Result) error {
	if result.Identical() {
		if writeError := reporter.writeLine(filesIdenticalMessageConstant); writeError != nil {
			return writeError
		}
		return reporter.record([]githubactions.Output{{Name: identicalOutputNameConstant, Value: strconv.FormatBool(true)}})
	}

	if writeError := reporter.writeLine(differencesFoundHeaderConstant); writeError != nil {
		return writeError
	}
	if writeError := reporter.writeLine(result.Diff); writeError != nil {
		return writeError
	}
	if markerError := githubactions.WriteSetOutputCommand(reporter.output, diffOutputNameConstant, result.Diff); markerError != nil {
		return markerError
	}

	return reporter.record([]githubactions.Output{
		{Name: identicalOutputNameConstant, Value: strconv.FormatBool(false)},
		{Name: addedOutputNameConstant, Value: strconv.Itoa(result.Statistics.Added)},
		{Name: removedOutputNameConstant, Value: strconv.Itoa(result.Statistics.Removed)},
		{Name: diffOutputNameConstant, Value: result.Diff},
	})
}

// ReportRejection prints the fixed message for a mismatched or unsupported comparison.
// It returns false when the error is not a rejection and must be handled by the caller.
func (reporter *Reporter) ReportRejection(rejectionError error) (bool, error) {
	message, rejected := rejectionMessage(rejectionError)
	if !rejected {
		return false, nil
	}
	return true, reporter.writeLine(message)
}

func (reporter *Reporter) writeLine(line string) error {
	_, writeError := fmt.Fprintf(reporter.output, reportLineTemplateConstant, line)
	return writeError
}

func (reporter *Reporter) record(outputs []githubactions.Output) error {
	if reporter.outputRecorder == nil {
		return nil
	}
	if recordError := reporter.outputRecorder.Record(outputs); recordError != nil {
		return recordError
	}
	reporter.logger.Debug(outputsRecordedMessageConstant, zap.Int(logFieldOutputCountConstant, len(outputs)))
	return nil
}
