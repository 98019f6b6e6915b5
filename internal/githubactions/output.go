package githubactions

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
)

const (
	setOutputCommandTemplateConstant     = "::set-output name=%s::%s\n"
	singleLineOutputTemplateConstant     = "%s=%s\n"
	multiLineOutputTemplateConstant      = "%s<<%s\n%s\n%s\n"
	delimiterPrefixConstant              = "ghadelimiter_"
	outputFileOpenErrorTemplateConstant  = "unable to open output file %s: %w"
	outputFileWriteErrorTemplateConstant = "unable to write output file %s: %w"
	missingOutputNameMessageConstant     = "output name must not be empty"
	outputFilePermissionsConstant        = 0o644
	lineBreakConstant                    = "\n"
	carriageReturnConstant               = "\r"
)

// ErrMissingOutputName indicates an output without a name.
var ErrMissingOutputName = errors.New(missingOutputNameMessageConstant)

// Output is a named step output value.
type Output struct {
	Name  string
	Value string
}

// DelimiterProvider returns a candidate heredoc delimiter.
type DelimiterProvider func() string

// WriteSetOutputCommand prints the ::set-output workflow command with the value embedded verbatim.
// Runners read only the first line of a multiline value from this command.
func WriteSetOutputCommand(writer io.Writer, name string, value string) error {
	if len(strings.TrimSpace(name)) == 0 {
		return ErrMissingOutputName
	}
	_, writeError := fmt.Fprintf(writer, setOutputCommandTemplateConstant, name, value)
	return writeError
}

// OutputFile appends outputs to the runner's GITHUB_OUTPUT file.
type OutputFile struct {
	path              string
	delimiterProvider DelimiterProvider
}

// NewOutputFile constructs an OutputFile for the given path. A nil provider generates random delimiters.
func NewOutputFile(path string, delimiterProvider DelimiterProvider) *OutputFile {
	if delimiterProvider == nil {
		delimiterProvider = randomDelimiter
	}
	return &OutputFile{path: path, delimiterProvider: delimiterProvider}
}

// Record appends the outputs in order. Values spanning several lines use the delimiter syntax.
func (outputFile *OutputFile) Record(outputs []Output) error {
	var builder strings.Builder
	for _, output := range outputs {
		if len(strings.TrimSpace(output.Name)) == 0 {
			return ErrMissingOutputName
		}
		if !strings.ContainsAny(output.Value, lineBreakConstant+carriageReturnConstant) {
			builder.WriteString(fmt.Sprintf(singleLineOutputTemplateConstant, output.Name, output.Value))
			continue
		}
		delimiter := outputFile.uniqueDelimiter(output.Value)
		builder.WriteString(fmt.Sprintf(multiLineOutputTemplateConstant, output.Name, delimiter, output.Value, delimiter))
	}

	file, openError := os.OpenFile(outputFile.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, outputFilePermissionsConstant)
	if openError != nil {
		return fmt.Errorf(outputFileOpenErrorTemplateConstant, outputFile.path, openError)
	}
	defer file.Close()

	if _, writeError := file.WriteString(builder.String()); writeError != nil {
		return fmt.Errorf(outputFileWriteErrorTemplateConstant, outputFile.path, writeError)
	}
	return nil
}

func (outputFile *OutputFile) uniqueDelimiter(value string) string {
	for {
		delimiter := outputFile.delimiterProvider()
		if len(delimiter) > 0 && !strings.Contains(value, delimiter) {
			return delimiter
		}
	}
}

func randomDelimiter() string {
	return delimiterPrefixConstant + uuid.NewString()
}
