package shared

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Reporter emits formatted progress events to an underlying sink.
type Reporter interface {
	Printf(format string, args ...any)
	Highlightf(format string, args ...any)
}

type writerReporter struct {
	writer      io.Writer
	highlighter *color.Color
}

// NewWriterReporter constructs a Reporter that writes to the provided io.Writer.
// Highlighted lines are colored when color output is enabled for the process.
func NewWriterReporter(writer io.Writer) Reporter {
	if writer == nil {
		writer = os.Stderr
	}
	return writerReporter{writer: writer, highlighter: color.New(color.FgGreen)}
}

// Printf writes a plain progress line.
func (reporter writerReporter) Printf(format string, args ...any) {
	if reporter.writer == nil || reporter.writer == io.Discard {
		return
	}
	fmt.Fprintf(reporter.writer, format, args...)
}

// Highlightf writes a colored progress line.
func (reporter writerReporter) Highlightf(format string, args ...any) {
	if reporter.writer == nil || reporter.writer == io.Discard {
		return
	}
	reporter.highlighter.Fprintf(reporter.writer, format, args...)
}

type discardReporter struct{}

// NewDiscardReporter constructs a Reporter that drops every event.
func NewDiscardReporter() Reporter {
	return discardReporter{}
}

func (discardReporter) Printf(string, ...any) {}

func (discardReporter) Highlightf(string, ...any) {}
