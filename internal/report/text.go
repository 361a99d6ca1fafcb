package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/tidescan/tidescan/internal/model"
)

// identifierIndent is the indentation used for class and property
// identifier lines in text output.
const identifierIndent = "     "

// TextWriter outputs human-readable text reports.
//
// In flat mode (no property mapping) it emits a single header followed
// by one class identifier per line. In grouped mode it emits a header
// per class with the class's properties indented beneath. Both modes
// preserve the fetch order of classes and properties.
//
// Design decision: Plain ASCII text rather than ANSI colors, because
// the output is routinely piped into files and other tools.
type TextWriter struct {
	baseWriter
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer) *TextWriter {
	return &TextWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders the report, choosing grouped mode when the report
// carries a non-empty property mapping and flat mode otherwise.
func (w *TextWriter) Write(report *model.ClassificationReport) (int, error) {
	var sb strings.Builder

	if report.Grouped() {
		w.writeGrouped(&sb, report)
	} else {
		w.writeFlat(&sb, report)
	}

	return io.WriteString(w.output, sb.String())
}

// writeFlat emits the class sequence under a single header, one
// identifier per line, in original fetch order.
func (w *TextWriter) writeFlat(sb *strings.Builder, report *model.ClassificationReport) {
	sb.WriteString("Threat Classes:\n")
	for _, class := range report.Classes {
		sb.WriteString(identifierIndent)
		sb.WriteString(string(class))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

// writeGrouped emits a header per class in fetch order with the class's
// properties indented beneath. Classes absent from the mapping are
// still headed but render no property lines.
func (w *TextWriter) writeGrouped(sb *strings.Builder, report *model.ClassificationReport) {
	for _, class := range report.Classes {
		sb.WriteString("\n")
		fmt.Fprintf(sb, "Threat Class: %s\n", class)
		sb.WriteString(" Associated Threat Properties:\n")

		props, _ := report.Properties(class)
		for _, prop := range props {
			sb.WriteString(identifierIndent)
			sb.WriteString(string(prop))
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
}
