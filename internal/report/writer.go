package report

import (
	"io"

	"github.com/tidescan/tidescan/internal/model"
)

// Writer defines the interface for report output.
// Implementations render a classification report in one format.
//
// Design decision: We use an interface to allow different output
// formats and destinations. This enables writing to files, stdout, or
// both with the same API.
type Writer interface {
	// Write renders the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.ClassificationReport) (int, error)
}

// MultiWriter writes to multiple Writers in sequence.
// This is how a run renders to both the terminal and a CSV sink.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface renders reports,
// not raw bytes, and each destination may use a different format.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders the report through every configured Writer.
// Returns the total bytes written across all writers.
// Stops on the first error encountered.
func (m *MultiWriter) Write(report *model.ClassificationReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the shared output destination for writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
