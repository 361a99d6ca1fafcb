package report

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/tidescan/tidescan/internal/model"
)

// CSVWriter outputs reports as CSV records for spreadsheet import.
//
// Flat mode emits a single threat_class column. Grouped mode emits
// (threat_class, threat_property) pairs, one row per property; a class
// without any recorded properties contributes one row with an empty
// property column so every class remains visible in the output.
//
// Design decision: encoding/csv handles quoting of identifiers that
// contain commas or quotes, which hand-rolled string joining would get
// wrong the first time the platform ships an unusual identifier.
type CSVWriter struct {
	baseWriter

	// header controls whether a header row is emitted before records.
	header bool
}

// CSVWriterOption configures a CSVWriter.
type CSVWriterOption func(*CSVWriter)

// WithoutHeader disables the header row.
func WithoutHeader() CSVWriterOption {
	return func(w *CSVWriter) {
		w.header = false
	}
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer, opts ...CSVWriterOption) *CSVWriter {
	w := &CSVWriter{
		baseWriter: newBaseWriter(output),
		header:     true,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write renders the report as CSV records.
func (w *CSVWriter) Write(report *model.ClassificationReport) (int, error) {
	var records [][]string

	if report.Grouped() {
		if w.header {
			records = append(records, []string{"threat_class", "threat_property"})
		}
		for _, class := range report.Classes {
			props, _ := report.Properties(class)
			if len(props) == 0 {
				records = append(records, []string{string(class), ""})
				continue
			}
			for _, prop := range props {
				records = append(records, []string{string(class), string(prop)})
			}
		}
	} else {
		if w.header {
			records = append(records, []string{"threat_class"})
		}
		for _, class := range report.Classes {
			records = append(records, []string{string(class)})
		}
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.WriteAll(records); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}
