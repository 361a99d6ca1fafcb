package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tidescan/tidescan/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent
// markdown generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write renders the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ClassificationReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)

	if report.Grouped() {
		w.writeGrouped(md, report)
	} else {
		w.writeFlat(md, report)
	}

	return len(md.String()), md.Build()
}

// writeHeader writes the report title and retrieval metadata.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.ClassificationReport) {
	md.H1("Threat Taxonomy Report")
	md.PlainText("")

	rows := [][]string{
		{"Taxonomy Endpoint", "`" + report.Endpoint + "`"},
		{"Retrieved", report.Retrieved.Format("2006-01-02 15:04:05 MST")},
		{"Threat Classes", strconv.Itoa(report.ClassCount())},
	}
	if report.Grouped() {
		rows = append(rows, []string{"Threat Properties", strconv.Itoa(report.PropertyCount())})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if report.ClassCount() == 0 {
		md.Warningf("The taxonomy query returned no threat classes. " +
			"Check the diagnostics log for API or data format errors.")
		md.PlainText("")
	}
}

// writeFlat writes the class list as a single bullet list.
func (w *MarkdownWriter) writeFlat(md *markdown.Markdown, report *model.ClassificationReport) {
	md.H2("Threat Classes")
	md.PlainText("")

	if report.ClassCount() == 0 {
		return
	}

	items := make([]string, 0, report.ClassCount())
	for _, class := range report.Classes {
		items = append(items, "`"+string(class)+"`")
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeGrouped writes one section per class with its properties.
func (w *MarkdownWriter) writeGrouped(md *markdown.Markdown, report *model.ClassificationReport) {
	md.H2("Threat Classes and Properties")
	md.PlainText("")

	for _, class := range report.Classes {
		md.H3(displayName(string(class)) + " (`" + string(class) + "`)")
		md.PlainText("")

		props, ok := report.Properties(class)
		if !ok || len(props) == 0 {
			md.PlainText("No associated threat properties recorded.")
			md.PlainText("")
			continue
		}

		items := make([]string, 0, len(props))
		for _, prop := range props {
			items = append(items, "`"+string(prop)+"`")
		}
		md.BulletList(items...)
		md.PlainText("")
	}
}

// titleCaser converts identifiers to title case for section headings.
var titleCaser = cases.Title(language.English)

// displayName turns a taxonomy identifier into a readable heading,
// e.g. "internet_infrastructure" becomes "Internet Infrastructure".
// The raw identifier is always shown alongside, so this is cosmetic.
func displayName(id string) string {
	return titleCaser.String(strings.NewReplacer("_", " ", "-", " ").Replace(id))
}
