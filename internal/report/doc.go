// Package report renders classification reports for output.
//
// This package contains writers for different output formats:
//   - TextWriter: Human-readable text output for terminal display
//   - CSVWriter: Flat record output for spreadsheet import
//   - MarkdownWriter: GitHub Flavored Markdown for sharing
//   - JSONWriter: Structured JSON for tool integration
//
// Writers select between two shapes based on the report itself: grouped
// (class headers with properties beneath) when the report carries a
// non-empty property mapping, and flat (one class per line) otherwise.
// Rendering is a pure function of the report; writers perform no
// network calls and have no side effects beyond producing text.
//
// Writers implement the Writer interface, allowing them to be composed
// via MultiWriter for simultaneous console and file output.
package report
