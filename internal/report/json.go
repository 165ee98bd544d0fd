package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/mailscout/internal/model"
)

// JSONWriter outputs reports in JSON format.
// Write emits the result records as an array, exactly the shape a bulk
// job list is answered with. WriteResult emits one record per line.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output for Write.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// withSummary wraps the records in an object carrying a Summary.
	withSummary bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithSummary makes Write emit a JSONReport instead of a bare array.
func WithSummary() JSONWriterOption {
	return func(w *JSONWriter) {
		w.withSummary = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// JSONReport is the wrapped form written with WithSummary.
type JSONReport struct {
	*Report

	// Summary totals every result.
	Summary Summary `json:"summary"`
}

// Write outputs the report in JSON format.
func (w *JSONWriter) Write(report *Report) (int, error) {
	if w.withSummary {
		return w.writeJSON(JSONReport{Report: report, Summary: report.Summary()}, w.indent)
	}
	results := report.Results
	if results == nil {
		results = []model.BulkResult{}
	}
	return w.writeJSON(results, w.indent)
}

// WriteResult outputs one compact record followed by a newline.
func (w *JSONWriter) WriteResult(result model.BulkResult) (int, error) {
	return w.writeJSON(result, false)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any, indent bool) (int, error) {
	var data []byte
	var err error

	if indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
