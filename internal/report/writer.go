package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nao1215/mailscout/internal/model"
)

// ErrUnknownFormat is returned by NewWriter for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown report format")

// Format names accepted by NewWriter.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the whole report.
	// Returns the number of bytes written and any error encountered.
	Write(report *Report) (int, error)

	// WriteResult outputs a single result as soon as it is available.
	// Bulk runs use it to stream progress.
	WriteResult(result model.BulkResult) (int, error)
}

// Report is the set of results of one run.
type Report struct {
	// GeneratedAt is when the run finished.
	GeneratedAt time.Time `json:"generated_at"`

	// Results holds one record per checked domain.
	Results []model.BulkResult `json:"results"`
}

// New creates a report over results, stamped with the current time.
func New(results []model.BulkResult) *Report {
	if results == nil {
		results = []model.BulkResult{}
	}
	return &Report{
		GeneratedAt: time.Now(),
		Results:     results,
	}
}

// Summary aggregates the statistics of every result in a report.
type Summary struct {
	Domains         int `json:"domains"`
	CatchAllDomains int `json:"catch_all_domains"`
	Candidates      int `json:"candidates"`
	Deliverable     int `json:"deliverable"`
	Undeliverable   int `json:"undeliverable"`
	Indeterminate   int `json:"indeterminate"`
	ValidEmails     int `json:"valid_emails"` //nolint:tagliatelle // matches the result record
}

// Summary totals the report. Results without statistics count towards
// Domains and ValidEmails only.
func (r *Report) Summary() Summary {
	var s Summary
	for _, res := range r.Results {
		s.Domains++
		s.ValidEmails += len(res.ValidEmails)
		if res.Stats == nil {
			continue
		}
		if res.Stats.CatchAll {
			s.CatchAllDomains++
		}
		s.Candidates += res.Stats.Candidates
		s.Deliverable += res.Stats.Deliverable
		s.Undeliverable += res.Stats.Undeliverable
		s.Indeterminate += res.Stats.Indeterminate
	}
	return s
}

// NewWriter returns the writer for the named format. An empty name selects
// plain text.
func NewWriter(format string, output io.Writer) (Writer, error) {
	switch format {
	case "", FormatText:
		return NewSimpleWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// OpenOutput returns the destination for a report. An empty path means
// stdout, which the returned closer leaves open; a nil stdout means
// os.Stdout. Files are created with owner-only permissions because reports
// list personal addresses.
func OpenOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" {
		if stdout == nil {
			stdout = os.Stdout
		}
		return nopCloser{stdout}, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
