package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/mailscout/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// Plain ASCII only, so the output can be piped to files or other tools.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether domains without valid addresses are listed.
	showEmpty bool

	// verbose adds per-domain statistics.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to list domains with no results.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables per-domain statistics in the output.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
// Domains without results are shown by default.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  true,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report.Summary())

	for _, res := range report.Results {
		if len(res.ValidEmails) == 0 && !w.showEmpty {
			continue
		}
		w.writeResult(&sb, res)
	}

	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// WriteResult outputs one result block.
func (w *SimpleWriter) WriteResult(result model.BulkResult) (int, error) {
	var sb strings.Builder
	w.writeResult(&sb, result)
	return io.WriteString(w.output, sb.String())
}

func rule(sb *strings.Builder, c string) {
	sb.WriteString(strings.Repeat(c, 70))
	sb.WriteString("\n")
}

// writeHeader writes the report header.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *Report) {
	rule(sb, "=")
	sb.WriteString("MAILSCOUT REPORT\n")
	rule(sb, "=")
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
}

// writeSummary writes the totals section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, s Summary) {
	rule(sb, "-")
	sb.WriteString("SUMMARY\n")
	rule(sb, "-")
	sb.WriteString("\n")

	fmt.Fprintf(sb, "  DOMAINS:       %d\n", s.Domains)
	fmt.Fprintf(sb, "  CATCH-ALL:     %d\n", s.CatchAllDomains)
	fmt.Fprintf(sb, "  CANDIDATES:    %d\n", s.Candidates)
	fmt.Fprintf(sb, "  DELIVERABLE:   %d\n", s.Deliverable)
	fmt.Fprintf(sb, "  UNDELIVERABLE: %d\n", s.Undeliverable)
	fmt.Fprintf(sb, "  INDETERMINATE: %d\n", s.Indeterminate)
	sb.WriteString("\n")
}

// writeResult writes the block of one domain.
func (w *SimpleWriter) writeResult(sb *strings.Builder, res model.BulkResult) {
	rule(sb, "-")
	sb.WriteString(res.Domain)
	if names := res.Names.String(); names != "" {
		fmt.Fprintf(sb, " (%s)", names)
	}
	sb.WriteString("\n")
	rule(sb, "-")

	if res.Stats != nil && res.Stats.CatchAll {
		sb.WriteString("  [!] catch-all domain, addresses cannot be verified\n")
	}

	if len(res.ValidEmails) == 0 {
		sb.WriteString("  No valid addresses found\n")
	}
	for _, email := range res.ValidEmails {
		fmt.Fprintf(sb, "  [+] %s\n", email)
	}

	if w.verbose && res.Stats != nil {
		fmt.Fprintf(sb, "  candidates=%d deliverable=%d undeliverable=%d indeterminate=%d\n",
			res.Stats.Candidates, res.Stats.Deliverable, res.Stats.Undeliverable, res.Stats.Indeterminate)
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	rule(sb, "=")
	sb.WriteString("Report generated by mailscout\n")
	sb.WriteString("https://github.com/nao1215/mailscout\n")
	rule(sb, "=")
}
