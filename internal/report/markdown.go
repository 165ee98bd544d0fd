package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/mailscout/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs reports in Markdown format.
// Tables and GitHub alerts are produced with nao1215/markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report.Summary())
	w.writeResults(md, report.Results)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteResult outputs one domain section.
func (w *MarkdownWriter) WriteResult(result model.BulkResult) (int, error) {
	md := markdown.NewMarkdown(w.output)
	w.writeResult(md, result)
	return len(md.String()), md.Build()
}

// writeHeader writes the report title and run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *Report) {
	md.H1("mailscout Report")
	md.PlainText("")
	md.PlainTextf("Generated: %s", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	md.PlainText("")
}

// writeSummary writes the totals table, chart and alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, s Summary) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Domains", strconv.Itoa(s.Domains)},
			{"Catch-all domains", strconv.Itoa(s.CatchAllDomains)},
			{"Candidates", strconv.Itoa(s.Candidates)},
			{"✅ Deliverable", strconv.Itoa(s.Deliverable)},
			{"❌ Undeliverable", strconv.Itoa(s.Undeliverable)},
			{"⚠️ Indeterminate", strconv.Itoa(s.Indeterminate)},
		},
	})
	md.PlainText("")

	if s.Deliverable+s.Undeliverable+s.Indeterminate > 0 {
		w.writePieChart(md, s)
	}

	switch {
	case s.Domains == 0:
		md.Note("No domains were checked.")
	case s.ValidEmails == 0:
		md.Warningf("No deliverable address found across %d domain(s).", s.Domains)
	case s.CatchAllDomains > 0:
		md.Importantf("%d catch-all domain(s) were skipped; their addresses cannot be verified.", s.CatchAllDomains)
	default:
		md.Tip(strconv.Itoa(s.ValidEmails) + " deliverable address(es) found.")
	}
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of probe verdicts.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Probe Verdicts"),
		piechart.WithShowData(true),
	)

	if s.Deliverable > 0 {
		chart.LabelAndIntValue("Deliverable", uint64(s.Deliverable))
	}
	if s.Undeliverable > 0 {
		chart.LabelAndIntValue("Undeliverable", uint64(s.Undeliverable))
	}
	if s.Indeterminate > 0 {
		chart.LabelAndIntValue("Indeterminate", uint64(s.Indeterminate))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeResults writes one section per domain.
func (w *MarkdownWriter) writeResults(md *markdown.Markdown, results []model.BulkResult) {
	md.H2("Results")
	md.PlainText("")

	if len(results) == 0 {
		md.PlainText("No results.")
		md.PlainText("")
		return
	}

	for _, res := range results {
		w.writeResult(md, res)
	}
}

func (w *MarkdownWriter) writeResult(md *markdown.Markdown, res model.BulkResult) {
	md.H3(res.Domain)
	md.PlainText("")

	if names := res.Names.String(); names != "" {
		md.PlainTextf("Names: %s", names)
		md.PlainText("")
	}

	if res.Stats != nil && res.Stats.CatchAll {
		md.Cautionf("Catch-all domain: every address is accepted, so none can be verified.")
		md.PlainText("")
	}

	if len(res.ValidEmails) == 0 {
		md.PlainText("No valid addresses found.")
		md.PlainText("")
		return
	}

	items := make([]string, len(res.ValidEmails))
	for i, email := range res.ValidEmails {
		items[i] = "`" + strings.ReplaceAll(email, "`", "") + "`"
	}
	md.BulletList(items...)
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [mailscout](https://github.com/nao1215/mailscout)*")
}
