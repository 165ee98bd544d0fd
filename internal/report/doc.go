// Package report renders discovery results.
//
// Three writers share the Writer interface:
//   - SimpleWriter: plain text for the terminal (the default)
//   - JSONWriter: the result records, for scripts and other tools
//   - MarkdownWriter: a shareable document with tables and a mermaid chart
//
// Report data lives in the model package; this package only formats it.
package report
