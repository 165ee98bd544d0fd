// Package model defines the data structures shared by the mailscout packages.
//
// This package contains the following main types:
//   - DomainReport: the working state of one single-domain check
//   - BulkJob: one unit of bulk work (a domain plus optional names)
//   - BulkResult: the aggregated output of running one BulkJob
//   - Names: the union of name shapes accepted from callers and files
//   - Verdict: the deliverability judgment for one probed address
//
// Types live in their own package so that pipeline, protocol and report can
// share them without import cycles. Everything that leaves the process is
// serializable to JSON.
package model
