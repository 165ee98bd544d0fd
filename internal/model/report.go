package model

import (
	"sync"
	"time"
)

// DomainReport is the working state of one single-domain check.
// Pipeline steps read and extend it in order: the catch-all step sets
// CatchAll (and may halt the pipeline), the candidate step fills
// Candidates, the verification step records outcomes.
//
// Record and ValidEmails are safe for concurrent use; the remaining fields
// are written by one step at a time.
type DomainReport struct {
	// Domain is the checked domain, exactly as supplied.
	Domain string `json:"domain"`

	// Names is the name data the candidates are generated from.
	Names Names `json:"names"`

	// StartedAt is when the check began.
	StartedAt time.Time `json:"started_at"`

	// CatchAll is true when the domain accepted a random local-part.
	CatchAll bool `json:"catch_all"`

	// Candidates is the de-duplicated set of addresses to probe.
	Candidates []string `json:"candidates,omitempty"`

	// Halted is set by a step that decided no further step should run.
	Halted bool `json:"halted"`

	// HaltReason explains why the pipeline stopped early.
	HaltReason string `json:"halt_reason,omitempty"`

	// TimedOut is true if the check was cancelled before it finished.
	TimedOut bool `json:"timed_out"`

	// PerformedSteps lists the steps that actually ran.
	PerformedSteps []string `json:"performed_steps,omitempty"`

	// Warnings collects non-fatal problems, such as skipped name sets.
	Warnings []string `json:"warnings,omitempty"`

	// Error contains the error of the last failed step, if any.
	Error error `json:"-"`

	// ErrorMessage is the string representation of Error for serialization.
	ErrorMessage string `json:"error,omitempty"` //nolint:tagliatelle // error is conventional

	mu    sync.Mutex
	valid []string
	stats Stats
}

// NewDomainReport creates an empty report for domain.
func NewDomainReport(domain string, names Names) *DomainReport {
	return &DomainReport{
		Domain:    domain,
		Names:     names,
		StartedAt: time.Now(),
	}
}

// Halt stops the pipeline after the current step.
func (r *DomainReport) Halt(reason string) {
	r.Halted = true
	r.HaltReason = reason
}

// Record stores the verdict for one probed address. It is safe to call
// from many goroutines; deliverable addresses are appended exactly once
// per call.
func (r *DomainReport) Record(email string, v Verdict) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stats.add(v)
	if v == VerdictDeliverable {
		r.valid = append(r.valid, email)
	}
}

// ValidEmails returns a copy of the addresses judged deliverable so far.
// The result is never nil.
func (r *DomainReport) ValidEmails() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.valid))
	copy(out, r.valid)
	return out
}

// Stats returns the outcome counts collected so far.
func (r *DomainReport) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.stats
	s.CatchAll = r.CatchAll
	s.Candidates = len(r.Candidates)
	return s
}

// Result converts the report into the public bulk record.
func (r *DomainReport) Result() BulkResult {
	stats := r.Stats()
	return BulkResult{
		Domain:      r.Domain,
		Names:       r.Names,
		ValidEmails: r.ValidEmails(),
		Stats:       &stats,
	}
}
