package model

// Verdict is the deliverability judgment for a single probed address.
//
// Only VerdictDeliverable counts as a positive result. Undeliverable and
// Indeterminate are kept apart internally so that logs and statistics can
// tell an explicit rejection from a network failure, but both read as
// "not deliverable" at the public boundary.
type Verdict int

const (
	// VerdictIndeterminate means the probe could not reach a decision:
	// no MX record, connection failure, timeout, temporary rejection.
	VerdictIndeterminate Verdict = iota

	// VerdictUndeliverable means the mail exchanger permanently rejected
	// the recipient.
	VerdictUndeliverable

	// VerdictDeliverable means the mail exchanger answered RCPT TO with 250.
	VerdictDeliverable
)

// String returns a human-readable representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictDeliverable:
		return "deliverable"
	case VerdictUndeliverable:
		return "undeliverable"
	case VerdictIndeterminate:
		return "indeterminate"
	default:
		return "unknown"
	}
}

// Stats counts the outcomes of one domain check.
type Stats struct {
	// CatchAll is true when the domain accepted a random, nonexistent
	// address and verification was skipped.
	CatchAll bool `json:"catch_all"`

	// Candidates is the number of distinct addresses scheduled for probing.
	Candidates int `json:"candidates"`

	// Deliverable is the number of addresses accepted with 250.
	Deliverable int `json:"deliverable"`

	// Undeliverable is the number of addresses permanently rejected.
	Undeliverable int `json:"undeliverable"`

	// Indeterminate is the number of probes that failed to decide.
	Indeterminate int `json:"indeterminate"`
}

// Probed returns how many probes finished, whatever their verdict.
func (s Stats) Probed() int {
	return s.Deliverable + s.Undeliverable + s.Indeterminate
}

func (s *Stats) add(v Verdict) {
	switch v {
	case VerdictDeliverable:
		s.Deliverable++
	case VerdictUndeliverable:
		s.Undeliverable++
	default:
		s.Indeterminate++
	}
}
