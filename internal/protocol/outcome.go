package protocol

import (
	"fmt"

	"github.com/nao1215/mailscout/internal/model"
)

// Reason explains why a probe did not end in a deliverable verdict.
type Reason string

const (
	// ReasonNone is set on deliverable outcomes.
	ReasonNone Reason = ""
	// ReasonInvalidAddress means the address has no usable local-part or domain.
	ReasonInvalidAddress Reason = "invalid-address"
	// ReasonResolution means no mail exchanger could be found.
	ReasonResolution Reason = "resolution"
	// ReasonTransport means the connection failed, timed out or was reset.
	ReasonTransport Reason = "transport"
	// ReasonRejected means the server answered with a permanent 5xx code.
	ReasonRejected Reason = "rejected"
	// ReasonTempFailure means the server answered with a transient 4xx code.
	ReasonTempFailure Reason = "temporary-failure"
	// ReasonAmbiguous means the server answered RCPT TO with a non-250
	// success code such as 251 or 252.
	ReasonAmbiguous Reason = "ambiguous"
	// ReasonCancelled means the caller's context ended first.
	ReasonCancelled Reason = "cancelled"
	// ReasonPanic means the probe panicked and was recovered.
	ReasonPanic Reason = "panic"
)

// Outcome is the result of probing one address.
type Outcome struct {
	// Email is the probed address.
	Email string

	// Verdict is the deliverability judgment.
	Verdict model.Verdict

	// Reason explains a non-deliverable verdict.
	Reason Reason

	// Code is the last SMTP reply code read, or 0 if none was read.
	Code int

	// MXHost is the mail exchanger that was contacted.
	MXHost string

	// Err is the underlying error, if any.
	Err error
}

// Deliverable reports whether the address was accepted with 250.
func (o Outcome) Deliverable() bool {
	return o.Verdict == model.VerdictDeliverable
}

// String returns a one-line summary such as "deliverable (250 via mx.example.com)".
func (o Outcome) String() string {
	s := o.Verdict.String()
	if o.Reason != ReasonNone {
		s += " [" + string(o.Reason) + "]"
	}
	switch {
	case o.Code != 0 && o.MXHost != "":
		s += fmt.Sprintf(" (%d via %s)", o.Code, o.MXHost)
	case o.MXHost != "":
		s += fmt.Sprintf(" (via %s)", o.MXHost)
	}
	return s
}

func indeterminate(email string, reason Reason, err error) Outcome {
	return Outcome{Email: email, Verdict: model.VerdictIndeterminate, Reason: reason, Err: err}
}

// classifyRcpt maps the RCPT TO reply code to a verdict.
func classifyRcpt(code int) (model.Verdict, Reason) {
	switch {
	case code == 250:
		return model.VerdictDeliverable, ReasonNone
	case code >= 500 && code < 600:
		return model.VerdictUndeliverable, ReasonRejected
	case code >= 400 && code < 500:
		return model.VerdictIndeterminate, ReasonTempFailure
	default:
		return model.VerdictIndeterminate, ReasonAmbiguous
	}
}

// classifyStage maps a non-success reply before RCPT TO to a reason.
// A rejected greeting or sender says nothing about the recipient, so the
// verdict is always indeterminate.
func classifyStage(code int) Reason {
	if code >= 400 && code < 500 {
		return ReasonTempFailure
	}
	return ReasonRejected
}
