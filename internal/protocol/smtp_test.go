package protocol

import (
	"context"
	"errors"
	"io"
	"net"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nao1215/mailscout/internal/model"
)

// staticResolver answers MX lookups from a fixed table.
type staticResolver map[string][]*net.MX

func (r staticResolver) LookupMX(_ context.Context, name string) ([]*net.MX, error) {
	records, ok := r[name]
	if !ok {
		return nil, &net.DNSError{Err: "no such host", Name: name, IsNotFound: true}
	}
	return records, nil
}

func localResolver(domains ...string) staticResolver {
	r := staticResolver{}
	for _, d := range domains {
		r[d] = []*net.MX{{Host: "127.0.0.1.", Pref: 10}}
	}
	return r
}

// fakeServer is a minimal SMTP server driven by a reply table.
type fakeServer struct {
	greeting []string
	ehlo     int
	rcpt     func(addr string) int
	silent   bool

	mu       sync.Mutex
	commands []string
}

func (s *fakeServer) start(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go s.serve(conn)
		}
	}()

	return ln.Addr().(*net.TCPAddr).Port
}

func (s *fakeServer) serve(conn net.Conn) {
	defer conn.Close()

	if s.silent {
		_, _ = io.Copy(io.Discard, conn)
		return
	}

	tp := textproto.NewConn(conn)
	greeting := s.greeting
	if len(greeting) == 0 {
		greeting = []string{"220 mx.test ESMTP"}
	}
	for _, line := range greeting {
		if err := tp.PrintfLine("%s", line); err != nil {
			return
		}
	}

	for {
		line, err := tp.ReadLine()
		if err != nil {
			return
		}
		s.mu.Lock()
		s.commands = append(s.commands, line)
		s.mu.Unlock()

		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "EHLO"):
			code := s.ehlo
			if code == 0 {
				code = 250
			}
			_ = tp.PrintfLine("%d mx.test", code)
		case strings.HasPrefix(upper, "HELO"):
			_ = tp.PrintfLine("250 mx.test")
		case strings.HasPrefix(upper, "MAIL FROM:"):
			_ = tp.PrintfLine("250 OK")
		case strings.HasPrefix(upper, "RCPT TO:"):
			addr := strings.TrimSuffix(strings.TrimPrefix(line[len("RCPT TO:"):], "<"), ">")
			code := 550
			if s.rcpt != nil {
				code = s.rcpt(addr)
			}
			_ = tp.PrintfLine("%d recipient %s", code, addr)
		case strings.HasPrefix(upper, "QUIT"):
			_ = tp.PrintfLine("221 bye")
			return
		default:
			_ = tp.PrintfLine("500 unknown command")
		}
	}
}

func (s *fakeServer) sawCommand(prefix string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.commands {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func acceptOnly(addrs ...string) func(string) int {
	return func(addr string) int {
		for _, a := range addrs {
			if a == addr {
				return 250
			}
		}
		return 550
	}
}

func newTestProber(port int, opts ...SMTPProberOption) *SMTPProber {
	base := []SMTPProberOption{
		WithResolver(localResolver("example.com")),
		WithPort(port),
		WithTimeout(time.Second),
	}
	return NewSMTPProber(append(base, opts...)...)
}

func TestSMTPProberProbe(t *testing.T) {
	t.Parallel()

	t.Run("250 is deliverable", func(t *testing.T) {
		t.Parallel()

		srv := &fakeServer{rcpt: acceptOnly("jane@example.com")}
		p := newTestProber(srv.start(t))

		out := p.Probe(context.Background(), "jane@example.com")
		if !out.Deliverable() {
			t.Fatalf("expected deliverable, got %s (err %v)", out, out.Err)
		}
		if out.Code != 250 {
			t.Errorf("expected code 250, got %d", out.Code)
		}
		if out.MXHost != "127.0.0.1" {
			t.Errorf("expected MX host 127.0.0.1, got %q", out.MXHost)
		}
		if !srv.sawCommand("EHLO example.com") || !srv.sawCommand("MAIL FROM:<test@example.com>") {
			t.Error("expected default EHLO identity and sender")
		}
	})

	t.Run("reply codes", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			code    int
			verdict model.Verdict
			reason  Reason
		}{
			{code: 550, verdict: model.VerdictUndeliverable, reason: ReasonRejected},
			{code: 553, verdict: model.VerdictUndeliverable, reason: ReasonRejected},
			{code: 451, verdict: model.VerdictIndeterminate, reason: ReasonTempFailure},
			{code: 251, verdict: model.VerdictIndeterminate, reason: ReasonAmbiguous},
			{code: 252, verdict: model.VerdictIndeterminate, reason: ReasonAmbiguous},
		}

		for _, tt := range tests {
			srv := &fakeServer{rcpt: func(string) int { return tt.code }}
			p := newTestProber(srv.start(t))

			out := p.Probe(context.Background(), "jane@example.com")
			if out.Verdict != tt.verdict || out.Reason != tt.reason || out.Code != tt.code {
				t.Errorf("code %d: expected %s/%s, got %s", tt.code, tt.verdict, tt.reason, out)
			}
			if out.Deliverable() {
				t.Errorf("code %d must not be deliverable", tt.code)
			}
		}
	})

	t.Run("session ends with QUIT", func(t *testing.T) {
		t.Parallel()

		srv := &fakeServer{rcpt: acceptOnly()}
		p := newTestProber(srv.start(t))

		_ = p.Probe(context.Background(), "jane@example.com")

		// The server records QUIT before replying, and the probe reads
		// that reply before returning.
		if !srv.sawCommand("QUIT") {
			t.Error("expected QUIT")
		}
	})

	t.Run("multi-line greeting", func(t *testing.T) {
		t.Parallel()

		srv := &fakeServer{
			greeting: []string{"220-mx.test ESMTP", "220-no UCE", "220 ready"},
			rcpt:     acceptOnly("jane@example.com"),
		}
		p := newTestProber(srv.start(t))

		if out := p.Probe(context.Background(), "jane@example.com"); !out.Deliverable() {
			t.Errorf("expected deliverable, got %s", out)
		}
	})

	t.Run("rejected greeting is indeterminate", func(t *testing.T) {
		t.Parallel()

		srv := &fakeServer{greeting: []string{"554 no service"}}
		p := newTestProber(srv.start(t))

		out := p.Probe(context.Background(), "jane@example.com")
		if out.Verdict != model.VerdictIndeterminate || out.Reason != ReasonRejected || out.Code != 554 {
			t.Errorf("unexpected outcome %s", out)
		}
	})

	t.Run("falls back to HELO", func(t *testing.T) {
		t.Parallel()

		srv := &fakeServer{ehlo: 502, rcpt: acceptOnly("jane@example.com")}
		p := newTestProber(srv.start(t))

		out := p.Probe(context.Background(), "jane@example.com")
		if !out.Deliverable() {
			t.Errorf("expected deliverable, got %s", out)
		}
		if !srv.sawCommand("HELO example.com") {
			t.Error("expected HELO after rejected EHLO")
		}
	})

	t.Run("custom identity", func(t *testing.T) {
		t.Parallel()

		srv := &fakeServer{rcpt: acceptOnly()}
		p := newTestProber(srv.start(t), WithHeloName("probe.test"), WithMailFrom("bounce@probe.test"))

		_ = p.Probe(context.Background(), "jane@example.com")
		if !srv.sawCommand("EHLO probe.test") || !srv.sawCommand("MAIL FROM:<bounce@probe.test>") {
			t.Error("expected custom EHLO identity and sender")
		}
	})

	t.Run("ProbePort overrides the port", func(t *testing.T) {
		t.Parallel()

		srv := &fakeServer{rcpt: acceptOnly("jane@example.com")}
		port := srv.start(t)
		p := newTestProber(1)

		if out := p.ProbePort(context.Background(), "jane@example.com", port); !out.Deliverable() {
			t.Errorf("expected deliverable, got %s", out)
		}
	})
}

func TestSMTPProberFailures(t *testing.T) {
	t.Parallel()

	t.Run("invalid address", func(t *testing.T) {
		t.Parallel()

		p := newTestProber(1)
		for _, email := range []string{"", "jane", "@example.com", "jane@"} {
			out := p.Probe(context.Background(), email)
			if out.Reason != ReasonInvalidAddress || !errors.Is(out.Err, ErrInvalidAddress) {
				t.Errorf("%q: expected invalid address, got %s", email, out)
			}
		}
	})

	t.Run("unknown domain", func(t *testing.T) {
		t.Parallel()

		p := newTestProber(1)
		out := p.Probe(context.Background(), "jane@unknown.test")
		if out.Verdict != model.VerdictIndeterminate || out.Reason != ReasonResolution {
			t.Errorf("expected resolution failure, got %s", out)
		}
	})

	t.Run("null MX", func(t *testing.T) {
		t.Parallel()

		p := NewSMTPProber(WithResolver(staticResolver{"example.com": {{Host: ".", Pref: 0}}}))
		out := p.Probe(context.Background(), "jane@example.com")
		if out.Reason != ReasonResolution || !errors.Is(out.Err, ErrNoMXRecords) {
			t.Errorf("expected ErrNoMXRecords, got %s (%v)", out, out.Err)
		}
	})

	t.Run("connection refused", func(t *testing.T) {
		t.Parallel()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to listen: %v", err)
		}
		port := ln.Addr().(*net.TCPAddr).Port
		_ = ln.Close()

		out := newTestProber(port).Probe(context.Background(), "jane@example.com")
		if out.Verdict != model.VerdictIndeterminate || out.Reason != ReasonTransport {
			t.Errorf("expected transport failure, got %s", out)
		}
	})

	t.Run("silent server times out", func(t *testing.T) {
		t.Parallel()

		srv := &fakeServer{silent: true}
		p := newTestProber(srv.start(t), WithTimeout(200*time.Millisecond))

		start := time.Now()
		out := p.Probe(context.Background(), "jane@example.com")
		if out.Reason != ReasonTransport {
			t.Errorf("expected transport failure, got %s", out)
		}
		if elapsed := time.Since(start); elapsed > 3*time.Second {
			t.Errorf("probe took %v, timeout not honored", elapsed)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		srv := &fakeServer{rcpt: acceptOnly("jane@example.com")}
		p := newTestProber(srv.start(t))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		out := p.Probe(ctx, "jane@example.com")
		if out.Deliverable() || out.Reason != ReasonCancelled {
			t.Errorf("expected cancelled, got %s", out)
		}
	})
}

func TestOutcomeString(t *testing.T) {
	t.Parallel()

	out := Outcome{Verdict: model.VerdictUndeliverable, Reason: ReasonRejected, Code: 550, MXHost: "mx.example.com"}
	if got, want := out.String(), "undeliverable [rejected] (550 via mx.example.com)"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
