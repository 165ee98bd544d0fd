package protocol

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/mailscout/internal/model"
	"golang.org/x/net/proxy"
)

// ErrInvalidAddress is returned for addresses without a local-part or domain.
var ErrInvalidAddress = errors.New("invalid email address")

const (
	// DefaultPort is the SMTP relay port probed by default.
	DefaultPort = 25
	// DefaultTimeout bounds each network stage of a probe.
	DefaultTimeout = 2 * time.Second
	// DefaultHeloName is the identity sent with EHLO.
	DefaultHeloName = "example.com"
	// DefaultMailFrom is the placeholder envelope sender.
	DefaultMailFrom = "test@example.com"
)

// Prober judges the deliverability of one address.
// Implementations must be safe for concurrent use and must not panic on
// network errors; every failure is reported through the Outcome.
type Prober interface {
	Probe(ctx context.Context, email string) Outcome
}

// ProberFunc adapts a function to the Prober interface.
type ProberFunc func(ctx context.Context, email string) Outcome

// Probe implements Prober.
func (f ProberFunc) Probe(ctx context.Context, email string) Outcome {
	return f(ctx, email)
}

// SafeProbe calls p.Probe and turns a panic into an indeterminate outcome
// with ReasonPanic.
func SafeProbe(ctx context.Context, p Prober, email string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = indeterminate(email, ReasonPanic, fmt.Errorf("probe panicked: %v", r))
		}
	}()
	return p.Probe(ctx, email)
}

// SMTPProber probes addresses over SMTP. It is safe for concurrent use.
type SMTPProber struct {
	resolver Resolver
	dialer   proxy.Dialer
	limiter  *HostLimiter
	logger   *slog.Logger

	timeout  time.Duration
	port     int
	heloName string
	mailFrom string
}

// SMTPProberOption configures an SMTPProber.
type SMTPProberOption func(*SMTPProber)

// WithTimeout sets the bound for each network stage: resolution,
// connection and the dialogue.
func WithTimeout(timeout time.Duration) SMTPProberOption {
	return func(p *SMTPProber) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

// WithPort sets the port probes connect to.
func WithPort(port int) SMTPProberOption {
	return func(p *SMTPProber) {
		p.port = port
	}
}

// WithHeloName sets the EHLO identity.
func WithHeloName(name string) SMTPProberOption {
	return func(p *SMTPProber) {
		p.heloName = name
	}
}

// WithMailFrom sets the envelope sender.
func WithMailFrom(from string) SMTPProberOption {
	return func(p *SMTPProber) {
		p.mailFrom = from
	}
}

// WithResolver replaces the system resolver.
func WithResolver(r Resolver) SMTPProberOption {
	return func(p *SMTPProber) {
		p.resolver = r
	}
}

// WithDialer replaces the direct dialer, for example with a SOCKS5 proxy
// dialer from NewDialer.
func WithDialer(d proxy.Dialer) SMTPProberOption {
	return func(p *SMTPProber) {
		p.dialer = d
	}
}

// WithHostLimiter rate-limits connections per mail exchanger.
func WithHostLimiter(l *HostLimiter) SMTPProberOption {
	return func(p *SMTPProber) {
		p.limiter = l
	}
}

// WithLogger sets the logger for per-probe debug output.
func WithLogger(logger *slog.Logger) SMTPProberOption {
	return func(p *SMTPProber) {
		p.logger = logger
	}
}

// NewSMTPProber creates a prober with the defaults above.
func NewSMTPProber(opts ...SMTPProberOption) *SMTPProber {
	p := &SMTPProber{
		resolver: DefaultResolver(),
		timeout:  DefaultTimeout,
		port:     DefaultPort,
		heloName: DefaultHeloName,
		mailFrom: DefaultMailFrom,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.dialer == nil {
		p.dialer = &net.Dialer{Timeout: p.timeout}
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// Probe checks email on the configured port.
func (p *SMTPProber) Probe(ctx context.Context, email string) Outcome {
	return p.ProbePort(ctx, email, p.port)
}

// ProbePort checks email on the given port.
func (p *SMTPProber) ProbePort(ctx context.Context, email string, port int) Outcome {
	out := p.probe(ctx, email, port)
	p.logger.Debug("probe finished",
		"email", email,
		"verdict", out.Verdict.String(),
		"reason", string(out.Reason),
		"code", out.Code,
		"mx", out.MXHost,
		"error", out.Err,
	)
	return out
}

func (p *SMTPProber) probe(ctx context.Context, email string, port int) Outcome {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return indeterminate(email, ReasonInvalidAddress, fmt.Errorf("%w: %q", ErrInvalidAddress, email))
	}
	domain := email[at+1:]

	lookupCtx, cancel := lookupTimeout(ctx, p.timeout)
	host, err := PrimaryMX(lookupCtx, p.resolver, domain)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return indeterminate(email, ReasonCancelled, ctx.Err())
		}
		return indeterminate(email, ReasonResolution, err)
	}

	if err := p.limiter.Wait(ctx, host); err != nil {
		out := indeterminate(email, ReasonCancelled, err)
		out.MXHost = host
		return out
	}

	out := p.converse(ctx, email, host, port)
	out.Email = email
	out.MXHost = host
	return out
}

// converse runs the dialogue against host. The connection is closed on
// every path.
func (p *SMTPProber) converse(ctx context.Context, email, host string, port int) Outcome {
	dialCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := dialContext(dialCtx, p.dialer, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		if ctx.Err() != nil {
			return indeterminate(email, ReasonCancelled, ctx.Err())
		}
		return indeterminate(email, ReasonTransport, err)
	}

	tp := textproto.NewConn(conn)
	defer tp.Close()

	if err := conn.SetDeadline(time.Now().Add(p.timeout)); err != nil {
		return indeterminate(email, ReasonTransport, err)
	}
	// Unblock pending reads when the caller gives up.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	fail := func(code int, err error) Outcome {
		switch {
		case ctx.Err() != nil:
			out := indeterminate(email, ReasonCancelled, ctx.Err())
			out.Code = code
			return out
		case code != 0:
			out := indeterminate(email, classifyStage(code), err)
			out.Code = code
			return out
		default:
			return indeterminate(email, ReasonTransport, err)
		}
	}

	if code, _, err := readReply(tp, 220); err != nil {
		return fail(code, err)
	}

	if code, _, err := command(tp, 250, "EHLO %s", p.heloName); err != nil {
		if code < 500 || code >= 600 {
			return fail(code, err)
		}
		// Servers without ESMTP answer EHLO with 500 or 502.
		if code, _, err := command(tp, 250, "HELO %s", p.heloName); err != nil {
			return fail(code, err)
		}
	}

	if code, _, err := command(tp, 250, "MAIL FROM:<%s>", p.mailFrom); err != nil {
		return fail(code, err)
	}

	code, msg, err := command(tp, 0, "RCPT TO:<%s>", email)
	if err != nil {
		return fail(code, err)
	}

	// QUIT is a courtesy; the deferred close ends the session either way.
	_, _, _ = command(tp, 0, "QUIT")

	verdict, reason := classifyRcpt(code)
	out := Outcome{Verdict: verdict, Reason: reason, Code: code}
	if verdict != model.VerdictDeliverable {
		out.Err = &textproto.Error{Code: code, Msg: msg}
	}
	return out
}

// command sends one SMTP command and reads the reply. expect has the
// meaning of textproto.Reader.ReadResponse; 0 accepts any code.
func command(tp *textproto.Conn, expect int, format string, args ...any) (int, string, error) {
	id, err := tp.Cmd(format, args...)
	if err != nil {
		return 0, "", err
	}
	tp.StartResponse(id)
	defer tp.EndResponse(id)
	return readReply(tp, expect)
}

// readReply reads a possibly multi-line reply. On a code mismatch the
// code is returned together with a *textproto.Error.
func readReply(tp *textproto.Conn, expect int) (int, string, error) {
	code, msg, err := tp.ReadResponse(expect)
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		return protoErr.Code, protoErr.Msg, err
	}
	return code, msg, err
}
