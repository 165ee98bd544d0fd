package scout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/mailscout/internal/candidate"
	"github.com/nao1215/mailscout/internal/config"
	"github.com/nao1215/mailscout/internal/database"
	"github.com/nao1215/mailscout/internal/model"
	"github.com/nao1215/mailscout/internal/normalize"
	"github.com/nao1215/mailscout/internal/pipeline"
	"github.com/nao1215/mailscout/internal/protocol"
)

// Scout discovers deliverable addresses. It is safe for concurrent use.
type Scout struct {
	cfg       *config.Config
	logger    *slog.Logger
	prober    protocol.Prober
	resolver  protocol.Resolver
	detector  *protocol.CatchAllDetector
	generator candidate.Generator
	cache     *database.MXCache
}

// Option configures a Scout.
type Option func(*Scout)

// WithLogger sets the logger shared by every component.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scout) {
		s.logger = logger
	}
}

// WithProber replaces the SMTP prober. Catch-all detection and
// verification both go through it.
func WithProber(p protocol.Prober) Option {
	return func(s *Scout) {
		s.prober = p
	}
}

// WithResolver replaces the system DNS resolver used by the SMTP prober.
// Results are still cached.
func WithResolver(r protocol.Resolver) Option {
	return func(s *Scout) {
		s.resolver = r
	}
}

// New builds a Scout from cfg. A nil cfg means config.NewConfig().
// When cfg.MXCache is set, the SQLite MX cache under cfg.CacheDir is opened
// and must be released with Close.
func New(cfg *config.Config, opts ...Option) (*Scout, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Scout{
		cfg: cfg,
		generator: candidate.Generator{
			Normalize: cfg.Normalize,
			MaxTokens: cfg.MaxNameTokens,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}

	if s.prober == nil {
		prober, err := s.newSMTPProber()
		if err != nil {
			return nil, errors.Join(err, s.Close())
		}
		s.prober = prober
	}
	s.detector = protocol.NewCatchAllDetector(s.prober, cfg.CatchAllSuffix)

	return s, nil
}

func (s *Scout) newSMTPProber() (*protocol.SMTPProber, error) {
	dialer, err := protocol.NewDialer(s.cfg.Proxy, s.cfg.Timeout)
	if err != nil {
		return nil, err
	}

	next := s.resolver
	if next == nil {
		next = protocol.DefaultResolver()
	}

	var resolver *protocol.CachingResolver
	if s.cfg.MXCache {
		cache, err := database.Open(s.cfg.CacheDir, database.Options{
			CreateIfNotExists: true,
			EnableWAL:         true,
			TTL:               s.cfg.MXCacheTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open MX cache: %w", err)
		}
		s.cache = cache
		if n, err := cache.Purge(context.Background()); err != nil {
			s.logger.Warn("failed to purge MX cache", "error", err)
		} else {
			s.logger.Debug("using MX cache", "path", cache.Path(), "expired", n)
		}
		resolver = protocol.NewCachingResolver(next, cache)
	} else {
		resolver = protocol.NewCachingResolver(next, nil)
	}
	s.resolver = resolver

	return protocol.NewSMTPProber(
		protocol.WithTimeout(s.cfg.Timeout),
		protocol.WithPort(s.cfg.Port),
		protocol.WithHeloName(s.cfg.HeloName),
		protocol.WithMailFrom(s.cfg.MailFrom),
		protocol.WithResolver(resolver),
		protocol.WithDialer(dialer),
		protocol.WithHostLimiter(protocol.NewHostLimiter(s.cfg.ProbeRate, s.cfg.ProbeBurst)),
		protocol.WithLogger(s.logger),
	), nil
}

// Close releases the MX cache, if one was opened.
func (s *Scout) Close() error {
	if s.cache == nil {
		return nil
	}
	err := s.cache.Close()
	s.cache = nil
	return err
}

// Probe checks one address and returns the detailed outcome.
func (s *Scout) Probe(ctx context.Context, email string) protocol.Outcome {
	return s.prober.Probe(ctx, email)
}

// CheckSMTP reports whether email is deliverable on the configured port.
func (s *Scout) CheckSMTP(ctx context.Context, email string) bool {
	return s.Probe(ctx, email).Deliverable()
}

// ProbeOnPort checks one address on the given port. Probers that cannot
// switch ports use their own.
func (s *Scout) ProbeOnPort(ctx context.Context, email string, port int) protocol.Outcome {
	if pp, ok := s.prober.(interface {
		ProbePort(ctx context.Context, email string, port int) protocol.Outcome
	}); ok {
		return pp.ProbePort(ctx, email, port)
	}
	return s.prober.Probe(ctx, email)
}

// CheckSMTPOnPort reports whether email is deliverable on port.
func (s *Scout) CheckSMTPOnPort(ctx context.Context, email string, port int) bool {
	return s.ProbeOnPort(ctx, email, port).Deliverable()
}

// DetectCatchAll probes a random address at domain and returns the outcome
// alongside the decision.
func (s *Scout) DetectCatchAll(ctx context.Context, domain string) (bool, protocol.Outcome) {
	return s.detector.Detect(ctx, domain)
}

// CheckCatchAll reports whether domain accepts mail for any address.
func (s *Scout) CheckCatchAll(ctx context.Context, domain string) bool {
	catchAll, _ := s.DetectCatchAll(ctx, domain)
	return catchAll
}

// NormalizeName reduces a name to lowercase ASCII letters and digits.
func (s *Scout) NormalizeName(name string) string {
	return normalize.Name(name)
}

// GeneratePrefixes returns the role-prefix candidates for domain, using
// the configured custom prefixes when present.
func (s *Scout) GeneratePrefixes(domain string) []string {
	return candidate.Prefixes(domain, s.cfg.CustomPrefixes)
}

// GenerateVariants returns the variant candidates for one person. Each
// fragment is split on whitespace.
func (s *Scout) GenerateVariants(fragments []string, domain string) ([]string, error) {
	return s.generator.Variants(candidate.SplitFragments(fragments), domain)
}

// Candidates returns the candidate set a find on domain would probe, with
// the people that had to be skipped.
func (s *Scout) Candidates(domain string, names model.Names) ([]string, []candidate.SkippedName) {
	return s.generator.Build(domain, names, s.selection())
}

func (s *Scout) selection() candidate.Selection {
	return candidate.Selection{
		Variants:       s.cfg.CheckVariants,
		Prefixes:       s.cfg.CheckPrefixes,
		CustomPrefixes: s.cfg.CustomPrefixes,
	}
}

// newPipeline assembles the single-domain pipeline.
func (s *Scout) newPipeline() *pipeline.Pipeline {
	p := pipeline.New(pipeline.WithLogger(s.logger))
	p.AddStep(pipeline.NewValidateDomainStep())
	if s.cfg.CheckCatchAll {
		p.AddStep(pipeline.NewCatchAllStep(s.detector, s.logger))
	}
	p.AddSteps(
		pipeline.NewCandidateStep(s.generator, s.selection(), s.logger),
		pipeline.NewVerifyStep(s.prober, s.cfg.Workers, s.logger),
	)
	return p
}

// Find runs the single-domain pipeline and returns its report. The
// report is returned even on error, holding whatever finished.
func (s *Scout) Find(ctx context.Context, domain string, names model.Names) (*model.DomainReport, error) {
	report := model.NewDomainReport(domain, names)
	err := s.newPipeline().Execute(ctx, report)
	return report, err
}

// FindValidEmails returns the deliverable addresses of domain. A
// catch-all domain yields an empty list. The error is non-nil when the
// domain is invalid or ctx ended early; the partial list is still
// returned then.
func (s *Scout) FindValidEmails(ctx context.Context, domain string, names model.Names) ([]string, error) {
	report, err := s.Find(ctx, domain, names)
	return report.ValidEmails(), err
}

func (s *Scout) batch() *pipeline.BatchProcessor {
	return pipeline.NewBatchProcessor(s.newPipeline,
		pipeline.WithBatchLogger(s.logger),
		pipeline.WithConcurrency(s.cfg.BulkWorkers),
	)
}

// FindValidEmailsBulk runs every distinct job and returns one record per
// job that completed, in completion order. Failing jobs are logged and
// skipped. The error is non-nil only when ctx ended early.
func (s *Scout) FindValidEmailsBulk(ctx context.Context, jobs []model.BulkJob) ([]model.BulkResult, error) {
	return s.batch().ProcessBatch(ctx, jobs)
}

// FindValidEmailsBulkFunc is FindValidEmailsBulk with a callback invoked as
// each job completes. fn must be safe for concurrent use when more than
// one bulk worker is configured.
func (s *Scout) FindValidEmailsBulkFunc(ctx context.Context, jobs []model.BulkJob, fn func(model.BulkResult)) error {
	return s.batch().ProcessBatchWithCallback(ctx, jobs, func(result model.BulkResult, _ int) {
		fn(result)
	})
}
