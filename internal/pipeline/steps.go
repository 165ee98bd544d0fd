package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/mailscout/internal/candidate"
	"github.com/nao1215/mailscout/internal/model"
	"github.com/nao1215/mailscout/internal/protocol"
	"golang.org/x/sync/errgroup"
)

// Halt reasons recorded on the report.
const (
	HaltCatchAll     = "catch-all domain"
	HaltNoCandidates = "no candidates"
)

// ValidateDomainStep rejects domains that cannot be mail domains before
// any network traffic happens.
type ValidateDomainStep struct{}

// NewValidateDomainStep creates a new domain validation step.
func NewValidateDomainStep() *ValidateDomainStep {
	return &ValidateDomainStep{}
}

// Name returns the step name.
func (s *ValidateDomainStep) Name() string {
	return "validate_domain"
}

// Do executes the validation.
func (s *ValidateDomainStep) Do(_ context.Context, report *model.DomainReport) error {
	return model.ValidateDomain(report.Domain)
}

// CatchAllStep probes a random address and halts the pipeline when the
// domain accepts it.
type CatchAllStep struct {
	detector *protocol.CatchAllDetector
	logger   *slog.Logger
}

// NewCatchAllStep creates a new catch-all detection step.
func NewCatchAllStep(detector *protocol.CatchAllDetector, logger *slog.Logger) *CatchAllStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatchAllStep{detector: detector, logger: logger}
}

// Name returns the step name.
func (s *CatchAllStep) Name() string {
	return "catch_all"
}

// Do executes the catch-all probe.
func (s *CatchAllStep) Do(ctx context.Context, report *model.DomainReport) error {
	catchAll, out := s.detector.Detect(ctx, report.Domain)
	report.CatchAll = catchAll

	if catchAll {
		s.logger.Info("domain accepts any address, skipping verification",
			"domain", report.Domain,
			"mx", out.MXHost,
		)
		report.Halt(HaltCatchAll)
	}
	return nil
}

// CandidateStep fills the report with the de-duplicated candidate set.
type CandidateStep struct {
	generator candidate.Generator
	selection candidate.Selection
	logger    *slog.Logger
}

// NewCandidateStep creates a new candidate generation step.
func NewCandidateStep(generator candidate.Generator, selection candidate.Selection, logger *slog.Logger) *CandidateStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &CandidateStep{generator: generator, selection: selection, logger: logger}
}

// Name returns the step name.
func (s *CandidateStep) Name() string {
	return "candidates"
}

// Do executes candidate generation.
func (s *CandidateStep) Do(_ context.Context, report *model.DomainReport) error {
	candidates, skipped := s.generator.Build(report.Domain, report.Names, s.selection)
	for _, sk := range skipped {
		s.logger.Warn("skipping name",
			"domain", report.Domain,
			"name", sk.Fragments,
			"error", sk.Err,
		)
		report.Warnings = append(report.Warnings, sk.Error())
	}

	report.Candidates = candidates
	if len(candidates) == 0 {
		report.Halt(HaltNoCandidates)
	}
	return nil
}

// DefaultWorkers is the default size of the verification pool.
const DefaultWorkers = 5

// VerifyStep probes every candidate exactly once over a fixed-size pool of
// workers and records each verdict on the report.
type VerifyStep struct {
	prober  protocol.Prober
	workers int
	logger  *slog.Logger
}

// NewVerifyStep creates a new verification step. Non-positive workers
// selects DefaultWorkers.
func NewVerifyStep(prober protocol.Prober, workers int, logger *slog.Logger) *VerifyStep {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &VerifyStep{prober: prober, workers: workers, logger: logger}
}

// Name returns the step name.
func (s *VerifyStep) Name() string {
	return "verify"
}

// Do executes verification. It returns after every queued candidate has
// been probed and every worker has exited. When ctx ends, no further
// candidates are queued and ctx.Err() is returned; verdicts recorded so
// far stay on the report.
func (s *VerifyStep) Do(ctx context.Context, report *model.DomainReport) error {
	workers := min(s.workers, len(report.Candidates))
	if workers == 0 {
		return nil
	}

	queue := make(chan string)
	var g errgroup.Group

	for range workers {
		g.Go(func() error {
			for email := range queue {
				out := s.probe(ctx, email)
				report.Record(email, out.Verdict)
			}
			return nil
		})
	}

feed:
	for _, email := range report.Candidates {
		select {
		case queue <- email:
		case <-ctx.Done():
			break feed
		}
	}
	close(queue)

	// Workers never return errors; Wait is the join barrier.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		report.TimedOut = true
		return err
	}

	s.logger.Debug("verification complete",
		"domain", report.Domain,
		"candidates", len(report.Candidates),
		"valid", len(report.ValidEmails()),
	)
	return nil
}

// probe runs one probe and logs a recovered panic.
func (s *VerifyStep) probe(ctx context.Context, email string) protocol.Outcome {
	out := protocol.SafeProbe(ctx, s.prober, email)
	if out.Reason == protocol.ReasonPanic {
		s.logger.Warn("probe panicked", "email", email, "error", out.Err)
	}
	return out
}
