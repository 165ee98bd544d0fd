package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/mailscout/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultBulkWorkers is the default size of the bulk pool.
const DefaultBulkWorkers = 1

// BatchProcessor runs the single-domain pipeline for many jobs over a
// fixed-size pool, independent of the per-domain verification pool.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each job.
	pipelineFactory func() *Pipeline

	// concurrency is the number of bulk workers.
	concurrency int

	logger *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the number of bulk workers.
// Default is DefaultBulkWorkers if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func() *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultBulkWorkers,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch runs every distinct job and returns one result per job that
// completed. Jobs that fail are logged at warn level and left out. Result
// order follows completion, not input.
//
// The error is non-nil only when ctx ended before all jobs ran.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, jobs []model.BulkJob) ([]model.BulkResult, error) {
	var (
		mu      sync.Mutex
		results = make([]model.BulkResult, 0, len(jobs))
	)

	err := bp.ProcessBatchWithCallback(ctx, jobs, func(result model.BulkResult, _ int) {
		mu.Lock()
		results = append(results, result)
		mu.Unlock()
	})

	return results, err
}

// ProcessBatchWithCallback runs every distinct job and calls callback for
// each one that completed, with the job's index in the de-duplicated list.
// The callback is called from worker goroutines and must be safe for
// concurrent use.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	jobs []model.BulkJob,
	callback func(result model.BulkResult, index int),
) error {
	unique := model.DedupJobs(jobs)
	if dropped := len(jobs) - len(unique); dropped > 0 {
		bp.logger.Info("dropped duplicate jobs", "count", dropped)
	}

	bp.logger.Info("starting batch processing",
		"total_jobs", len(unique),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	type item struct {
		job   model.BulkJob
		index int
	}

	queue := make(chan item)
	var g errgroup.Group

	for range min(bp.concurrency, max(len(unique), 1)) {
		g.Go(func() error {
			for it := range queue {
				if result, ok := bp.run(ctx, it.job, it.index, len(unique)); ok {
					callback(result, it.index)
				}
			}
			return nil
		})
	}

feed:
	for i, job := range unique {
		select {
		case queue <- item{job: job, index: i}:
		case <-ctx.Done():
			break feed
		}
	}
	close(queue)
	_ = g.Wait()

	bp.logger.Info("batch processing complete",
		"total_jobs", len(unique),
		"elapsed", time.Since(startTime),
	)

	return ctx.Err()
}

// run executes one job. A panic or error skips the job without stopping
// the worker.
func (bp *BatchProcessor) run(ctx context.Context, job model.BulkJob, index, total int) (result model.BulkResult, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			bp.logger.Warn("job panicked, skipping",
				"domain", job.Domain,
				"panic", r,
			)
			ok = false
		}
	}()

	bp.logger.Info("checking domain",
		"domain", job.Domain,
		"index", index+1,
		"total", total,
	)

	report := model.NewDomainReport(job.Domain, job.Names)
	if err := bp.pipelineFactory().Execute(ctx, report); err != nil {
		if ctx.Err() == nil {
			bp.logger.Warn("job failed, skipping",
				"domain", job.Domain,
				"error", err,
			)
		}
		return model.BulkResult{}, false
	}

	return report.Result(), true
}
