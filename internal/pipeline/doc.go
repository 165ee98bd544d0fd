// Package pipeline runs the single-domain check as a sequence of steps and
// fans bulk jobs out over a worker pool.
//
// A domain check is built from four steps, each receiving the shared
// model.DomainReport:
//
//	validate_domain -> catch_all -> candidates -> verify
//
// Any step may halt the pipeline through DomainReport.Halt. The catch-all
// step does so when the domain accepts a random address, which guarantees
// that no candidate is probed for such a domain.
//
// VerifyStep and BatchProcessor are fixed-size worker pools: a queue
// channel, N workers joined through errgroup, and a full barrier before
// returning. A failing unit never stops a worker.
package pipeline
