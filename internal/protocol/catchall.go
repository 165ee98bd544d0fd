package protocol

import (
	"context"
	crand "crypto/rand"
	"math/rand/v2"
	"sync"
)

// DefaultCatchAllSuffix is appended to random local-parts to keep them
// clear of real mailboxes.
const DefaultCatchAllSuffix = "falan"

const (
	randomLength   = 10
	randomAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// CatchAllDetector tests whether a domain accepts mail for any address.
type CatchAllDetector struct {
	prober Prober
	suffix string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewCatchAllDetector creates a detector probing through prober. An empty
// suffix selects DefaultCatchAllSuffix.
func NewCatchAllDetector(prober Prober, suffix string) *CatchAllDetector {
	if suffix == "" {
		suffix = DefaultCatchAllSuffix
	}
	var seed [32]byte
	_, _ = crand.Read(seed[:])
	return &CatchAllDetector{
		prober: prober,
		suffix: suffix,
		rng:    rand.New(rand.NewChaCha8(seed)), //nolint:gosec // uniqueness, not secrecy
	}
}

// RandomAddress returns a fresh address that no one has configured:
// ten random [a-z0-9] characters, the suffix, then @domain.
func (d *CatchAllDetector) RandomAddress(domain string) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf := make([]byte, randomLength, randomLength+len(d.suffix))
	for i := range buf {
		buf[i] = randomAlphabet[d.rng.IntN(len(randomAlphabet))]
	}
	buf = append(buf, d.suffix...)
	return string(buf) + "@" + domain
}

// Detect probes a random address at domain. It reports true only when the
// probe was deliverable; an unreachable domain is not catch-all, and
// neither is one whose probe panicked.
func (d *CatchAllDetector) Detect(ctx context.Context, domain string) (bool, Outcome) {
	out := SafeProbe(ctx, d.prober, d.RandomAddress(domain))
	return out.Deliverable(), out
}
