package protocol

import (
	"context"
	"errors"
	"fmt"
	"net"
	"slices"
	"strings"
	"sync"
	"time"
)

// ErrNoMXRecords is returned when a domain publishes no usable MX record.
// A null MX (RFC 7505) counts as none.
var ErrNoMXRecords = errors.New("no MX records")

// Resolver looks up the MX records of a domain. *net.Resolver satisfies it.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// MXStore persists resolved exchanger lists between runs.
type MXStore interface {
	// GetMX returns the cached hosts for domain; ok is false on a miss or
	// an expired entry.
	GetMX(ctx context.Context, domain string) (hosts []string, ok bool, err error)
	// PutMX stores hosts for domain.
	PutMX(ctx context.Context, domain string, hosts []string) error
}

// PrimaryMX returns the most preferred exchanger of domain, without the
// trailing dot.
func PrimaryMX(ctx context.Context, r Resolver, domain string) (string, error) {
	records, err := r.LookupMX(ctx, domain)
	if err != nil {
		return "", err
	}
	hosts := mxHosts(records)
	if len(hosts) == 0 {
		return "", fmt.Errorf("%w for %s", ErrNoMXRecords, domain)
	}
	return hosts[0], nil
}

// mxHosts orders records by preference and drops null MX entries.
func mxHosts(records []*net.MX) []string {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b *net.MX) int {
		return int(a.Pref) - int(b.Pref)
	})

	hosts := make([]string, 0, len(sorted))
	for _, mx := range sorted {
		if mx == nil {
			continue
		}
		host := strings.TrimSuffix(mx.Host, ".")
		if host == "" {
			continue
		}
		hosts = append(hosts, host)
	}
	return hosts
}

// CachingResolver memoizes successful MX lookups in memory and, when a
// store is set, on disk. Failures are never cached.
type CachingResolver struct {
	next  Resolver
	store MXStore

	mu    sync.Mutex
	cache map[string][]string
}

// NewCachingResolver wraps next. store may be nil.
func NewCachingResolver(next Resolver, store MXStore) *CachingResolver {
	return &CachingResolver{
		next:  next,
		store: store,
		cache: make(map[string][]string),
	}
}

// LookupMX implements Resolver. Returned records carry their position in
// the preference order as Pref.
func (c *CachingResolver) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	key := strings.ToLower(strings.TrimSuffix(name, "."))

	c.mu.Lock()
	hosts, ok := c.cache[key]
	c.mu.Unlock()
	if ok {
		return toRecords(hosts), nil
	}

	if c.store != nil {
		if stored, found, err := c.store.GetMX(ctx, key); err == nil && found && len(stored) > 0 {
			c.remember(key, stored)
			return toRecords(stored), nil
		}
	}

	records, err := c.next.LookupMX(ctx, key)
	if err != nil {
		return nil, err
	}
	hosts = mxHosts(records)
	if len(hosts) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoMXRecords, name)
	}

	c.remember(key, hosts)
	if c.store != nil {
		// A failed write only costs a lookup on the next run.
		_ = c.store.PutMX(ctx, key, hosts)
	}
	return toRecords(hosts), nil
}

func (c *CachingResolver) remember(key string, hosts []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache[key] = hosts
}

func toRecords(hosts []string) []*net.MX {
	out := make([]*net.MX, len(hosts))
	for i, h := range hosts {
		out[i] = &net.MX{Host: h, Pref: uint16(i)} //nolint:gosec // host lists are short
	}
	return out
}

// DefaultResolver returns the system resolver. Each lookup is bounded by
// the caller's context.
func DefaultResolver() Resolver {
	return &net.Resolver{}
}

// lookupTimeout bounds ctx to d unless d is zero.
func lookupTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
