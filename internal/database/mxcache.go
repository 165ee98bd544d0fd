package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// FileName is the database file created inside the cache directory.
const FileName = "mxcache.db"

// DefaultTTL is how long a cached exchanger list stays valid.
const DefaultTTL = 24 * time.Hour

// MXCache stores resolved MX host lists in SQLite.
// It is safe for concurrent use.
type MXCache struct {
	db     *sql.DB
	dbPath string
	ttl    time.Duration
	now    func() time.Time
}

// Options configures MXCache behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool

	// TTL is the entry lifetime. Zero means DefaultTTL.
	TTL time.Duration
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
		TTL:               DefaultTTL,
	}
}

// Open opens or creates the MX cache in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*MXCache, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &MXCache{
		db:     db,
		dbPath: dbPath,
		ttl:    ttl,
		now:    time.Now,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := c.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return c, nil
}

// Close closes the database connection.
func (c *MXCache) Close() error {
	return c.db.Close()
}

// Path returns the database file path.
func (c *MXCache) Path() string {
	return c.dbPath
}

func (c *MXCache) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS mx_records (
		domain TEXT PRIMARY KEY,
		hosts TEXT NOT NULL,
		resolved_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_mx_resolved_at ON mx_records(resolved_at);
	`

	_, err := c.db.ExecContext(context.Background(), schema)
	return err
}

func normalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSuffix(domain, "."))
}

// GetMX returns the cached hosts for domain in preference order.
// ok is false when there is no entry or the entry is older than the TTL.
func (c *MXCache) GetMX(ctx context.Context, domain string) ([]string, bool, error) {
	var (
		hostsJSON  string
		resolvedAt int64
	)

	err := c.db.QueryRowContext(ctx,
		`SELECT hosts, resolved_at FROM mx_records WHERE domain = ?`,
		normalizeDomain(domain),
	).Scan(&hostsJSON, &resolvedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query MX cache: %w", err)
	}

	if c.now().Sub(time.Unix(resolvedAt, 0)) > c.ttl {
		return nil, false, nil
	}

	var hosts []string
	if err := json.Unmarshal([]byte(hostsJSON), &hosts); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached hosts: %w", err)
	}
	return hosts, len(hosts) > 0, nil
}

// PutMX stores hosts for domain, replacing any previous entry.
func (c *MXCache) PutMX(ctx context.Context, domain string, hosts []string) error {
	if len(hosts) == 0 {
		return nil
	}

	hostsJSON, err := json.Marshal(hosts)
	if err != nil {
		return fmt.Errorf("failed to encode hosts: %w", err)
	}

	query := `
	INSERT INTO mx_records (domain, hosts, resolved_at)
	VALUES (?, ?, ?)
	ON CONFLICT(domain) DO UPDATE SET
		hosts = excluded.hosts,
		resolved_at = excluded.resolved_at
	`

	if _, err := c.db.ExecContext(ctx, query, normalizeDomain(domain), string(hostsJSON), c.now().Unix()); err != nil {
		return fmt.Errorf("failed to store MX hosts: %w", err)
	}
	return nil
}

// Purge deletes expired entries and returns how many were removed.
func (c *MXCache) Purge(ctx context.Context) (int64, error) {
	cutoff := c.now().Add(-c.ttl).Unix()

	res, err := c.db.ExecContext(ctx, `DELETE FROM mx_records WHERE resolved_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge MX cache: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored entries, expired or not.
func (c *MXCache) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mx_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count MX cache entries: %w", err)
	}
	return n, nil
}
