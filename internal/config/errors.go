package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while users still get a readable message.
var (
	// ErrInvalidWorkers is returned when the probe pool size is not positive.
	ErrInvalidWorkers = errors.New("invalid workers: must be positive")

	// ErrInvalidBulkWorkers is returned when the bulk pool size is not positive.
	ErrInvalidBulkWorkers = errors.New("invalid bulk workers: must be positive")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidPort is returned when the port is outside 1-65535.
	ErrInvalidPort = errors.New("invalid port: must be between 1 and 65535")

	// ErrEmptyHeloName is returned when no EHLO identity is configured.
	ErrEmptyHeloName = errors.New("invalid helo name: must not be empty")

	// ErrInvalidMailFrom is returned when the envelope sender is not an address.
	ErrInvalidMailFrom = errors.New("invalid mail from: must be an email address")

	// ErrInvalidCatchAllSuffix is returned when the suffix is empty or not [a-z0-9].
	ErrInvalidCatchAllSuffix = errors.New("invalid catch-all suffix: must be non-empty lowercase letters and digits")

	// ErrInvalidMaxNameTokens is returned when the token cap is not positive.
	ErrInvalidMaxNameTokens = errors.New("invalid max name tokens: must be positive")

	// ErrInvalidProbeRate is returned for a negative rate, or a rate without burst.
	ErrInvalidProbeRate = errors.New("invalid probe rate: rate must be non-negative and burst positive")

	// ErrInvalidProxy is returned when the proxy is not a socks5:// URL.
	ErrInvalidProxy = errors.New("invalid proxy: expected socks5://[user:pass@]host:port")

	// ErrInvalidMXCacheTTL is returned when the MX cache is on without a positive TTL.
	ErrInvalidMXCacheTTL = errors.New("invalid mx cache ttl: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
