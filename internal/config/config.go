package config

import (
	"net/mail"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "mailscout"

	// DefaultWorkers is the number of concurrent probes per domain.
	DefaultWorkers = 5

	// DefaultBulkWorkers is the number of domains checked concurrently in
	// bulk mode. Each bulk worker runs its own probe pool, so the number
	// of open connections is up to DefaultBulkWorkers * DefaultWorkers.
	DefaultBulkWorkers = 1

	// DefaultTimeout bounds each network stage of a single probe.
	DefaultTimeout = 2 * time.Second

	// DefaultPort is the SMTP port probed.
	DefaultPort = 25

	// DefaultHeloName is the identity announced with EHLO.
	DefaultHeloName = "example.com"

	// DefaultMailFrom is the placeholder envelope sender.
	DefaultMailFrom = "test@example.com"

	// DefaultCatchAllSuffix is appended to the random catch-all local-part.
	DefaultCatchAllSuffix = "falan"

	// DefaultMaxNameTokens caps the tokens per name; variant count grows
	// with the factorial of this value.
	DefaultMaxNameTokens = 5

	// DefaultProbeBurst is the per-host burst when rate limiting is on.
	DefaultProbeBurst = 1

	// DefaultMXCacheTTL is how long a persisted MX lookup stays valid.
	DefaultMXCacheTTL = 24 * time.Hour

	// maxPort is the highest TCP port number.
	maxPort = 65535
)

// Config holds all configuration options for mailscout.
// It is populated from defaults, the config file and CLI flags, and passed
// through the application rather than kept in global state.
type Config struct {
	// CheckVariants enables name-based candidates.
	CheckVariants bool

	// CheckPrefixes enables role-prefix candidates for domains without names.
	CheckPrefixes bool

	// CheckCatchAll enables the catch-all pre-check.
	CheckCatchAll bool

	// Normalize transliterates name tokens to [a-z0-9] before generation.
	Normalize bool

	// Workers is the size of the per-domain probe pool.
	Workers int

	// BulkWorkers is the size of the bulk job pool.
	BulkWorkers int

	// Timeout bounds resolution, connection and the SMTP dialogue of each
	// probe.
	Timeout time.Duration

	// Port is the SMTP port to probe.
	Port int

	// HeloName is the EHLO identity.
	HeloName string

	// MailFrom is the envelope sender used in MAIL FROM.
	MailFrom string

	// CatchAllSuffix is appended to the random catch-all local-part.
	CatchAllSuffix string

	// MaxNameTokens caps the tokens per person.
	MaxNameTokens int

	// CustomPrefixes replaces the built-in prefix catalogue when non-nil.
	CustomPrefixes []string

	// Proxy is an optional proxy URL, e.g. socks5://127.0.0.1:1080.
	Proxy string

	// ProbeRate limits probes per second to each mail exchanger.
	// Zero disables rate limiting.
	ProbeRate float64

	// ProbeBurst is the per-exchanger burst when ProbeRate is set.
	ProbeBurst int

	// MXCache persists MX lookups in SQLite under CacheDir.
	MXCache bool

	// MXCacheTTL is the lifetime of a persisted MX lookup.
	MXCacheTTL time.Duration

	// CacheDir is where the MX cache lives.
	CacheDir string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// LogJSON switches log output to JSON lines.
	LogJSON bool

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, FindConfigFile searches the usual locations.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		CheckVariants:  true,
		CheckPrefixes:  true,
		CheckCatchAll:  true,
		Normalize:      true,
		Workers:        DefaultWorkers,
		BulkWorkers:    DefaultBulkWorkers,
		Timeout:        DefaultTimeout,
		Port:           DefaultPort,
		HeloName:       DefaultHeloName,
		MailFrom:       DefaultMailFrom,
		CatchAllSuffix: DefaultCatchAllSuffix,
		MaxNameTokens:  DefaultMaxNameTokens,
		ProbeBurst:     DefaultProbeBurst,
		MXCacheTTL:     DefaultMXCacheTTL,
		CacheDir:       XDGCacheDir(),
	}
}

// XDGConfigDir returns the XDG config directory for mailscout.
// On Linux: ~/.config/mailscout
// On macOS: ~/Library/Application Support/mailscout
// On Windows: %APPDATA%\mailscout
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for mailscout.
// On Linux: ~/.cache/mailscout
// On macOS: ~/Library/Caches/mailscout
// On Windows: %LOCALAPPDATA%\cache\mailscout
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}
	if c.BulkWorkers <= 0 {
		return ErrInvalidBulkWorkers
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Port <= 0 || c.Port > maxPort {
		return ErrInvalidPort
	}
	if c.HeloName == "" {
		return ErrEmptyHeloName
	}
	if _, err := mail.ParseAddress(c.MailFrom); err != nil {
		return ErrInvalidMailFrom
	}
	if !isLowerAlnum(c.CatchAllSuffix) {
		return ErrInvalidCatchAllSuffix
	}
	if c.MaxNameTokens <= 0 {
		return ErrInvalidMaxNameTokens
	}
	if c.ProbeRate < 0 || (c.ProbeRate > 0 && c.ProbeBurst <= 0) {
		return ErrInvalidProbeRate
	}
	if c.Proxy != "" {
		u, err := url.Parse(c.Proxy)
		if err != nil || u.Host == "" || (u.Scheme != "socks5" && u.Scheme != "socks5h") {
			return ErrInvalidProxy
		}
	}
	if c.MXCache && c.MXCacheTTL <= 0 {
		return ErrInvalidMXCacheTTL
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

func isLowerAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
