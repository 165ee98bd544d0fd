package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/mailscout/internal/model"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".mailscout"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// ErrInvalidJobsFile is returned when a jobs file has an unsupported shape.
var ErrInvalidJobsFile = errors.New("invalid jobs file: expected a list of jobs or a mapping with a jobs key")

// Defaults holds config-file overrides. Nil fields leave the built-in
// default untouched.
type Defaults struct {
	CheckVariants  *bool          `yaml:"checkVariants,omitempty"`
	CheckPrefixes  *bool          `yaml:"checkPrefixes,omitempty"`
	CheckCatchAll  *bool          `yaml:"checkCatchAll,omitempty"`
	Normalize      *bool          `yaml:"normalize,omitempty"`
	Workers        *int           `yaml:"workers,omitempty"`
	BulkWorkers    *int           `yaml:"bulkWorkers,omitempty"`
	Timeout        *time.Duration `yaml:"timeout,omitempty"`
	Port           *int           `yaml:"port,omitempty"`
	HeloName       *string        `yaml:"heloName,omitempty"`
	MailFrom       *string        `yaml:"mailFrom,omitempty"`
	CatchAllSuffix *string        `yaml:"catchAllSuffix,omitempty"`
	MaxNameTokens  *int           `yaml:"maxNameTokens,omitempty"`
	Proxy          *string        `yaml:"proxy,omitempty"`
	ProbeRate      *float64       `yaml:"probeRate,omitempty"`
	ProbeBurst     *int           `yaml:"probeBurst,omitempty"`
	MXCache        *bool          `yaml:"mxCache,omitempty"`
	MXCacheTTL     *time.Duration `yaml:"mxCacheTTL,omitempty"`
	CacheDir       *string        `yaml:"cacheDir,omitempty"`
}

// File represents the structure of the .mailscout configuration file.
//
//	defaults:
//	  workers: 10
//	  timeout: 5s
//	prefixes: [info, sales]
//	jobs:
//	  - domain: example.com
//	    names: [["John", "Smith"]]
type File struct {
	// Defaults overrides built-in configuration values.
	Defaults Defaults `yaml:"defaults,omitempty"`

	// Prefixes replaces the built-in prefix catalogue when set.
	Prefixes []string `yaml:"prefixes,omitempty"`

	// Jobs is the bulk job list used when `bulk` gets no jobs file.
	Jobs []model.BulkJob `yaml:"jobs,omitempty"`
}

// Apply copies every value set in the file onto cfg.
func (cf *File) Apply(cfg *Config) {
	d := cf.Defaults
	setIf(&cfg.CheckVariants, d.CheckVariants)
	setIf(&cfg.CheckPrefixes, d.CheckPrefixes)
	setIf(&cfg.CheckCatchAll, d.CheckCatchAll)
	setIf(&cfg.Normalize, d.Normalize)
	setIf(&cfg.Workers, d.Workers)
	setIf(&cfg.BulkWorkers, d.BulkWorkers)
	setIf(&cfg.Timeout, d.Timeout)
	setIf(&cfg.Port, d.Port)
	setIf(&cfg.HeloName, d.HeloName)
	setIf(&cfg.MailFrom, d.MailFrom)
	setIf(&cfg.CatchAllSuffix, d.CatchAllSuffix)
	setIf(&cfg.MaxNameTokens, d.MaxNameTokens)
	setIf(&cfg.Proxy, d.Proxy)
	setIf(&cfg.ProbeRate, d.ProbeRate)
	setIf(&cfg.ProbeBurst, d.ProbeBurst)
	setIf(&cfg.MXCache, d.MXCache)
	setIf(&cfg.MXCacheTTL, d.MXCacheTTL)
	setIf(&cfg.CacheDir, d.CacheDir)

	if cf.Prefixes != nil {
		cfg.CustomPrefixes = cf.Prefixes
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error appropriately based on whether
// the config file path was explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cf, nil
}

// LoadJobsFile reads bulk jobs from a YAML or JSON file. The file holds
// either a top-level list of jobs or a mapping with a jobs key, so a
// .mailscout file can double as a jobs file.
func LoadJobsFile(path string) ([]model.BulkJob, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided jobs path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to read jobs file: %w", err)
	}
	return ParseJobs(data)
}

// ParseJobs decodes bulk jobs; see LoadJobsFile for the accepted shapes.
// JSON input is accepted because it is valid YAML.
func ParseJobs(data []byte) ([]model.BulkJob, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse jobs: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}

	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		var jobs []model.BulkJob
		if err := doc.Decode(&jobs); err != nil {
			return nil, fmt.Errorf("failed to decode jobs: %w", err)
		}
		return jobs, nil
	case yaml.MappingNode:
		var cf File
		if err := doc.Decode(&cf); err != nil {
			return nil, fmt.Errorf("failed to decode jobs: %w", err)
		}
		return cf.Jobs, nil
	default:
		return nil, ErrInvalidJobsFile
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .mailscout in the current directory
// 3. Look for .mailscout in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
