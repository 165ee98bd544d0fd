package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nao1215/mailscout/internal/config"
	mslog "github.com/nao1215/mailscout/internal/log"
	"github.com/nao1215/mailscout/internal/report"
	"github.com/spf13/cobra"
)

// addProbeFlags registers the flags of every command that talks SMTP.
func addProbeFlags(cmd *cobra.Command) {
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Limit for each probe stage: MX lookup, connect, SMTP dialogue")
	cmd.Flags().Int("port", config.DefaultPort, "SMTP port of the mail exchanger")
	cmd.Flags().String("helo", config.DefaultHeloName, "EHLO identity")
	cmd.Flags().String("mail-from", config.DefaultMailFrom, "Envelope sender used in MAIL FROM")
	cmd.Flags().String("proxy", "", "SOCKS5 proxy URL, e.g. socks5://127.0.0.1:1080")
	cmd.Flags().Float64("probe-rate", 0, "Probes per second to each mail exchanger (0 = unlimited)")
	cmd.Flags().Int("probe-burst", config.DefaultProbeBurst, "Burst allowed by --probe-rate")
	cmd.Flags().Bool("mx-cache", false, "Cache MX lookups on disk between runs")
	cmd.Flags().Duration("mx-cache-ttl", config.DefaultMXCacheTTL, "Lifetime of a cached MX lookup")
	cmd.Flags().String("cache-dir", "", "Directory of the MX cache (default: XDG cache dir)")
	cmd.Flags().String("catch-all-suffix", config.DefaultCatchAllSuffix,
		"Suffix of the random catch-all local-part")
}

// addGenerateFlags registers the candidate generation flags.
func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-variants", false, "Do not generate candidates from names")
	cmd.Flags().Bool("no-prefixes", false, "Do not probe role prefixes for domains without names")
	cmd.Flags().Bool("no-normalize", false, "Use name tokens as given, without transliteration")
	cmd.Flags().Int("max-tokens", config.DefaultMaxNameTokens, "Skip people whose name has more tokens")
	cmd.Flags().StringArray("prefix", nil, "Custom role prefix (repeatable, replaces the built-in list)")
}

// addVerifyFlags registers the flags of commands that run the pipeline.
func addVerifyFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers, "Concurrent probes per domain")
	cmd.Flags().Bool("no-catch-all", false, "Skip the catch-all pre-check")
}

// addReportFlags registers the output flags.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
}

// buildConfig creates a Config from defaults, the config file and the
// flags the user actually set, in that order of precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, *config.File, error) {
	cfg := config.NewConfig()

	if fl := cmd.Flags().Lookup("config"); fl != nil {
		cfg.ConfigFilePath = fl.Value.String()
	}

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use defaults if no file found.
	var err error
	file := &config.File{}
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	case cfg.ConfigFilePath != "":
		return nil, nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, file, nil
}

// flagSetter copies changed flags of one command onto a Config.
type flagSetter struct {
	cmd  *cobra.Command
	errs []error
}

func (f *flagSetter) changed(name string) bool {
	return f.cmd.Flags().Lookup(name) != nil && f.cmd.Flags().Changed(name)
}

func setFlag[T any](f *flagSetter, name string, get func(string) (T, error), dst *T) {
	if !f.changed(name) {
		return
	}
	v, err := get(name)
	if err != nil {
		f.errs = append(f.errs, err)
		return
	}
	*dst = v
}

// setNegated clears dst when a --no-* flag is set to true.
func (f *flagSetter) setNegated(name string, dst *bool) {
	var off bool
	setFlag(f, name, f.cmd.Flags().GetBool, &off)
	if f.changed(name) {
		*dst = !off
	}
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := &flagSetter{cmd: cmd}
	fs := cmd.Flags()

	setFlag(f, "verbose", fs.GetBool, &cfg.Verbose)
	setFlag(f, "log-json", fs.GetBool, &cfg.LogJSON)

	setFlag(f, "timeout", fs.GetDuration, &cfg.Timeout)
	setFlag(f, "port", fs.GetInt, &cfg.Port)
	setFlag(f, "helo", fs.GetString, &cfg.HeloName)
	setFlag(f, "mail-from", fs.GetString, &cfg.MailFrom)
	setFlag(f, "proxy", fs.GetString, &cfg.Proxy)
	setFlag(f, "probe-rate", fs.GetFloat64, &cfg.ProbeRate)
	setFlag(f, "probe-burst", fs.GetInt, &cfg.ProbeBurst)
	setFlag(f, "mx-cache", fs.GetBool, &cfg.MXCache)
	setFlag(f, "mx-cache-ttl", fs.GetDuration, &cfg.MXCacheTTL)
	setFlag(f, "cache-dir", fs.GetString, &cfg.CacheDir)
	setFlag(f, "catch-all-suffix", fs.GetString, &cfg.CatchAllSuffix)

	f.setNegated("no-variants", &cfg.CheckVariants)
	f.setNegated("no-prefixes", &cfg.CheckPrefixes)
	f.setNegated("no-normalize", &cfg.Normalize)
	setFlag(f, "max-tokens", fs.GetInt, &cfg.MaxNameTokens)
	setFlag(f, "prefix", fs.GetStringArray, &cfg.CustomPrefixes)

	setFlag(f, "workers", fs.GetInt, &cfg.Workers)
	setFlag(f, "bulk-workers", fs.GetInt, &cfg.BulkWorkers)
	f.setNegated("no-catch-all", &cfg.CheckCatchAll)

	setFlag(f, "json", fs.GetBool, &cfg.JSONReport)
	setFlag(f, "markdown", fs.GetBool, &cfg.MarkdownReport)
	setFlag(f, "output", fs.GetString, &cfg.ReportFile)

	return errors.Join(f.errs...)
}

// setupLogger creates the secure structured logger selected by cfg.
func setupLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	if cfg.LogJSON {
		return mslog.NewSecureJSONLogger(w, cfg.Verbose)
	}
	return mslog.NewSecureLogger(w, cfg.Verbose)
}

// reportFormat maps the report flags to a report format name.
func reportFormat(cfg *config.Config) string {
	switch {
	case cfg.JSONReport:
		return report.FormatJSON
	case cfg.MarkdownReport:
		return report.FormatMarkdown
	default:
		return report.FormatText
	}
}
