package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version information set at build time via ldflags.
var (
	version = ""
	commit  = ""
	date    = ""
)

// buildVersion describes the running binary.
type buildVersion struct {
	Version string
	Commit  string
	Date    string
}

// readBuildVersion merges ldflags values with the module build info.
// Priority: ldflags > debug.ReadBuildInfo > placeholder.
func readBuildVersion() buildVersion {
	v := buildVersion{Version: version, Commit: commit, Date: date}

	info, ok := debug.ReadBuildInfo()
	if ok {
		if v.Version == "" && info.Main.Version != "" {
			v.Version = info.Main.Version
		}
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if v.Commit == "" {
					v.Commit = setting.Value[:min(7, len(setting.Value))]
				}
			case "vcs.time":
				if v.Date == "" {
					v.Date = setting.Value
				}
			}
		}
	}

	if v.Version == "" {
		v.Version = "(devel)"
	}
	if v.Commit == "" {
		v.Commit = "unknown"
	}
	if v.Date == "" {
		v.Date = "unknown"
	}
	return v
}

// getVersion returns the version string shown by --version.
func getVersion() string {
	return readBuildVersion().Version
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the version, commit hash, and build date of mailscout.`,
		Run: func(cmd *cobra.Command, _ []string) {
			v := readBuildVersion()
			fmt.Fprintf(cmd.OutOrStdout(), "mailscout version %s\n", v.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", v.Commit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", v.Date)
		},
	}
}
