package main

import (
	"fmt"

	"github.com/nao1215/mailscout/internal/model"
	"github.com/nao1215/mailscout/internal/scout"
	"github.com/spf13/cobra"
)

// NewCatchAllCmd creates the catchall command.
func NewCatchAllCmd() *cobra.Command {
	return newCatchAllCmd()
}

func newCatchAllCmd(opts ...scout.Option) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catchall <domain>",
		Short: "Test whether a domain accepts mail for any address",
		Long: `Catchall probes a random, nonexistent address at the domain. A domain
that accepts it is catch-all: every probe would succeed there, so its
addresses cannot be verified.

An unreachable domain is reported as not catch-all.

Examples:
  mailscout catchall example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatchAllCmd(cmd, args[0], opts)
		},
	}

	addProbeFlags(cmd)

	return cmd
}

// runCatchAllCmd executes the catchall command.
func runCatchAllCmd(cmd *cobra.Command, domain string, opts []scout.Option) error {
	if err := model.ValidateDomain(domain); err != nil {
		return err
	}

	sess, err := newSession(cmd, opts...)
	if err != nil {
		return err
	}
	defer sess.close()

	catchAll, out := sess.scout.DetectCatchAll(cmd.Context(), domain)
	if catchAll {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: catch-all\n", domain)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: not catch-all\n", domain)
	}
	if sess.cfg.Verbose {
		printOutcome(cmd, out)
	}
	return nil
}
