package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/mailscout/internal/scout"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for mailscout.
func NewRootCmd() *cobra.Command {
	return newRootCmd()
}

// newRootCmd creates the root command; opts reach every Scout a
// subcommand builds.
func newRootCmd(opts ...scout.Option) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mailscout",
		Short: "Find deliverable email addresses by SMTP probing",
		Long: `mailscout discovers deliverable email addresses for a domain.

Candidates are built from people's names (permutations, initials) or from
common role prefixes such as info@ and sales@. Each candidate is checked
against the domain's mail exchanger with an SMTP RCPT TO probe; no mail is
ever sent. Domains that accept any address (catch-all) are detected first
and skipped, since their answers carry no information.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .mailscout in current or home directory)")

	// Add subcommands
	cmd.AddCommand(newFindCmd(opts...))
	cmd.AddCommand(newBulkCmd(opts...))
	cmd.AddCommand(newCheckCmd(opts...))
	cmd.AddCommand(newCatchAllCmd(opts...))
	cmd.AddCommand(newGenerateCmd(opts...))
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel the running
// command; probes in flight end within their timeout.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
