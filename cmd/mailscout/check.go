package main

import (
	"fmt"

	"github.com/badoux/checkmail"
	"github.com/nao1215/mailscout/internal/protocol"
	"github.com/nao1215/mailscout/internal/scout"
	"github.com/spf13/cobra"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	return newCheckCmd()
}

func newCheckCmd(opts ...scout.Option) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <email>",
		Short: "Probe a single address",
		Long: `Check asks the mail exchanger of the address's domain whether it would
accept mail for the address, and prints the verdict with the reply code.

Only a 250 reply to RCPT TO counts as deliverable. A domain that accepts
everything (see the catchall command) answers 250 for any address.

Examples:
  mailscout check john.smith@example.com
  mailscout check --port 587 john.smith@example.com`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheckCmd(cmd, args[0], opts)
		},
	}

	addProbeFlags(cmd)

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, email string, opts []scout.Option) error {
	if err := checkmail.ValidateFormat(email); err != nil {
		return fmt.Errorf("%w: %q: %w", protocol.ErrInvalidAddress, email, err)
	}

	sess, err := newSession(cmd, opts...)
	if err != nil {
		return err
	}
	defer sess.close()

	out := sess.scout.Probe(cmd.Context(), email)
	printOutcome(cmd, out)
	return nil
}

// printOutcome writes the fields of a probe outcome, one per line.
func printOutcome(cmd *cobra.Command, out protocol.Outcome) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "email:   %s\n", out.Email)
	fmt.Fprintf(w, "verdict: %s\n", out.Verdict)
	if out.Reason != protocol.ReasonNone {
		fmt.Fprintf(w, "reason:  %s\n", out.Reason)
	}
	if out.Code != 0 {
		fmt.Fprintf(w, "code:    %d\n", out.Code)
	}
	if out.MXHost != "" {
		fmt.Fprintf(w, "mx:      %s\n", out.MXHost)
	}
	if out.Err != nil {
		fmt.Fprintf(w, "error:   %v\n", out.Err)
	}
}
