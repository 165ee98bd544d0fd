package main

import (
	"fmt"

	"github.com/nao1215/mailscout/internal/model"
	"github.com/nao1215/mailscout/internal/scout"
	"github.com/spf13/cobra"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	return newGenerateCmd()
}

func newGenerateCmd(opts ...scout.Option) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <domain> [name ...]",
		Short: "List the candidate addresses without probing",
		Long: `Generate prints the candidate addresses find would probe, one per line.
No network connection is made.

Examples:
  mailscout generate example.com John Smith
  mailscout generate example.com --person "François Dupont" --no-normalize
  mailscout generate example.com --prefix sales --prefix hr`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerateCmd(cmd, args, opts)
		},
	}

	cmd.Flags().StringArray("person", nil, "Full name of one person (repeatable)")
	addGenerateFlags(cmd)

	return cmd
}

// runGenerateCmd executes the generate command.
func runGenerateCmd(cmd *cobra.Command, args []string, opts []scout.Option) error {
	domain := args[0]
	if err := model.ValidateDomain(domain); err != nil {
		return err
	}

	names, err := namesFromArgs(cmd, args[1:])
	if err != nil {
		return err
	}

	sess, err := newSession(cmd, opts...)
	if err != nil {
		return err
	}
	defer sess.close()

	candidates, skipped := sess.scout.Candidates(domain, names)
	for _, sk := range skipped {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", sk.Error())
	}
	for _, c := range candidates {
		fmt.Fprintln(cmd.OutOrStdout(), c)
	}
	return nil
}
