package main

import (
	"fmt"
	"strings"

	"github.com/nao1215/mailscout/internal/model"
	"github.com/nao1215/mailscout/internal/scout"
	"github.com/spf13/cobra"
)

// NewFindCmd creates the find command.
func NewFindCmd() *cobra.Command {
	return newFindCmd()
}

func newFindCmd(opts ...scout.Option) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <domain> [name ...]",
		Short: "Find deliverable addresses of one domain",
		Long: `Find probes the candidate addresses of one domain and reports the
deliverable ones.

With names, candidates are built from every ordering of the name tokens
joined with and without a dot, each token alone, and each initial. Without
names, common role prefixes (info@, sales@ ...) are probed instead.

The domain is first checked for catch-all behaviour: if it accepts a random
address, nothing else is probed and the result is empty.

Examples:
  # Name variants of one person
  mailscout find example.com John Smith

  # Several people
  mailscout find example.com --person "John Smith" --person "Jane Doe"

  # Role prefixes only
  mailscout find example.com

  # Custom prefixes, Markdown report written to a file
  mailscout find example.com --prefix sales --prefix hr -m -o report.md`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFindCmd(cmd, args, opts)
		},
	}

	cmd.Flags().StringArray("person", nil, "Full name of one person (repeatable)")
	addVerifyFlags(cmd)
	addGenerateFlags(cmd)
	addProbeFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// namesFromArgs combines --person values with the positional name
// fragments, which together describe one more person.
func namesFromArgs(cmd *cobra.Command, fragments []string) (model.Names, error) {
	persons, err := cmd.Flags().GetStringArray("person")
	if err != nil {
		return nil, err
	}

	var names model.Names
	for _, p := range persons {
		if strings.TrimSpace(p) != "" {
			names = append(names, []string{p})
		}
	}
	if len(fragments) > 0 {
		names = append(names, fragments)
	}
	return names, nil
}

// runFindCmd executes the find command.
func runFindCmd(cmd *cobra.Command, args []string, opts []scout.Option) error {
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

	sess.logger.Info("starting find", "domain", domain, "names", names.String())

	domainReport, findErr := sess.scout.Find(cmd.Context(), domain, names)
	for _, w := range domainReport.Warnings {
		fmt.Fprintf(sess.stderr, "warning: %s\n", w)
	}
	if findErr != nil && cmd.Context().Err() == nil {
		return findErr
	}

	if err := sess.writeReport(cmd, []model.BulkResult{domainReport.Result()}); err != nil {
		return err
	}
	if findErr != nil {
		return fmt.Errorf("find interrupted, results are partial: %w", findErr)
	}
	return nil
}
