package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/nao1215/mailscout/internal/config"
	"github.com/nao1215/mailscout/internal/model"
	"github.com/nao1215/mailscout/internal/scout"
	"github.com/spf13/cobra"
)

// NewBulkCmd creates the bulk command.
func NewBulkCmd() *cobra.Command {
	return newBulkCmd()
}

func newBulkCmd(opts ...scout.Option) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk [jobs-file]",
		Short: "Find deliverable addresses of many domains",
		Long: `Bulk runs find for every job of a YAML or JSON jobs file, or of the
jobs: list in the configuration file when no jobs file is given.

Identical jobs (same domain, same names) run once. Jobs that fail, such as
invalid domains, are skipped with a warning. Progress is printed to stderr
as each job finishes; the report is written once at the end.

Jobs file example:
  - domain: example.com
    names: "John Smith"
  - domain: example.org
    names: [["Jane", "Doe"], ["Richard Roe"]]
  - domain: example.net

Examples:
  # Run a jobs file, two domains at a time
  mailscout bulk jobs.yaml -b 2

  # Run the jobs of the configuration file, JSON report
  mailscout bulk -j -o results.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBulkCmd(cmd, args, opts)
		},
	}

	cmd.Flags().IntP("bulk-workers", "b", config.DefaultBulkWorkers, "Concurrent domains")
	addVerifyFlags(cmd)
	addGenerateFlags(cmd)
	addProbeFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runBulkCmd executes the bulk command.
func runBulkCmd(cmd *cobra.Command, args []string, opts []scout.Option) error {
	sess, err := newSession(cmd, opts...)
	if err != nil {
		return err
	}
	defer sess.close()

	jobs := sess.file.Jobs
	if len(args) == 1 {
		jobs, err = config.LoadJobsFile(args[0])
		if err != nil {
			return err
		}
	}
	if len(jobs) == 0 {
		return errors.New("no jobs provided (pass a jobs file or add jobs: to the configuration file)")
	}

	sess.logger.Info("starting bulk run",
		"jobs", len(jobs),
		"bulkWorkers", sess.cfg.BulkWorkers,
	)

	var (
		mu      sync.Mutex
		done    int
		results = make([]model.BulkResult, 0, len(jobs))
	)
	runErr := sess.scout.FindValidEmailsBulkFunc(cmd.Context(), jobs, func(result model.BulkResult) {
		mu.Lock()
		defer mu.Unlock()
		done++
		results = append(results, result)
		fmt.Fprintf(sess.stderr, "[%d] %s: %d valid address(es)\n",
			done, result.Domain, len(result.ValidEmails))
	})

	if err := sess.writeReport(cmd, results); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("bulk run interrupted after %d job(s): %w", len(results), runErr)
	}
	return nil
}
