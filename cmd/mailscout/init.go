package main

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/nao1215/mailscout/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/mailscout.yaml
var configTemplate []byte

// configFileName is where init writes when --output is not given.
const configFileName = config.DefaultConfigFile

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter .mailscout file",
		Long: `Write a starter .mailscout file describing every probe setting.

All settings in the file are commented out, so mailscout behaves the same
until you uncomment a line. Values set in the file are overridden by
command-line flags. The file can also list the jobs: run by
"mailscout bulk" when no jobs file is passed.

The file is created with owner-only permissions because it may hold
proxy credentials.

Examples:
  mailscout init
  mailscout init -o ~/work/acme.mailscout
  mailscout init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", configFileName, "path of the file to write")
	cmd.Flags().BoolP("force", "f", false, "replace an existing file")

	return cmd
}

func runInitCmd(cmd *cobra.Command, _ []string) error {
	path, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if force {
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}
	f, err := os.OpenFile(path, flag, 0o600) //nolint:gosec // path is chosen by the user
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", path)
	}
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	_, err = f.Write(configTemplate)
	if err = errors.Join(err, f.Close()); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s; uncomment the settings you want to change.\n", path)
	return nil
}
