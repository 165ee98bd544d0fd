package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/nao1215/mailscout/internal/config"
	"github.com/nao1215/mailscout/internal/model"
	"github.com/nao1215/mailscout/internal/report"
	"github.com/nao1215/mailscout/internal/scout"
	"github.com/spf13/cobra"
)

// syncWriter serializes writes to w.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// session is the state shared by the commands that probe.
type session struct {
	cfg    *config.Config
	file   *config.File
	logger *slog.Logger
	scout  *scout.Scout

	// stderr is shared by the logger and progress output.
	stderr io.Writer
}

// newSession loads the configuration, sets up logging and builds the
// Scout. The caller must call close.
func newSession(cmd *cobra.Command, opts ...scout.Option) (*session, error) {
	cfg, file, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}

	stderr := &syncWriter{w: cmd.ErrOrStderr()}
	logger := setupLogger(stderr, cfg)
	slog.SetDefault(logger)

	s, err := scout.New(cfg, append([]scout.Option{scout.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, err
	}

	logger.Info("configuration loaded",
		"config", cfg.ConfigFilePath,
		"workers", cfg.Workers,
		"bulkWorkers", cfg.BulkWorkers,
		"timeout", cfg.Timeout,
		"port", cfg.Port,
		"proxy", cfg.Proxy,
	)

	return &session{cfg: cfg, file: file, logger: logger, scout: s, stderr: stderr}, nil
}

func (s *session) close() {
	if err := s.scout.Close(); err != nil {
		s.logger.Warn("failed to close MX cache", "error", err)
	}
}

// writeReport renders results in the configured format to the configured
// destination.
func (s *session) writeReport(cmd *cobra.Command, results []model.BulkResult) (err error) {
	out, err := report.OpenOutput(s.cfg.ReportFile, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()

	w, err := report.NewWriter(reportFormat(s.cfg), out)
	if err != nil {
		return err
	}
	if _, err := w.Write(report.New(results)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if s.cfg.ReportFile != "" {
		fmt.Fprintf(s.stderr, "Report written to %s\n", s.cfg.ReportFile)
	}
	return nil
}
