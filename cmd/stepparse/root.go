// Copyright (c) 2023-present Mattermost, Inc. All Rights Reserved.
// See LICENSE.txt for license information.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/mattermost/mattermost-plugin-airdrops/config"
	loggerlib "github.com/mattermost/mattermost-plugin-airdrops/logger"
	"github.com/mattermost/mattermost-plugin-airdrops/metrics"
	"github.com/mattermost/mattermost-plugin-airdrops/steps"
)

const version = "0.1.0"

type rootOptions struct {
	configPath  string
	format      string
	debug       bool
	logFile     string
	dumpMetrics bool
}

// app holds what every subcommand needs once flags and config are resolved
type app struct {
	cfg     *config.Config
	log     loggerlib.Logger
	metrics metrics.Metrics
	parser  *steps.Parser
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "stepparse",
		Short: "Extract participation steps from airdrop HTML",
		Long: `Extracts an ordered list of participation steps from rich-text HTML.

Steps are taken from the first ordered list, then the first unordered list,
then numbered paragraphs, then any list items, and finally long text lines.`,
		Version:       version,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, opts)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a JSON config file (AIRDROPS_* env vars override it)")
	rootCmd.PersistentFlags().StringVarP(&opts.format, "format", "f", "", "Output format: json or text (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&opts.logFile, "logfile", "l", "", "Path to log file (logs to file in addition to stderr)")
	rootCmd.PersistentFlags().BoolVar(&opts.dumpMetrics, "metrics", false, "Write parser metrics to stderr on exit")

	rootCmd.AddCommand(newParseCmd(a))
	rootCmd.AddCommand(newChecklistCmd(a))
	rootCmd.AddCommand(newMarkCmd(a))

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.format != "" {
		cfg.OutputFormat = opts.format
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = opts.debug
	}
	if opts.logFile != "" {
		cfg.LogFile = opts.logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := loggerlib.New(loggerlib.Options{Debug: cfg.Debug, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.cfg = cfg
	a.log = log
	a.metrics = metrics.NewMetrics(metrics.InstanceInfo{Version: version})
	a.parser = steps.NewParser(
		steps.WithCache(cfg.CacheTTL()),
		steps.WithMaxInputBytes(cfg.MaxInputBytes),
		steps.WithLogger(log),
		steps.WithMetrics(a.metrics),
	)

	log.Debug("Configuration loaded", "format", cfg.OutputFormat, "cacheTTLSeconds", cfg.CacheTTLSeconds, "maxInputBytes", cfg.MaxInputBytes)

	return nil
}

func (a *app) teardown(cmd *cobra.Command, opts *rootOptions) error {
	if a.parser != nil {
		a.parser.Close()
	}

	if opts.dumpMetrics && a.metrics != nil {
		if err := writeMetrics(cmd.ErrOrStderr(), a.metrics); err != nil {
			return err
		}
	}

	if a.log != nil {
		if err := a.log.Flush(); err != nil {
			return fmt.Errorf("failed to flush logger: %w", err)
		}
	}
	return nil
}

func writeMetrics(w io.Writer, m metrics.Metrics) error {
	families, err := m.GetRegistry().Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

// readInput reads the named file, or stdin when no file is given or it is "-"
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}
