// Command hotspot-report ranks the processes of a telemetry document by CPU
// contention or memory pressure, and serves the same rankings as tools over
// HTTP, WebSocket and stdio.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"

	"github.com/srodi/hotspot-report/pkg/config"
	"github.com/srodi/hotspot-report/pkg/report"
	"github.com/srodi/hotspot-report/pkg/telemetry"
	"github.com/srodi/hotspot-report/pkg/tools"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// errReportFailed marks a run whose result was an error record. The record
// itself has already been printed.
var errReportFailed = errors.New("report failed")

type globalOptions struct {
	configPath string
	baseDir    string
	verbosity  int
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReportFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:           "hotspot-report",
		Short:         "Rank processes in a telemetry document by CPU contention or memory pressure",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&opts.baseDir, "base-dir", "", "Directory relative document paths resolve against (default: working directory)")
	root.PersistentFlags().IntVarP(&opts.verbosity, "verbosity", "v", 0, "Log verbosity; 1 logs each call, 2 logs skipped records")
	_ = root.MarkPersistentFlagFilename("config", "yaml", "yml")

	root.AddCommand(
		newRankCmd(opts, rankCPU),
		newRankCmd(opts, rankMemory),
		newServeCmd(opts),
		newStdioCmd(opts),
	)
	return root
}

// app is everything a subcommand needs, built from config and flags.
type app struct {
	cfg      config.Config
	log      logr.Logger
	analyzer *report.Analyzer
	registry *tools.Registry
}

// setup loads configuration, applies flag overrides and wires the analyzer.
// Logs always go to stderr so stdout stays free for results and JSON-RPC.
func setup(cmd *cobra.Command, opts *globalOptions, confine bool) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("base-dir") {
		cfg.BaseDir = opts.baseDir
	}
	if flags.Changed("verbosity") {
		cfg.Verbosity = opts.verbosity
	}
	cfg.ConfineToBase = cfg.ConfineToBase || confine
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stdr.SetVerbosity(cfg.Verbosity)
	logger := stdr.New(log.New(cmd.ErrOrStderr(), "", log.LstdFlags)).WithName("hotspot-report")

	loader, err := telemetry.NewLoader(cfg.BaseDir, cfg.ConfineToBase)
	if err != nil {
		return nil, err
	}
	analyzer := report.NewAnalyzer(loader, logger)
	registry := tools.NewRegistry(analyzer, tools.Defaults{FilePath: cfg.DefaultFile, TopN: cfg.DefaultTopN})
	logger.V(1).Info("configured", "baseDir", loader.BaseDir, "confine", loader.Confine,
		"defaultFile", cfg.DefaultFile, "defaultTopN", cfg.DefaultTopN)

	return &app{cfg: cfg, log: logger, analyzer: analyzer, registry: registry}, nil
}
