package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/srodi/hotspot-report/pkg/report"
	"github.com/srodi/hotspot-report/pkg/types"
	"github.com/srodi/hotspot-report/pkg/ui"
)

// rankKind describes one ranking subcommand.
type rankKind struct {
	use   string
	short string
	title string
	run   func(a *report.Analyzer, path string, topN int) report.Outcome
	table func(w io.Writer, out report.Outcome) error
}

var rankCPU = rankKind{
	use:   "cpu [file]",
	short: "Rank processes whose ready time is at least 25% of their CPU time",
	title: "CPU contention",
	run: func(a *report.Analyzer, path string, topN int) report.Outcome {
		return a.RankCPUContention(path, topN)
	},
	table: func(w io.Writer, out report.Outcome) error {
		return ui.CPUTable(w, out.(report.Result[types.CPUAggregate]))
	},
}

var rankMemory = rankKind{
	use:   "memory [file]",
	short: "Rank processes by peak working set",
	title: "Memory pressure",
	run: func(a *report.Analyzer, path string, topN int) report.Outcome {
		return a.RankMemoryPressure(path, topN)
	},
	table: func(w io.Writer, out report.Outcome) error {
		return ui.MemoryTable(w, out.(report.Result[types.MemoryAggregate]))
	},
}

// isTerminal reports whether w is an interactive terminal. Tests replace it.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func newRankCmd(opts *globalOptions, kind rankKind) *cobra.Command {
	var (
		topN    int
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   kind.use,
		Short: kind.short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, opts, false)
			if err != nil {
				return err
			}
			path := rt.cfg.DefaultFile
			if len(args) == 1 {
				path = args[0]
			}
			if !cmd.Flags().Changed("top") {
				topN = rt.cfg.DefaultTopN
			}

			out := kind.run(rt.analyzer, path, topN)
			w := cmd.OutOrStdout()
			if jsonOut || !isTerminal(w) {
				err = writeJSON(w, out)
			} else {
				err = writeTable(w, kind, path, topN, out)
			}
			if err != nil {
				return err
			}
			if out.Status() == report.StatusError {
				return errReportFailed
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&topN, "top", "n", types.DefaultTopK, "Maximum number of processes to list (default from config)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the JSON result even on a terminal")
	return cmd
}

func writeJSON(w io.Writer, out report.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeTable(w io.Writer, kind rankKind, path string, topN int, out report.Outcome) error {
	fmt.Fprint(w, ui.Banner())
	fmt.Fprintf(w, "[Top %d %s] %s", topN, kind.title, path)
	if fp := out.Fingerprint(); fp != "" {
		fmt.Fprintf(w, " (%s)", fp)
	}
	fmt.Fprint(w, "\n\n")
	return kind.table(w, out)
}
