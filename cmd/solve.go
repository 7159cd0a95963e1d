package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cottand/tsolve/internal/log"
	"github.com/cottand/tsolve/metrics"
	"github.com/cottand/tsolve/tserr"
	"github.com/cottand/tsolve/tsolve"
	"github.com/spf13/cobra"
)

var SolveCmd = &cobra.Command{
	Use:          "solve problem.yaml",
	Short:        "Solve the type variables of a problem",
	RunE:         runSolve,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var (
	solveConcurrency *int
	solveMetrics     *bool
	solveStrict      *bool
)

func init() {
	solveConcurrency = SolveCmd.Flags().IntP("concurrency", "j", 1, "number of type variables solved at a time, 0 for no limit")
	solveMetrics = SolveCmd.Flags().Bool("metrics", false, "print Prometheus metrics after the results")
	solveStrict = SolveCmd.Flags().Bool("strict", false, "fail if any type variable is unsolvable")
}

type solveOpts struct {
	concurrency int
	metrics     bool
	strict      bool
}

func runSolve(cmd *cobra.Command, args []string) error {
	return solveFile(cmd.Context(), cmd.OutOrStdout(), args[0], solveOpts{
		concurrency: *solveConcurrency,
		metrics:     *solveMetrics,
		strict:      *solveStrict,
	})
}

var cliLogger = log.DefaultLogger.With("section", "cli")

func solveFile(ctx context.Context, out io.Writer, path string, opts solveOpts) error {
	collector := metrics.NewCollector()
	settings := tsolve.Settings{
		Concurrency: opts.concurrency,
		Observer:    collector,
	}
	if opts.concurrency == 0 {
		settings.Concurrency = -1
	}

	report, err := tsolve.SolveFile(ctx, path, settings)
	if err != nil {
		return describeLoadError(path, err)
	}
	prob := report.Problem
	cliLogger.Info("solved problem", "path", path, "run", report.ID, "vars", len(prob.Vars), "constraints", len(prob.Constraints))
	for _, c := range prob.Constraints {
		cliLogger.Debug("constraint", "run", report.ID, "c", prob.FormatConstraint(c))
	}

	p := newPrinter(out)
	for _, r := range report.Results {
		if err := p.result(prob, r); err != nil {
			return fmt.Errorf("could not write result: %w", err)
		}
	}
	if opts.metrics {
		if err := collector.WriteText(out); err != nil {
			return err
		}
	}
	if unsolved := report.Unsolved(); opts.strict && len(unsolved) > 0 {
		return fmt.Errorf("%d of %d type variables are unsolvable", len(unsolved), len(report.Results))
	}
	return nil
}

// describeLoadError renders problem mistakes with the file they are in
func describeLoadError(path string, err error) error {
	errs, ok := err.(*tserr.Errors)
	if !ok {
		return err
	}
	sb := &strings.Builder{}
	for _, e := range errs.Errors() {
		sb.WriteString("\n  ")
		sb.WriteString(tserr.FormatWithPosition(e, path))
	}
	return fmt.Errorf("%d errors found in problem:%s", len(errs.Errors()), sb.String())
}
