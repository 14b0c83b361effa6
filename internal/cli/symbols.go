package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/quantaplan/internal/log"
	"github.com/dshills/quantaplan/internal/sql/planner"
	"github.com/dshills/quantaplan/internal/sql/planner/plancodec"
)

// PlanSymbols is the symbol listing for one plan document.
type PlanSymbols struct {
	Plan        string   `json:"plan"`
	Symbols     []string `json:"symbols"`
	Fingerprint string   `json:"fingerprint"`
}

func (p PlanSymbols) String() string {
	if len(p.Symbols) == 0 {
		return p.Plan + ":"
	}
	return p.Plan + ": " + strings.Join(p.Symbols, ", ")
}

// NewSymbolsCommand creates the symbols command.
func NewSymbolsCommand(rootOpts *RootOptions) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "symbols <plan-file>...",
		Short: "List every symbol introduced in each plan",
		Long: `List every distinct symbol introduced anywhere in each plan document.

Plans are processed concurrently; results are printed in argument order.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSymbols(rootOpts, workers, args, cmd)
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "maximum plans processed at once (default from config)")

	return cmd
}

func runSymbols(opts *RootOptions, workers int, paths []string, cmd *cobra.Command) error {
	cfg, logger, err := opts.resolve(cmd, workers)
	if err != nil {
		return err
	}
	formatter := opts.formatter(cmd, cfg)
	formatter.VerboseLog("Extracting symbols from %d plan(s) with %d worker(s)", len(paths), cfg.Extraction.Workers)

	results := make([]PlanSymbols, len(paths))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.Extraction.Workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := extractPlanSymbols(logger, path)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	lines := make([]string, len(results))
	for i, result := range results {
		lines[i] = result.String()
	}
	return formatter.Success(results, lines...)
}

func extractPlanSymbols(logger log.Logger, path string) (PlanSymbols, error) {
	start := time.Now()

	root, err := plancodec.DecodeFile(path)
	if err != nil {
		return PlanSymbols{}, WrapExitError(ExitCommandError, fmt.Sprintf("could not decode %s", path), err)
	}

	symbols, err := planner.ExtractSymbols(root)
	if err != nil {
		logger.Error("symbol extraction failed", log.String("plan", path), log.Err(err))
		return PlanSymbols{}, WrapExitError(ExitFailure, fmt.Sprintf("could not extract symbols from %s", path), err)
	}

	fingerprint := fmt.Sprintf("%016x", symbols.Fingerprint())
	log.Latency(logger, start, "extract symbols",
		log.String("plan", path),
		log.Int("symbols", symbols.Len()),
		log.String("fingerprint", fingerprint))

	return PlanSymbols{
		Plan:        path,
		Symbols:     symbols.Names(),
		Fingerprint: fingerprint,
	}, nil
}
