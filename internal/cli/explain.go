package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/quantaplan/internal/sql/planner"
	"github.com/dshills/quantaplan/internal/sql/planner/plancodec"
)

// PlanExplanation is the explain output for one plan document.
type PlanExplanation struct {
	Plan  string   `json:"plan"`
	Lines []string `json:"lines"`
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "explain <plan-file>",
		Short:         "Print a plan as an indented tree",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runExplain(opts *RootOptions, path string, cmd *cobra.Command) error {
	cfg, _, err := opts.resolve(cmd, 0)
	if err != nil {
		return err
	}
	formatter := opts.formatter(cmd, cfg)

	root, err := plancodec.DecodeFile(path)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("could not decode %s", path), err)
	}

	lines := strings.Split(strings.TrimSuffix(planner.ExplainPlan(root), "\n"), "\n")
	return formatter.Success(PlanExplanation{Plan: path, Lines: lines}, lines...)
}

// NewKindsCommand creates the kinds command.
func NewKindsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "kinds",
		Short:         "List the node kinds a plan document may use",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := rootOpts.resolve(cmd, 0)
			if err != nil {
				return err
			}
			kinds := plancodec.Kinds()
			return rootOpts.formatter(cmd, cfg).Success(kinds, kinds...)
		},
	}
}
