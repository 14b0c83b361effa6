// Package cli implements the planctl command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/quantaplan/internal/config"
	"github.com/dshills/quantaplan/internal/errors"
	"github.com/dshills/quantaplan/internal/log"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	Format     string // "json" | "text", empty keeps the configured format
	Verbose    bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for planctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "planctl",
		Short:         "Inspect logical query plans",
		Long:          "Decode serialized logical plans, list the symbols they introduce and explain their shape.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "path to a JSON configuration file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log at debug level to stderr")

	cmd.AddCommand(NewSymbolsCommand(opts))
	cmd.AddCommand(NewExplainCommand(opts))
	cmd.AddCommand(NewKindsCommand(opts))

	return cmd
}

// Execute runs cmd, reports any error once on the command's stderr and
// returns the process exit code.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "planctl: %v\n", err)
	return GetExitCode(err)
}

// resolve builds the effective configuration: defaults, then the config
// file, then flags. The returned logger writes to the command's stderr.
func (o *RootOptions) resolve(cmd *cobra.Command, workers int) (*config.Config, log.Logger, error) {
	cfg := config.DefaultConfig()
	if o.ConfigFile != "" {
		loaded, err := config.LoadFromFile(o.ConfigFile)
		if err != nil {
			return nil, nil, WrapExitError(ExitCommandError, "could not load configuration", err)
		}
		cfg = loaded
	}

	level := ""
	if o.Verbose {
		level = "debug"
	}
	cfg.LoadFromFlags(o.Format, level, workers)

	if err := cfg.Validate(); err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "could not configure planctl",
			errors.Wrap(errors.InvalidParameterValue, err, "invalid configuration"))
	}

	return cfg, log.NewFromConfig(cfg.ToLogConfig(), cmd.ErrOrStderr()), nil
}

func (o *RootOptions) formatter(cmd *cobra.Command, cfg *config.Config) *OutputFormatter {
	return &OutputFormatter{
		Format:    cfg.Output.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
