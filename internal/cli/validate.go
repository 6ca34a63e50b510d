package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/barista/internal/config"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// validateReport is the JSON payload for a successful validation.
type validateReport struct {
	Targets int `json:"slo_targets"`
	Tiers   int `json:"catalog_tiers"`
	Levels  int `json:"levels"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <config-dir>",
		Short: "Validate a game configuration directory",
		Long: `Load CUE config files and check them against the game schema.

Reports schema violations (a target outside (0,1], a negative budget,
non-positive durations) and semantic problems (levels referencing
unknown complexity tiers, non-increasing level numbers).

Example:
  barista validate ./config`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

	rules, err := config.Load(dir)
	if err != nil {
		var loadErr *config.LoadError
		if errors.As(err, &loadErr) {
			_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
			return NewExitError(ExitFailure, "config validation failed")
		}
		return WrapExitError(ExitCommandError, "loading config", err)
	}

	report := validateReport{
		Targets: len(rules.Targets),
		Tiers:   len(rules.Catalog),
		Levels:  len(rules.Levels),
	}
	return formatter.Success(report, func(w io.Writer) {
		fmt.Fprintf(w, "Config OK: %d SLO targets, %d catalog tiers, %d levels\n",
			report.Targets, report.Tiers, report.Levels)
	})
}
