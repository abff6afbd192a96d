package command

import (
	"fmt"

	"github.com/pixil98/go-coop/internal/clock"
	"github.com/spf13/cobra"
)

type InterpOptions struct {
	*RootOptions
	From float32
	To   float32
	Frac float64
}

func NewInterpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InterpOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "interp",
		Short: "Interpolate between two hours of the day",
		Long: `Interpolate between two hours of the day, the way the clock fades between
local and server time. The blend always moves forward, wrapping through
midnight when the target hour is earlier than the starting one.

Examples:
  coopctl interp --from 23 --to 1 --frac 0.5
  coopctl interp --from 12 --to 18 --frac 0.25`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.From < 0 || opts.From >= 24 || opts.To < 0 || opts.To >= 24 {
				return fmt.Errorf("hours must be in [0, 24)")
			}
			got := clock.Interpolate(opts.From, opts.To, opts.Frac)

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				return writeJSON(out, map[string]float32{"hour": got})
			}
			_, err := fmt.Fprintf(out, "%.4f\n", got)
			return err
		},
	}

	cmd.Flags().Float32Var(&opts.From, "from", 0, "starting hour")
	cmd.Flags().Float32Var(&opts.To, "to", 0, "target hour")
	cmd.Flags().Float64Var(&opts.Frac, "frac", 0, "fraction of the way from --from to --to")

	return cmd
}
