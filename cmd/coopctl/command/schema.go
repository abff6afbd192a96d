package command

import (
	"fmt"

	"github.com/pixil98/go-coop/internal/protocol"
	"github.com/spf13/cobra"
)

func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [type]",
		Short: "List message types or print the JSON schema of one",
		Long: `Without arguments, list every wire message type.
With a type, print the JSON schema of its payload.

Examples:
  coopctl schema
  coopctl schema notify_player_joined`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				if rootOpts.Format == "json" {
					return writeJSON(out, protocol.Types())
				}
				for _, typ := range protocol.Types() {
					if _, err := fmt.Fprintln(out, typ); err != nil {
						return err
					}
				}
				return nil
			}

			schema, err := protocol.Schema(args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, string(schema))
			return err
		},
	}
}
