package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-coop/internal/desync"
	"github.com/spf13/cobra"
)

type DesyncOptions struct {
	*RootOptions
	Database string
	Limit    int
}

func NewDesyncCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "desync",
		Short: "Inspect the desync ledger",
	}
	cmd.AddCommand(newDesyncListCommand(rootOpts))
	return cmd
}

func newDesyncListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DesyncOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the most recent desync records",
		Long: `List the most recent desync records, newest first.

Examples:
  coopctl desync list --db ./desync.db
  coopctl desync list --db ./desync.db --limit 200 --format json`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Database == "" {
				return fmt.Errorf("--db is required")
			}
			if opts.Limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}

			records, err := desync.ReadLedger(cmd.Context(), opts.Database, opts.Limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.Format == "json" {
				if records == nil {
					records = []desync.Record{}
				}
				return writeJSON(out, records)
			}
			for _, r := range records {
				if _, err := fmt.Fprintf(out, "%s %-16s %s %s\n", r.At.Format(time.RFC3339), r.Kind, r.Session, r.Detail); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the desync ledger")
	cmd.Flags().IntVar(&opts.Limit, "limit", 50, "maximum number of records")

	return cmd
}
