package command

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pixil98/go-coop/internal/journal"
	"github.com/spf13/cobra"
)

type JournalOptions struct {
	*RootOptions
	Type string
}

func NewJournalCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Read traffic journals",
	}
	cmd.AddCommand(newJournalDumpCommand(rootOpts))
	return cmd
}

func newJournalDumpCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &JournalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print every entry of a journal file",
		Long: `Print every entry of a zstd-compressed journal file.

Examples:
  coopctl journal dump journal/traffic-2026-10-15-09.jsonl.zst
  coopctl journal dump journal/traffic-2026-10-15-09.jsonl.zst --type notify_lock_change
  coopctl journal dump journal/traffic-2026-10-15-09.jsonl.zst --format json`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJournalDump(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", "", "only print entries of this message type")

	return cmd
}

func runJournalDump(cmd *cobra.Command, opts *JournalOptions, path string) error {
	out := cmd.OutOrStdout()
	var entries []journal.Entry

	err := journal.Read(path, func(e journal.Entry) error {
		if opts.Type != "" && e.Type != opts.Type {
			return nil
		}
		if opts.Format == "json" {
			entries = append(entries, e)
			return nil
		}
		_, err := fmt.Fprintf(out, "%s %-3s %-28s %s %s\n",
			e.At.Format(time.RFC3339Nano), e.Dir, e.Type, e.Session, compact(e.Payload))
		return err
	})
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		if entries == nil {
			entries = []journal.Entry{}
		}
		return writeJSON(out, entries)
	}
	return nil
}

func compact(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}
