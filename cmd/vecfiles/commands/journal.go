package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/vecfiles/pkg/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Recorded sync runs",
	Long: `Inspect the local record of sync runs. Runs are kept under
~/.vecfiles/vecfiles/data/journal unless the context sets journal_dir.

The journal is a history only; lookups always ask the service.`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent runs, newest first",
	Long: `List recorded runs. With --date only that UTC day is listed, oldest first.

Examples:
  vecfiles journal list
  vecfiles journal list --limit 5
  vecfiles journal list --date 2025-03-01`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date := mustString(cmd, "date")
		limit, _ := cmd.Flags().GetInt("limit")

		ctx, err := getContext()
		if err != nil {
			return err
		}
		j, store, err := openJournal(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		var runs []journal.Run
		if date != "" {
			day, err := journal.ParseDate(date)
			if err != nil {
				return err
			}
			runs, err = j.OnDate(cmd.Context(), day)
			if err != nil {
				return err
			}
		} else {
			runs, err = j.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
		}
		return outputResult(journal.Runs(runs))
	},
}

var journalGetCmd = &cobra.Command{
	Use:   "get <run_id>",
	Short: "Show one run with its per-file outcomes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := getContext()
		if err != nil {
			return err
		}
		j, store, err := openJournal(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		run, err := j.Get(cmd.Context(), args[0])
		if errors.Is(err, journal.ErrNotFound) {
			return fmt.Errorf("no run with ID %q", args[0])
		}
		if err != nil {
			return err
		}
		return outputResult(run)
	},
}

func init() {
	journalListCmd.Flags().String("date", "", "only runs started on this UTC day (YYYYMMDD or YYYY-MM-DD)")
	journalListCmd.Flags().Int("limit", 20, "maximum runs to list (0 for all)")

	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalGetCmd)
}
