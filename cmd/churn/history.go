package main

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/pipeline"
)

func (c *cli) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List the latest journaled predictions and rejection counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.JournalPath == "" {
				return usagef("no journal configured: set journal_path")
			}
			if limit < 1 {
				return usagef("--limit must be positive")
			}
			store, release, err := c.openJournal()
			if err != nil {
				return err
			}
			defer release()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, e := range entries {
				res, err := pipeline.Interpret(e.Label, e.Probability)
				if err != nil {
					return fmt.Errorf("entry %s: %w", e.ID, err)
				}
				fmt.Fprintf(w, "%s  %s  %-18s %7s  %s\n",
					e.CreatedAt.Local().Format(time.DateTime), e.ID, res.Verdict, res.ConfidenceText(), e.TenureGroup)
			}

			counts, err := store.RejectionCounts(cmd.Context())
			if err != nil {
				return err
			}
			for _, stage := range slices.Sorted(maps.Keys(counts)) {
				fmt.Fprintf(w, "rejected at %s: %d\n", stage, counts[stage])
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of predictions to list")
	return cmd
}
