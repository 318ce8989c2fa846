package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/dataprep"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/pipeline"
)

func (c *cli) schemaCmd() *cobra.Command {
	var columnsOnly bool
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the feature layout derived from the reference dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, stats, err := pipeline.LoadSchema(c.cfg.ReferencePath)
			if err != nil {
				return err
			}
			c.logger.Debug("reference loaded",
				zap.Int("rows", stats.Rows),
				zap.Int("malformed_rows", stats.Malformed),
				zap.Int("blank_cells", stats.Blank))

			w := cmd.OutOrStdout()
			for _, col := range schema.Columns() {
				fmt.Fprintln(w, col)
			}
			if columnsOnly {
				return nil
			}
			fmt.Fprintln(w)
			fields := append(dataprep.CategoricalFields(), pipeline.TenureGroupField)
			for _, f := range fields {
				vocab, _ := schema.Vocabulary(f)
				fmt.Fprintf(w, "%-18s %d\n", f, len(vocab))
			}
			fmt.Fprintf(w, "%-18s %d\n", "columns", schema.Len())
			fmt.Fprintf(w, "%-18s %s\n", "fingerprint", schema.Fingerprint())
			return nil
		},
	}
	cmd.Flags().BoolVar(&columnsOnly, "columns-only", false, "print only the column names")
	return cmd
}
