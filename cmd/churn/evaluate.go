package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rajashekharkeesari/Telcom-churn-prediction/internal/app"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/internal/evaluate"
)

func (c *cli) evaluateCmd() *cobra.Command {
	var (
		dataPath string
		opts     evaluate.Options
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score a labelled CSV and report classification metrics",
		Long: `Runs every row of a labelled CSV through the pipeline and compares the
predictions with the label column (Yes/No or 1/0). Rows the pipeline rejects are
counted per stage and left out of the metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dataPath == "" {
				return usagef("--data is required")
			}
			if opts.Workers == 0 {
				opts.Workers = c.cfg.EvalWorkers
			}
			p, err := app.Bootstrap(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return fmt.Errorf("startup: %w", err)
			}

			rep, err := evaluate.Run(cmd.Context(), p, dataPath, opts)
			if err != nil {
				return err
			}
			c.logger.Info("evaluation finished",
				zap.String("data", dataPath),
				zap.Int("rows", rep.Rows),
				zap.Int("scored", rep.Scored),
				zap.Int("rejected", rep.RejectedTotal()),
				zap.Int("malformed", rep.Malformed))

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-10s %d\n", "rows", rep.Rows)
			fmt.Fprintf(w, "%-10s %d\n", "scored", rep.Scored)
			fmt.Fprintf(w, "%-10s %d\n", "malformed", rep.Malformed)
			fmt.Fprintf(w, "%-10s %d%s\n", "rejected", rep.RejectedTotal(), byStage(rep))
			fmt.Fprintf(w, "%-10s %.4f\n", "accuracy", rep.Accuracy)
			fmt.Fprintf(w, "%-10s %.4f\n", "precision", rep.Precision)
			fmt.Fprintf(w, "%-10s %.4f\n", "recall", rep.Recall)
			fmt.Fprintf(w, "%-10s %.4f\n", "f1", rep.F1)
			fmt.Fprintf(w, "%-10s %.4f\n", "log_loss", rep.LogLoss)
			m := rep.Confusion
			fmt.Fprintf(w, "%-10s tp=%d fp=%d tn=%d fn=%d\n", "confusion", m.TP, m.FP, m.TN, m.FN)
			return nil
		},
	}
	cmd.Flags().StringVar(&dataPath, "data", "", "labelled CSV to score")
	cmd.Flags().StringVar(&opts.LabelColumn, "label", "Churn", "label column name")
	cmd.Flags().IntVar(&opts.Workers, "workers", 0, "concurrent batches (default eval_workers)")
	cmd.Flags().IntVar(&opts.BatchSize, "batch", 256, "rows per batch")
	return cmd
}

func byStage(rep evaluate.Report) string {
	stages := rep.Stages()
	if len(stages) == 0 {
		return ""
	}
	parts := make([]string, len(stages))
	for i, s := range stages {
		parts[i] = fmt.Sprintf("%s %d", s, rep.Rejected[s])
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
