package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rajashekharkeesari/Telcom-churn-prediction/internal/app"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/internal/config"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/internal/journal"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/internal/logging"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/pipeline"
)

// cli holds state shared by every subcommand.
type cli struct {
	configPath string
	verbose    bool

	cfg    config.Config
	logger *zap.Logger // built from config unless set beforehand
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "churn",
		Short: "Predict whether a Telco customer is likely to churn",
		Long: `churn turns a raw customer record into the feature layout a pre-trained
classifier was fitted on and reports the predicted outcome with its confidence.

The feature layout is derived from a reference dataset (reference_path) and must
match the columns stored in the classifier artifact (model_path).`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $CHURN_CONFIG or "+config.DefaultPath+")")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		c.predictCmd(),
		c.streamCmd(),
		c.schemaCmd(),
		c.evaluateCmd(),
		c.historyCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return &usageError{err}
	}
	c.cfg = cfg
	if c.logger != nil {
		return nil
	}
	c.logger, err = logging.New(cfg.Log.Level, cfg.Log.Format, c.verbose)
	return err
}

// service bootstraps the pipeline and, when configured, opens the journal. The
// returned func releases the journal.
func (c *cli) service(ctx context.Context) (*app.Service, func(), error) {
	p, err := app.Bootstrap(ctx, c.cfg, c.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("startup: %w", err)
	}
	store, closeStore, err := c.openJournal()
	if err != nil {
		return nil, nil, err
	}
	return app.NewService(pipeline.NewHolder(p), store, c.logger), closeStore, nil
}

func (c *cli) openJournal() (*journal.Store, func(), error) {
	if c.cfg.JournalPath == "" {
		return nil, func() {}, nil
	}
	store, err := journal.Open(c.cfg.JournalPath)
	if err != nil {
		return nil, nil, fmt.Errorf("journal: %w", err)
	}
	return store, func() {
		if err := store.Close(); err != nil {
			c.logger.Warn("journal close failed", zap.Error(err))
		}
	}, nil
}
