// Package app wires configuration, the prediction pipeline and the journal into the
// service the command line drives.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rajashekharkeesari/Telcom-churn-prediction/internal/config"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/internal/journal"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/model"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/pipeline"
)

// Bootstrap loads the reference schema and the classifier in parallel and binds
// them. Any failure here is fatal to startup.
func Bootstrap(ctx context.Context, cfg config.Config, logger *zap.Logger) (*pipeline.Pipeline, error) {
	var (
		schema *pipeline.Schema
		stats  pipeline.LoadStats
		clf    *model.LogisticRegression
	)
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		schema, stats, err = pipeline.LoadSchema(cfg.ReferencePath)
		return err
	})
	g.Go(func() error {
		var err error
		clf, err = model.LoadLogisticRegression(cfg.ModelPath)
		if err != nil {
			return fmt.Errorf("classifier: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	p, err := pipeline.New(schema, clf,
		pipeline.WithTenurePolicy(cfg.RangePolicy),
		pipeline.WithUnknownPolicy(cfg.UnknownPolicy))
	if err != nil {
		return nil, err
	}
	logger.Info("pipeline ready",
		zap.String("reference", cfg.ReferencePath),
		zap.String("model", cfg.ModelPath),
		zap.Int("reference_rows", stats.Rows),
		zap.Int("malformed_rows", stats.Malformed),
		zap.Int("columns", schema.Len()),
		zap.String("schema", schema.Fingerprint()),
		zap.Stringer("tenure_policy", cfg.RangePolicy),
		zap.Stringer("unknown_category", cfg.UnknownPolicy))
	return p, nil
}

// Service is the request boundary: it runs records through the current pipeline,
// logs and journals the outcome, and separates caller mistakes from internal faults.
type Service struct {
	holder  *pipeline.Holder
	journal *journal.Store // nil when journaling is off
	logger  *zap.Logger
}

func NewService(holder *pipeline.Holder, store *journal.Store, logger *zap.Logger) *Service {
	return &Service{holder: holder, journal: store, logger: logger}
}

// Holder exposes the published pipeline, e.g. for a reload watcher.
func (s *Service) Holder() *pipeline.Holder { return s.holder }

// Outcome is a completed prediction with the ID it was journaled under.
type Outcome struct {
	ID string `json:"id,omitempty"`
	pipeline.Prediction
}

// Predict coerces fields and predicts with the pipeline published at call time.
func (s *Service) Predict(ctx context.Context, fields map[string]string) (Outcome, error) {
	p := s.holder.Load()
	pred, err := p.PredictFields(fields)
	if err != nil {
		s.reject(ctx, err)
		return Outcome{}, err
	}

	out := Outcome{Prediction: pred}
	if s.journal != nil {
		id, jerr := s.journal.RecordPrediction(ctx, journal.Entry{
			Label:       pred.Label,
			Probability: pred.Probability,
			Confidence:  pred.Confidence,
			Verdict:     pred.Verdict,
			TenureGroup: pred.TenureGroup,
			Schema:      p.Schema().Fingerprint(),
		})
		if jerr != nil {
			s.logger.Warn("journal write failed", zap.Error(jerr))
		}
		out.ID = id
	}
	s.logger.Debug("prediction",
		zap.String("id", out.ID),
		zap.Int("label", pred.Label),
		zap.Float64("probability", pred.Probability),
		zap.String("tenure_group", pred.TenureGroup))
	return out, nil
}

func (s *Service) reject(ctx context.Context, err error) {
	var stage, field string
	var se *pipeline.StageError
	if errors.As(err, &se) {
		stage, field = string(se.Stage), se.Field
	}

	if pipeline.IsUserError(err) {
		s.logger.Info("record rejected", zap.String("stage", stage), zap.String("field", field), zap.Error(err))
	} else {
		s.logger.Error("pipeline fault", zap.String("stage", stage), zap.Error(err))
	}
	if s.journal == nil {
		return
	}
	if _, jerr := s.journal.RecordRejection(ctx, journal.Rejection{Stage: stage, Field: field, Reason: err.Error()}); jerr != nil {
		s.logger.Warn("journal write failed", zap.Error(jerr))
	}
}

// UserMessage converts a per-request error into text safe to show the caller.
// Internal faults are not described beyond a generic message.
func UserMessage(err error) string {
	if pipeline.IsUserError(err) {
		return "Error: " + err.Error() + ". Please check your inputs and try again"
	}
	return "Error: the prediction could not be computed. Please try again later"
}
