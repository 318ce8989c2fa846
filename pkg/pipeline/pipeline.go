package pipeline

import (
	"errors"
	"fmt"

	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/dataprep"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/model"
)

// Pipeline turns raw customer records into predictions. It holds the frozen schema
// and the loaded classifier and never changes after New returns, so it is safe for
// concurrent use.
type Pipeline struct {
	schema     *Schema
	classifier model.Classifier
	binner     dataprep.TenureBinner
	unknown    dataprep.UnknownPolicy
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTenurePolicy sets how tenures outside [1, 73) are handled.
func WithTenurePolicy(p dataprep.RangePolicy) Option {
	return func(pl *Pipeline) { pl.binner = dataprep.NewTenureBinner(p) }
}

// WithUnknownPolicy sets how categorical values outside the vocabulary are handled.
func WithUnknownPolicy(p dataprep.UnknownPolicy) Option {
	return func(pl *Pipeline) { pl.unknown = p }
}

// New binds schema and classifier. If the classifier records its feature names they
// must equal the schema's columns exactly.
func New(schema *Schema, classifier model.Classifier, opts ...Option) (*Pipeline, error) {
	if schema == nil {
		return nil, errors.New("pipeline: nil schema")
	}
	if classifier == nil {
		return nil, errors.New("pipeline: nil classifier")
	}
	if named, ok := classifier.(model.FeatureNamer); ok {
		if err := schema.CheckColumns(named.FeatureNames()); err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
	}
	p := &Pipeline{
		schema:     schema,
		classifier: classifier,
		binner:     dataprep.NewTenureBinner(dataprep.RejectOutOfRange),
		unknown:    dataprep.RejectUnknown,
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Rebind returns a new Pipeline with the policies of p bound to schema and
// classifier. p itself is unchanged.
func (p *Pipeline) Rebind(schema *Schema, classifier model.Classifier) (*Pipeline, error) {
	return New(schema, classifier, WithTenurePolicy(p.binner.Policy), WithUnknownPolicy(p.unknown))
}

// Schema returns the frozen schema.
func (p *Pipeline) Schema() *Schema { return p.schema }

// TenurePolicy returns the out-of-range tenure policy.
func (p *Pipeline) TenurePolicy() dataprep.RangePolicy { return p.binner.Policy }

// UnknownPolicy returns the unseen category policy.
func (p *Pipeline) UnknownPolicy() dataprep.UnknownPolicy { return p.unknown }

// Prediction is a PredictionResult together with the features it was computed from.
type Prediction struct {
	PredictionResult
	TenureGroup string        `json:"tenure_group"`
	Vector      FeatureVector `json:"-"`
}

// Transform bins, encodes and assembles rec into a feature vector.
func (p *Pipeline) Transform(rec dataprep.RawRecord) (FeatureVector, dataprep.TenureGroup, error) {
	group, err := p.binner.Bin(rec.Tenure)
	if err != nil {
		return nil, dataprep.TenureGroup{}, stageError(StageBin, err)
	}
	ind, err := Encode(rec, group, p.schema, p.unknown)
	if err != nil {
		return nil, dataprep.TenureGroup{}, err
	}
	vec, err := Assemble(rec, ind, p.schema)
	if err != nil {
		return nil, dataprep.TenureGroup{}, err
	}
	return vec, group, nil
}

// Predict runs rec through the full pipeline.
func (p *Pipeline) Predict(rec dataprep.RawRecord) (Prediction, error) {
	vec, group, err := p.Transform(rec)
	if err != nil {
		return Prediction{}, err
	}
	label, err := p.classifier.Predict(vec)
	if err != nil {
		return Prediction{}, classifyError(err)
	}
	prob, err := p.classifier.PredictProba(vec)
	if err != nil {
		return Prediction{}, classifyError(err)
	}
	res, err := Interpret(label, prob)
	if err != nil {
		return Prediction{}, err
	}
	return Prediction{PredictionResult: res, TenureGroup: group.Label, Vector: vec}, nil
}

// PredictFields coerces loosely typed fields and runs them through the pipeline.
func (p *Pipeline) PredictFields(fields map[string]string) (Prediction, error) {
	rec, err := dataprep.ParseRecord(fields)
	if err != nil {
		return Prediction{}, stageError(StageCoerce, err)
	}
	return p.Predict(rec)
}

func classifyError(err error) error {
	if errors.Is(err, model.ErrDimension) {
		err = fmt.Errorf("%w: %w", ErrShapeMismatch, err)
	}
	return stageError(StageClassify, err)
}
