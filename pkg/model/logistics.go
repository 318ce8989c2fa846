package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"

	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/NeuralNetwork"
)

// KindLogisticRegression identifies a logistic-regression artifact.
const KindLogisticRegression = "logistic_regression"

// LogisticRegression is a trained binary logistic model with a sigmoid link.
type LogisticRegression struct {
	features  []string
	w         []float64 // weights, aligned with features
	b         float64   // bias
	threshold float64
}

// artifact is the on-disk form of a trained model.
type artifact struct {
	Kind      string    `json:"kind"`
	Features  []string  `json:"features"`
	Weights   []float64 `json:"weights"`
	Bias      float64   `json:"bias"`
	Threshold float64   `json:"threshold,omitempty"`
}

// NewLogisticRegression builds a model from trained parameters. threshold is the
// probability at or above which Predict returns 1; 0 selects the default of 0.5.
func NewLogisticRegression(features []string, weights []float64, bias, threshold float64) (*LogisticRegression, error) {
	if len(weights) == 0 {
		return nil, errors.New("logistic regression: no weights")
	}
	if len(features) != len(weights) {
		return nil, fmt.Errorf("logistic regression: %d feature names for %d weights", len(features), len(weights))
	}
	if threshold == 0 {
		threshold = 0.5
	}
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("logistic regression: threshold %v outside [0, 1]", threshold)
	}
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("logistic regression: weight %d (%s) is not finite", i, features[i])
		}
	}
	return &LogisticRegression{
		features:  slices.Clone(features),
		w:         slices.Clone(weights),
		b:         bias,
		threshold: threshold,
	}, nil
}

// LoadLogisticRegression reads a JSON artifact from path.
func LoadLogisticRegression(path string) (*LogisticRegression, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m LogisticRegression
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &m, nil
}

// MarshalJSON implements json.Marshaler.
func (m *LogisticRegression) MarshalJSON() ([]byte, error) {
	return json.Marshal(artifact{
		Kind:      KindLogisticRegression,
		Features:  m.features,
		Weights:   m.w,
		Bias:      m.b,
		Threshold: m.threshold,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *LogisticRegression) UnmarshalJSON(data []byte) error {
	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	if a.Kind != "" && a.Kind != KindLogisticRegression {
		return fmt.Errorf("unsupported model kind %q", a.Kind)
	}
	loaded, err := NewLogisticRegression(a.Features, a.Weights, a.Bias, a.Threshold)
	if err != nil {
		return err
	}
	*m = *loaded
	return nil
}

// FeatureNames returns the ordered columns the model was trained on.
func (m *LogisticRegression) FeatureNames() []string { return slices.Clone(m.features) }

// Threshold returns the decision threshold on p(y=1).
func (m *LogisticRegression) Threshold() float64 { return m.threshold }

// PredictProba returns p(y=1) for x.
func (m *LogisticRegression) PredictProba(x []float64) (float64, error) {
	if len(x) != len(m.w) {
		return 0, fmt.Errorf("%w: got %d, model expects %d", ErrDimension, len(x), len(m.w))
	}
	sum := m.b
	for j, v := range x {
		sum += m.w[j] * v
	}
	return NeuralNetwork.Sigmoid(sum), nil
}

// Predict returns 1 when p(y=1) reaches the threshold, else 0.
func (m *LogisticRegression) Predict(x []float64) (int, error) {
	p, err := m.PredictProba(x)
	if err != nil {
		return 0, err
	}
	if p >= m.threshold {
		return 1, nil
	}
	return 0, nil
}
