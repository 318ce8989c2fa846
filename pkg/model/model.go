package model

import "errors"

// ErrDimension is returned when an input vector does not match the model's width.
var ErrDimension = errors.New("feature vector dimension mismatch")

// Classifier is a trained binary classifier scoring one feature vector at a time.
type Classifier interface {
	// Predict returns the class label, 0 or 1.
	Predict(x []float64) (int, error)
	// PredictProba returns p(y=1).
	PredictProba(x []float64) (float64, error)
}

// FeatureNamer is implemented by classifiers that record the ordered column names
// they were trained on.
type FeatureNamer interface {
	FeatureNames() []string
}
