package pipeline

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	VerdictChurn    = "likely to churn"
	VerdictContinue = "likely to continue"

	MessageChurn    = "churn likely"
	MessageRetained = "retention likely"
)

var hundred = decimal.NewFromInt(100)

// PredictionResult is the interpreted classifier output.
type PredictionResult struct {
	Label int `json:"label"`
	// Probability is always p(label == 1) as reported by the classifier.
	Probability float64 `json:"probability"`
	// Confidence is the belief, in percent, in the label actually predicted.
	Confidence float64 `json:"confidence"`
	Verdict    string  `json:"verdict"`
	Message    string  `json:"message"`

	percent decimal.Decimal
}

// Interpret turns a label and positive-class probability into a result.
func Interpret(label int, probability float64) (PredictionResult, error) {
	if label != 0 && label != 1 {
		return PredictionResult{}, stageError(StageInterpret, fmt.Errorf("%w: label %d is not binary", ErrShapeMismatch, label))
	}
	if math.IsNaN(probability) || probability < 0 || probability > 1 {
		return PredictionResult{}, stageError(StageInterpret, fmt.Errorf("%w: probability %v outside [0, 1]", ErrShapeMismatch, probability))
	}

	p := decimal.NewFromFloat(probability)
	r := PredictionResult{Label: label, Probability: probability}
	if label == 1 {
		r.percent = p.Mul(hundred)
		r.Verdict, r.Message = VerdictChurn, MessageChurn
	} else {
		r.percent = decimal.NewFromInt(1).Sub(p).Mul(hundred)
		r.Verdict, r.Message = VerdictContinue, MessageRetained
	}
	r.Confidence = r.percent.InexactFloat64()
	return r, nil
}

// ConfidenceText formats the confidence with two decimals, e.g. "83.00%".
func (r PredictionResult) ConfidenceText() string {
	return r.percent.StringFixed(2) + "%"
}

// Headline is the customer-facing sentence for the verdict.
func (r PredictionResult) Headline() string {
	return "This customer is " + r.Verdict
}
