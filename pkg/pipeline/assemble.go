package pipeline

import (
	"fmt"

	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/dataprep"
)

// FeatureVector is aligned to the columns of the Schema that produced it.
type FeatureVector []float64

// Indicators is the one-hot block of a feature vector: categorical fields first,
// tenure group last, in schema order.
type Indicators []float64

// Encode expands the categorical fields of rec and its tenure group into indicator
// columns using only the schema's vocabularies.
func Encode(rec dataprep.RawRecord, group dataprep.TenureGroup, s *Schema, policy dataprep.UnknownPolicy) (Indicators, error) {
	ind := make(Indicators, s.width)
	n := 0
	for _, enc := range s.encoders {
		value, ok := rec.Categorical[enc.Field()]
		if !ok {
			return nil, stageError(StageEncode, &dataprep.FieldError{
				Field: enc.Field(),
				Err:   fmt.Errorf("%w: required", ErrValidation),
			})
		}
		w := enc.Width()
		if err := enc.EncodeInto(ind[n:n+w], value, policy); err != nil {
			return nil, stageError(StageEncode, err)
		}
		n += w
	}
	// Tenure groups come from the binner, so an unknown label is an internal fault.
	if err := s.tenure.EncodeInto(ind[n:], group.Label, dataprep.RejectUnknown); err != nil {
		return nil, stageError(StageEncode, fmt.Errorf("%w: %w", ErrShapeMismatch, err))
	}
	return ind, nil
}

// Assemble places the numeric fields of rec, unchanged, ahead of ind.
func Assemble(rec dataprep.RawRecord, ind Indicators, s *Schema) (FeatureVector, error) {
	numeric := rec.Numeric()
	if len(numeric)+len(ind) != s.Len() {
		return nil, stageError(StageAssemble, fmt.Errorf("%w: %d numeric + %d indicator columns, schema has %d",
			ErrShapeMismatch, len(numeric), len(ind), s.Len()))
	}
	vec := make(FeatureVector, 0, s.Len())
	vec = append(vec, numeric...)
	vec = append(vec, ind...)
	return vec, nil
}
