package dataprep

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// isMissing reports whether a raw cell holds no usable value.
func isMissing(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == "NA" || v == "NaN"
}

// ParseRecord coerces loosely typed input fields into a RawRecord.
// Keys may be dataset field names or the positional form names query1..query19;
// unrecognised keys are ignored. Every field is required.
func ParseRecord(fields map[string]string) (RawRecord, error) {
	norm := make(map[string]string, len(fields))
	for k, v := range fields {
		if f, ok := FieldForFormName(k); ok {
			k = f
		}
		norm[k] = v
	}

	var rec RawRecord
	var err error

	if rec.SeniorCitizen, err = parseInt(norm, FieldSeniorCitizen); err != nil {
		return RawRecord{}, err
	}
	if rec.SeniorCitizen != 0 && rec.SeniorCitizen != 1 {
		return RawRecord{}, &FieldError{
			Field: FieldSeniorCitizen,
			Value: norm[FieldSeniorCitizen],
			Err:   fmt.Errorf("%w: must be 0 or 1", ErrValidation),
		}
	}
	if rec.MonthlyCharges, err = parseCharge(norm, FieldMonthlyCharges); err != nil {
		return RawRecord{}, err
	}
	if rec.TotalCharges, err = parseCharge(norm, FieldTotalCharges); err != nil {
		return RawRecord{}, err
	}
	if rec.Tenure, err = parseInt(norm, FieldTenure); err != nil {
		return RawRecord{}, err
	}
	if rec.Tenure < 0 {
		return RawRecord{}, &FieldError{
			Field: FieldTenure,
			Value: norm[FieldTenure],
			Err:   fmt.Errorf("%w: must not be negative", ErrValidation),
		}
	}

	rec.Categorical = make(map[string]string, len(categoricalFields))
	for _, f := range categoricalFields {
		v, ok := norm[f]
		if !ok || isMissing(v) {
			return RawRecord{}, missing(f, v)
		}
		rec.Categorical[f] = strings.TrimSpace(v)
	}
	return rec, nil
}

func missing(field, value string) error {
	return &FieldError{Field: field, Value: value, Err: fmt.Errorf("%w: required", ErrValidation)}
}

func parseInt(fields map[string]string, field string) (int, error) {
	raw, ok := fields[field]
	if !ok || isMissing(raw) {
		return 0, missing(field, raw)
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &FieldError{Field: field, Value: raw, Err: fmt.Errorf("%w: not an integer", ErrValidation)}
	}
	return n, nil
}

// parseCharge parses a non-negative, finite amount.
func parseCharge(fields map[string]string, field string) (float64, error) {
	raw, ok := fields[field]
	if !ok || isMissing(raw) {
		return 0, missing(field, raw)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &FieldError{Field: field, Value: raw, Err: fmt.Errorf("%w: not a number", ErrValidation)}
	}
	if f < 0 {
		return 0, &FieldError{Field: field, Value: raw, Err: fmt.Errorf("%w: must not be negative", ErrValidation)}
	}
	return f, nil
}
