package dataprep

import (
	"fmt"
	"slices"
)

// UnknownPolicy decides what an encoder does with a value outside its vocabulary.
type UnknownPolicy int

const (
	// RejectUnknown fails with ErrUnknownCategory.
	RejectUnknown UnknownPolicy = iota
	// ZeroUnknown emits all-zero indicators for the field.
	ZeroUnknown
)

// ParseUnknownPolicy accepts "reject" or "zero".
func ParseUnknownPolicy(s string) (UnknownPolicy, error) {
	switch s {
	case "reject", "":
		return RejectUnknown, nil
	case "zero":
		return ZeroUnknown, nil
	}
	return 0, fmt.Errorf("unknown category policy %q (want reject or zero)", s)
}

func (p UnknownPolicy) String() string {
	if p == ZeroUnknown {
		return "zero"
	}
	return "reject"
}

// OneHotEncoder expands a categorical value into indicator columns over a vocabulary
// fixed at construction. Values never seen at construction cannot add columns.
type OneHotEncoder struct {
	field  string
	values []string
	index  map[string]int
}

// NewOneHotEncoder freezes vocabulary, in the given order, for field.
func NewOneHotEncoder(field string, vocabulary []string) (*OneHotEncoder, error) {
	if len(vocabulary) == 0 {
		return nil, fmt.Errorf("encoder %s: empty vocabulary", field)
	}
	index := make(map[string]int, len(vocabulary))
	for i, v := range vocabulary {
		if _, dup := index[v]; dup {
			return nil, fmt.Errorf("encoder %s: duplicate value %q", field, v)
		}
		index[v] = i
	}
	return &OneHotEncoder{field: field, values: slices.Clone(vocabulary), index: index}, nil
}

// Field returns the name of the encoded field.
func (e *OneHotEncoder) Field() string { return e.field }

// Width is the number of indicator columns.
func (e *OneHotEncoder) Width() int { return len(e.values) }

// Vocabulary returns a copy of the frozen vocabulary.
func (e *OneHotEncoder) Vocabulary() []string { return slices.Clone(e.values) }

// Columns returns the indicator column names, "<field>_<value>".
func (e *OneHotEncoder) Columns() []string {
	cols := make([]string, len(e.values))
	for i, v := range e.values {
		cols[i] = e.field + "_" + v
	}
	return cols
}

// Known reports whether value is in the vocabulary.
func (e *OneHotEncoder) Known(value string) bool {
	_, ok := e.index[value]
	return ok
}

// EncodeInto writes the indicators for value into dst, which must be Width long.
// dst is fully overwritten, so at most one indicator is ever set.
func (e *OneHotEncoder) EncodeInto(dst []float64, value string, policy UnknownPolicy) error {
	if len(dst) != len(e.values) {
		return fmt.Errorf("encoder %s: destination has %d slots, want %d", e.field, len(dst), len(e.values))
	}
	clear(dst)
	i, ok := e.index[value]
	if !ok {
		if policy == ZeroUnknown {
			return nil
		}
		return &FieldError{Field: e.field, Value: value, Err: ErrUnknownCategory}
	}
	dst[i] = 1
	return nil
}

// Encode returns the indicators for value as a new slice.
func (e *OneHotEncoder) Encode(value string, policy UnknownPolicy) ([]float64, error) {
	out := make([]float64, len(e.values))
	if err := e.EncodeInto(out, value, policy); err != nil {
		return nil, err
	}
	return out, nil
}
