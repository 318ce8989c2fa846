package dataprep

import (
	"fmt"
	"strconv"
)

// Tenure bins are width-12, left-inclusive intervals starting at month 1.
const (
	tenureStart = 1
	tenureWidth = 12
	tenureBins  = 6
)

// TenureGroup is one labelled tenure bin.
type TenureGroup struct {
	Index int    // 0..5 in bin order
	Label string // e.g. "1 - 12"
}

// TenureGroups returns all tenure groups in bin order.
func TenureGroups() []TenureGroup {
	out := make([]TenureGroup, tenureBins)
	for k := range tenureBins {
		out[k] = tenureGroup(k)
	}
	return out
}

// TenureLabels returns the tenure-group labels in bin order.
func TenureLabels() []string {
	labels := make([]string, tenureBins)
	for k := range tenureBins {
		labels[k] = tenureGroup(k).Label
	}
	return labels
}

func tenureGroup(k int) TenureGroup {
	lo := tenureStart + k*tenureWidth
	return TenureGroup{Index: k, Label: fmt.Sprintf("%d - %d", lo, lo+tenureWidth-1)}
}

// RangePolicy decides what happens to a tenure outside [1, 73).
type RangePolicy int

const (
	// RejectOutOfRange fails with ErrOutOfRange.
	RejectOutOfRange RangePolicy = iota
	// ClampOutOfRange assigns the nearest boundary bin.
	ClampOutOfRange
)

// ParseRangePolicy accepts "reject" or "clamp".
func ParseRangePolicy(s string) (RangePolicy, error) {
	switch s {
	case "reject", "":
		return RejectOutOfRange, nil
	case "clamp":
		return ClampOutOfRange, nil
	}
	return 0, fmt.Errorf("unknown tenure policy %q (want reject or clamp)", s)
}

func (p RangePolicy) String() string {
	if p == ClampOutOfRange {
		return "clamp"
	}
	return "reject"
}

// TenureBinner maps tenure in months onto a TenureGroup.
type TenureBinner struct {
	Policy RangePolicy
}

// NewTenureBinner returns a binner applying the given out-of-range policy.
func NewTenureBinner(p RangePolicy) TenureBinner { return TenureBinner{Policy: p} }

// Bin returns the group whose interval [1+12k, 13+12k) contains tenure.
// Negative tenure is never valid, whatever the policy.
func (b TenureBinner) Bin(tenure int) (TenureGroup, error) {
	if tenure < 0 {
		return TenureGroup{}, &FieldError{
			Field: FieldTenure,
			Value: strconv.Itoa(tenure),
			Err:   fmt.Errorf("%w: must not be negative", ErrValidation),
		}
	}
	k := (tenure - tenureStart) / tenureWidth
	if tenure >= tenureStart && k < tenureBins {
		return tenureGroup(k), nil
	}
	if b.Policy == ClampOutOfRange {
		if tenure < tenureStart {
			return tenureGroup(0), nil
		}
		return tenureGroup(tenureBins - 1), nil
	}
	return TenureGroup{}, &FieldError{
		Field: FieldTenure,
		Value: strconv.Itoa(tenure),
		Err: fmt.Errorf("%w: tenure must be in [%d, %d)", ErrOutOfRange,
			tenureStart, tenureStart+tenureBins*tenureWidth),
	}
}
