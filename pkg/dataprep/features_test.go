package dataprep

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenureLabels(t *testing.T) {
	want := []string{"1 - 12", "13 - 24", "25 - 36", "37 - 48", "49 - 60", "61 - 72"}
	if diff := cmp.Diff(want, TenureLabels()); diff != "" {
		t.Fatalf("labels mismatch (-want +got):\n%s", diff)
	}
}

func TestBinPartitionsRange(t *testing.T) {
	b := NewTenureBinner(RejectOutOfRange)
	counts := make(map[string]int)
	prev := -1
	for tenure := 1; tenure < 73; tenure++ {
		g, err := b.Bin(tenure)
		require.NoError(t, err, "tenure %d", tenure)
		require.GreaterOrEqual(t, g.Index, prev, "bins must be monotonic")
		prev = g.Index
		counts[g.Label]++
	}
	require.Len(t, counts, 6)
	for label, n := range counts {
		assert.Equal(t, 12, n, "group %s", label)
	}
}

func TestBinBoundaries(t *testing.T) {
	b := NewTenureBinner(RejectOutOfRange)
	cases := []struct {
		tenure int
		label  string
	}{
		{1, "1 - 12"},
		{5, "1 - 12"},
		{12, "1 - 12"},
		{13, "13 - 24"},
		{60, "49 - 60"},
		{61, "61 - 72"},
		{72, "61 - 72"},
	}
	for _, tc := range cases {
		g, err := b.Bin(tc.tenure)
		require.NoError(t, err)
		assert.Equal(t, tc.label, g.Label, "tenure %d", tc.tenure)
	}
}

func TestBinOutOfRangeReject(t *testing.T) {
	b := NewTenureBinner(RejectOutOfRange)
	for _, tenure := range []int{0, 73, 500} {
		for range 3 {
			_, err := b.Bin(tenure)
			require.ErrorIs(t, err, ErrOutOfRange, "tenure %d", tenure)
			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, FieldTenure, fe.Field)
		}
	}
}

func TestBinOutOfRangeClamp(t *testing.T) {
	b := NewTenureBinner(ClampOutOfRange)
	g, err := b.Bin(0)
	require.NoError(t, err)
	assert.Equal(t, "1 - 12", g.Label)

	for _, tenure := range []int{73, 100} {
		g, err = b.Bin(tenure)
		require.NoError(t, err)
		assert.Equal(t, "61 - 72", g.Label)
	}
}

func TestBinNegativeIsValidation(t *testing.T) {
	for _, p := range []RangePolicy{RejectOutOfRange, ClampOutOfRange} {
		_, err := NewTenureBinner(p).Bin(-1)
		require.ErrorIs(t, err, ErrValidation, "policy %s", p)
	}
}

func TestParseRangePolicy(t *testing.T) {
	p, err := ParseRangePolicy("clamp")
	require.NoError(t, err)
	assert.Equal(t, ClampOutOfRange, p)

	p, err = ParseRangePolicy("")
	require.NoError(t, err)
	assert.Equal(t, RejectOutOfRange, p)

	_, err = ParseRangePolicy("wrap")
	require.Error(t, err)
}
