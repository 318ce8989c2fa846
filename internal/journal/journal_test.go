package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndListPredictions(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	base := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	id1, err := s.RecordPrediction(ctx, Entry{Label: 1, Probability: 0.83, Confidence: 83, Verdict: "likely to churn", TenureGroup: "1 - 12", CreatedAt: base})
	require.NoError(t, err)
	require.NotEmpty(t, id1)
	id2, err := s.RecordPrediction(ctx, Entry{Label: 0, Probability: 0.2, Confidence: 80, Verdict: "likely to continue", TenureGroup: "61 - 72", Schema: "abc123", CreatedAt: base.Add(time.Minute)})
	require.NoError(t, err)

	got, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, id2, got[0].ID)
	assert.Equal(t, "abc123", got[0].Schema)
	assert.Equal(t, id1, got[1].ID)
	assert.Equal(t, 0.83, got[1].Probability)
	assert.True(t, got[1].CreatedAt.Equal(base))

	got, err = s.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestRecordRejection(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	for _, stage := range []string{"bin", "bin", "encode"} {
		_, err := s.RecordRejection(ctx, Rejection{Stage: stage, Field: "tenure", Reason: "out of range"})
		require.NoError(t, err)
	}
	counts, err := s.RejectionCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"bin": 2, "encode": 1}, counts)
}

func TestOpenReusesExistingJournal(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.RecordPrediction(ctx, Entry{Verdict: "likely to continue", TenureGroup: "1 - 12"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
