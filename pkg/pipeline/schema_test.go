package pipeline_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/data"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/pipeline"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/pipeline/pipelinetest"
)

func TestLoadSchemaColumns(t *testing.T) {
	schema, stats, err := pipeline.LoadSchema(pipelinetest.WriteReference(t, t.TempDir()))
	require.NoError(t, err)

	if diff := cmp.Diff(pipelinetest.Columns, schema.Columns()); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 50, schema.Len())
	assert.Equal(t, 11, stats.Rows)
	assert.Zero(t, stats.Malformed)
	assert.NotContains(t, schema.Columns(), "tenure")
}

func TestSchemaVocabulary(t *testing.T) {
	schema, _, err := pipeline.LoadSchema(pipelinetest.WriteReference(t, t.TempDir()))
	require.NoError(t, err)

	vocab, ok := schema.Vocabulary("InternetService")
	require.True(t, ok)
	assert.Equal(t, []string{"DSL", "Fiber optic", "No"}, vocab)

	vocab, ok = schema.Vocabulary(pipeline.TenureGroupField)
	require.True(t, ok)
	assert.Len(t, vocab, 6)

	_, ok = schema.Vocabulary("customerID")
	assert.False(t, ok)

	// Callers get copies.
	vocab[0] = "mutated"
	again, _ := schema.Vocabulary(pipeline.TenureGroupField)
	assert.Equal(t, "1 - 12", again[0])
	cols := schema.Columns()
	cols[0] = "mutated"
	assert.Equal(t, "SeniorCitizen", schema.Columns()[0])
}

func TestSchemaOrderIndependentOfRowOrder(t *testing.T) {
	lines := strings.Split(strings.TrimSpace(pipelinetest.ReferenceCSV), "\n")
	reversed := []string{lines[0]}
	for i := len(lines) - 1; i > 0; i-- {
		reversed = append(reversed, lines[i])
	}
	path := filepath.Join(t.TempDir(), "reversed.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(reversed, "\n")+"\n"), 0o644))

	a, _, err := pipeline.LoadSchema(pipelinetest.WriteReference(t, t.TempDir()))
	require.NoError(t, err)
	b, _, err := pipeline.LoadSchema(path)
	require.NoError(t, err)

	assert.Equal(t, a.Columns(), b.Columns())
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestLoadSchemaMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.csv")
	require.NoError(t, os.WriteFile(path, []byte("gender,Partner\nFemale,Yes\n"), 0o644))

	_, _, err := pipeline.LoadSchema(path)
	require.ErrorContains(t, err, "PaymentMethod")

	_, _, err = pipeline.LoadSchema(filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestDeriveSchemaSkipsMalformedAndBlank(t *testing.T) {
	rows := make(chan data.Row, 3)
	fields := pipelinetest.BaselineFields()
	rows <- data.Row{Line: 2, Fields: fields}
	rows <- data.Row{Line: 3, Err: assert.AnError}
	blank := pipelinetest.BaselineFields()
	blank["gender"] = "  "
	rows <- data.Row{Line: 4, Fields: blank}
	close(rows)

	schema, stats, err := pipeline.DeriveSchema(rows)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Rows)
	assert.Equal(t, 1, stats.Malformed)
	assert.Equal(t, 1, stats.Blank)

	vocab, _ := schema.Vocabulary("gender")
	assert.Equal(t, []string{"Female"}, vocab)
}

func TestDeriveSchemaNoRows(t *testing.T) {
	rows := make(chan data.Row)
	close(rows)
	_, _, err := pipeline.DeriveSchema(rows)
	require.Error(t, err)
}

func TestNewSchemaRejectsUnknownField(t *testing.T) {
	_, err := pipeline.NewSchema(map[string][]string{"Churn": {"No", "Yes"}})
	require.Error(t, err)
}

func TestCheckColumns(t *testing.T) {
	schema, _, err := pipeline.LoadSchema(pipelinetest.WriteReference(t, t.TempDir()))
	require.NoError(t, err)

	require.NoError(t, schema.CheckColumns(pipelinetest.Columns))
	require.ErrorIs(t, schema.CheckColumns(pipelinetest.Columns[1:]), pipeline.ErrShapeMismatch)

	swapped := append([]string(nil), pipelinetest.Columns...)
	swapped[3], swapped[4] = swapped[4], swapped[3]
	require.ErrorIs(t, schema.CheckColumns(swapped), pipeline.ErrShapeMismatch)
}
