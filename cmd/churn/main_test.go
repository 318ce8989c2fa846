package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/model"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/pipeline"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/pipeline/pipelinetest"
)

type result struct {
	code           int
	stdout, stderr string
}

// writeConfig writes a reference dataset, the fixture model and a config file
// pointing at them into a fresh directory. extra is appended to the YAML.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()
	dir := t.TempDir()
	body := fmt.Sprintf("reference_path: %s\nmodel_path: %s\n%s",
		pipelinetest.WriteReference(t, dir), pipelinetest.WriteModel(t, dir), extra)
	path := filepath.Join(dir, "churn.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func execute(t *testing.T, configPath, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	c := &cli{logger: zaptest.NewLogger(t)}
	code := run(context.Background(), append([]string{"--config", configPath}, args...),
		strings.NewReader(stdin), &stdout, &stderr, c)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func fieldFlags(fields map[string]string) []string {
	var args []string
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		args = append(args, "--field", k+"="+fields[k])
	}
	return args
}

func expected(t *testing.T, fields map[string]string) pipeline.Prediction {
	t.Helper()
	pred, err := pipelinetest.Pipeline(t).PredictFields(fields)
	require.NoError(t, err)
	return pred
}

func TestPredictFromFlags(t *testing.T) {
	cfg := writeConfig(t, "")
	fields := pipelinetest.BaselineFields()
	want := expected(t, fields)

	res := execute(t, cfg, "", append([]string{"predict"}, fieldFlags(fields)...)...)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, want.Headline()+"\nConfidence: "+want.ConfidenceText()+"\n", res.stdout)
	assert.Equal(t, "This customer is likely to churn", want.Headline())
}

func TestPredictRecordFileWithOverride(t *testing.T) {
	cfg := writeConfig(t, "")
	fields := pipelinetest.BaselineFields()
	fields["Contract"] = "Two year"
	fields["tenure"] = "70"
	want := expected(t, fields)

	// Numbers arrive as JSON numbers; tenure is then overridden on the command line.
	doc := map[string]any{}
	for k, v := range pipelinetest.BaselineFields() {
		doc[k] = v
	}
	doc["tenure"] = 5
	doc["SeniorCitizen"] = 0
	doc["MonthlyCharges"] = 29.85
	doc["Contract"] = "Two year"
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	record := filepath.Join(t.TempDir(), "customer.json")
	require.NoError(t, os.WriteFile(record, raw, 0o644))

	res := execute(t, cfg, "", "predict", "--record", record, "--field", "tenure=70")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "This customer is likely to continue", want.Headline())
	assert.Equal(t, want.Headline()+"\nConfidence: "+want.ConfidenceText()+"\n", res.stdout)
}

func TestPredictShowVector(t *testing.T) {
	cfg := writeConfig(t, "")
	res := execute(t, cfg, "", append([]string{"predict", "--show-vector"}, fieldFlags(pipelinetest.BaselineFields())...)...)
	require.Equal(t, exitOK, res.code, res.stderr)

	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 3+len(pipelinetest.Columns))
	assert.Empty(t, lines[2])
	assert.Equal(t, fmt.Sprintf("%-45s %g", "tenure_group_1 - 12", 1.0), lines[3+44])
}

func TestPredictUserErrors(t *testing.T) {
	cfg := writeConfig(t, "")
	tests := []struct {
		name   string
		args   []string
		stderr string
	}{
		{"unknown category", []string{"--field", "PaymentMethod=Voucher"}, "Please check your inputs"},
		{"tenure out of range", []string{"--field", "tenure=80"}, "tenure"},
		{"not a number", []string{"--field", "MonthlyCharges=lots"}, "MonthlyCharges"},
		{"malformed flag", []string{"--field", "tenure"}, "want name=value"},
		{"missing record file", []string{"--record", filepath.Join(t.TempDir(), "nope.json")}, "record"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := pipelinetest.BaselineFields()
			args := append([]string{"predict"}, fieldFlags(fields)...)
			res := execute(t, cfg, "", append(args, tt.args...)...)
			assert.Equal(t, exitUser, res.code)
			assert.Empty(t, res.stdout)
			assert.Contains(t, res.stderr, tt.stderr)
		})
	}

	res := execute(t, cfg, "", "predict")
	assert.Equal(t, exitUser, res.code)
	assert.Contains(t, res.stderr, "no record given")
}

func TestPredictZeroFillsUnknownCategoryWhenConfigured(t *testing.T) {
	cfg := writeConfig(t, "unknown_category: zero\n")
	fields := pipelinetest.BaselineFields()
	fields["PaymentMethod"] = "Voucher"
	res := execute(t, cfg, "", append([]string{"predict"}, fieldFlags(fields)...)...)
	assert.Equal(t, exitOK, res.code, res.stderr)
}

func TestStartupRejectsMismatchedModel(t *testing.T) {
	cfg := writeConfig(t, "")
	narrow, err := model.NewLogisticRegression(pipelinetest.Columns[:49], make([]float64, 49), 0, 0)
	require.NoError(t, err)
	raw, err := json.Marshal(narrow)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(cfg), "model.json"), raw, 0o644))

	res := execute(t, cfg, "", append([]string{"predict"}, fieldFlags(pipelinetest.BaselineFields())...)...)
	assert.Equal(t, exitInternal, res.code)
	assert.Contains(t, res.stderr, "startup")
}

func TestMissingConfigFile(t *testing.T) {
	res := execute(t, filepath.Join(t.TempDir(), "missing.yaml"), "", "schema")
	assert.Equal(t, exitUser, res.code)
}

func TestStream(t *testing.T) {
	cfg := writeConfig(t, "")
	valid, err := json.Marshal(pipelinetest.BaselineFields())
	require.NoError(t, err)
	longTenure := pipelinetest.BaselineFields()
	longTenure["tenure"] = "99"
	rejected, err := json.Marshal(longTenure)
	require.NoError(t, err)

	stdin := string(valid) + "\n\n{not json\n" + string(rejected) + "\n"
	res := execute(t, cfg, stdin, "stream")
	require.Equal(t, exitOK, res.code, res.stderr)

	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(res.stdout), "\n") {
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m), line)
		out = append(out, m)
	}
	require.Len(t, out, 3)

	want := expected(t, pipelinetest.BaselineFields())
	assert.EqualValues(t, 1, out[0]["line"])
	assert.NotEmpty(t, out[0]["request_id"])
	assert.EqualValues(t, want.Label, out[0]["label"])
	assert.Equal(t, want.Verdict, out[0]["verdict"])
	assert.Equal(t, "1 - 12", out[0]["tenure_group"])
	assert.Equal(t, want.ConfidenceText(), out[0]["confidence_text"])
	assert.NotContains(t, out[0], "error")

	assert.EqualValues(t, 3, out[1]["line"])
	assert.Equal(t, "coerce", out[1]["stage"])
	assert.Contains(t, out[1]["error"], "invalid JSON")

	assert.EqualValues(t, 4, out[2]["line"])
	assert.Equal(t, "bin", out[2]["stage"])
	assert.Equal(t, "tenure", out[2]["field"])
	assert.NotContains(t, out[2], "label")
	assert.NotContains(t, out[2], "confidence_text")
}

func TestStreamWatch(t *testing.T) {
	cfg := writeConfig(t, "")
	valid, err := json.Marshal(pipelinetest.BaselineFields())
	require.NoError(t, err)

	res := execute(t, cfg, string(valid)+"\n", "stream", "--watch")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, 1, strings.Count(res.stdout, "\n"))
}

func TestJournalAndHistory(t *testing.T) {
	cfg := writeConfig(t, "journal_path: "+filepath.Join(t.TempDir(), "journal.db")+"\n")
	fields := pipelinetest.BaselineFields()

	res := execute(t, cfg, "", append([]string{"predict", "--json"}, fieldFlags(fields)...)...)
	require.Equal(t, exitOK, res.code, res.stderr)
	var out struct {
		ID      string `json:"id"`
		Verdict string `json:"verdict"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	require.NotEmpty(t, out.ID)

	res = execute(t, cfg, "", append([]string{"predict"}, fieldFlags(fields)...)...)
	require.Equal(t, exitOK, res.code, res.stderr)
	res = execute(t, cfg, "", append([]string{"predict"}, append(fieldFlags(fields), "--field", "tenure=90")...)...)
	require.Equal(t, exitUser, res.code)

	res = execute(t, cfg, "", "history", "-n", "5")
	require.Equal(t, exitOK, res.code, res.stderr)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 3)
	assert.NotContains(t, lines[0], out.ID)
	assert.Contains(t, lines[1], out.ID)
	assert.Contains(t, lines[1], out.Verdict)
	assert.Equal(t, "rejected at bin: 1", lines[2])
}

func TestHistoryWithoutJournal(t *testing.T) {
	res := execute(t, writeConfig(t, ""), "", "history")
	assert.Equal(t, exitUser, res.code)
	assert.Contains(t, res.stderr, "journal_path")
}

func TestSchema(t *testing.T) {
	cfg := writeConfig(t, "")

	res := execute(t, cfg, "", "schema", "--columns-only")
	require.Equal(t, exitOK, res.code, res.stderr)
	got := strings.Split(strings.TrimSuffix(res.stdout, "\n"), "\n")
	if diff := cmp.Diff(pipelinetest.Columns, got); diff != "" {
		t.Fatalf("columns (-want +got):\n%s", diff)
	}

	res = execute(t, cfg, "", "schema")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, fmt.Sprintf("%-18s %d\n", "PaymentMethod", 4))
	assert.Contains(t, res.stdout, fmt.Sprintf("%-18s %d\n", "tenure_group", 6))
	assert.Contains(t, res.stdout, fmt.Sprintf("%-18s %d\n", "columns", 50))
	assert.Contains(t, res.stdout, "fingerprint")
}

func TestEvaluate(t *testing.T) {
	cfg := writeConfig(t, "eval_workers: 2\n")
	data := filepath.Join(t.TempDir(), "labelled.csv")
	require.NoError(t, os.WriteFile(data, []byte(pipelinetest.ReferenceCSV), 0o644))

	res := execute(t, cfg, "", "evaluate", "--data", data, "--batch", "3")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, fmt.Sprintf("%-10s %d\n", "scored", 11))
	assert.Contains(t, res.stdout, fmt.Sprintf("%-10s %d\n", "rejected", 0))
	assert.Contains(t, res.stdout, "log_loss")
	assert.Contains(t, res.stdout, fmt.Sprintf("%-10s tp=", "confusion"))

	res = execute(t, cfg, "", "evaluate")
	assert.Equal(t, exitUser, res.code)
}
