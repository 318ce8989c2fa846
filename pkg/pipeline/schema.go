package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/data"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/dataprep"
)

// TenureGroupField prefixes the tenure-group indicator columns.
const TenureGroupField = "tenure_group"

// Schema is the frozen training-time layout: a vocabulary per categorical field and
// the ordered feature columns derived from them. It is never modified after
// construction, so one Schema may be shared by any number of goroutines.
type Schema struct {
	encoders []*dataprep.OneHotEncoder // categorical fields, in vector order
	tenure   *dataprep.OneHotEncoder
	columns  []string
	width    int // number of indicator columns
}

// NewSchema freezes the given vocabularies. Every categorical field must be present
// with at least one value; values are sorted so the column order does not depend on
// the order they were observed in.
func NewSchema(vocabularies map[string][]string) (*Schema, error) {
	fields := dataprep.CategoricalFields()
	for f := range vocabularies {
		if !slices.Contains(fields, f) {
			return nil, fmt.Errorf("schema: %q is not a categorical field", f)
		}
	}

	s := &Schema{columns: dataprep.NumericFields()}
	for _, f := range fields {
		vocab := slices.Clone(vocabularies[f])
		slices.Sort(vocab)
		enc, err := dataprep.NewOneHotEncoder(f, slices.Compact(vocab))
		if err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
		s.encoders = append(s.encoders, enc)
		s.columns = append(s.columns, enc.Columns()...)
		s.width += enc.Width()
	}

	tenure, err := dataprep.NewOneHotEncoder(TenureGroupField, dataprep.TenureLabels())
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	s.tenure = tenure
	s.columns = append(s.columns, tenure.Columns()...)
	s.width += tenure.Width()
	return s, nil
}

// LoadStats summarises a reference dataset read.
type LoadStats struct {
	Rows      int // rows that contributed vocabulary
	Malformed int // rows skipped as unparseable
	Blank     int // categorical cells skipped as blank
}

// LoadSchema derives a Schema from the reference dataset at path. Only the
// categorical columns are read; other columns are ignored.
func LoadSchema(path string) (*Schema, LoadStats, error) {
	rows := make(chan data.Row)
	header, done, err := data.StreamRows(path, rows)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("reference dataset: %w", err)
	}
	var absent []string
	for _, f := range dataprep.CategoricalFields() {
		if !slices.Contains(header, f) {
			absent = append(absent, f)
		}
	}
	if len(absent) > 0 {
		close(done)
		for range rows {
		}
		return nil, LoadStats{}, fmt.Errorf("reference dataset %s: missing columns %s", path, strings.Join(absent, ", "))
	}
	return DeriveSchema(rows)
}

// DeriveSchema collects the vocabularies seen in rows and freezes them. rows is
// drained completely.
func DeriveSchema(rows <-chan data.Row) (*Schema, LoadStats, error) {
	var stats LoadStats
	seen := make(map[string]map[string]struct{})
	for _, f := range dataprep.CategoricalFields() {
		seen[f] = make(map[string]struct{})
	}

	for row := range rows {
		if row.Err != nil {
			stats.Malformed++
			continue
		}
		stats.Rows++
		for f, values := range seen {
			v := strings.TrimSpace(row.Fields[f])
			if v == "" {
				stats.Blank++
				continue
			}
			values[v] = struct{}{}
		}
	}
	if stats.Rows == 0 {
		return nil, stats, errors.New("reference dataset: no usable rows")
	}

	vocab := make(map[string][]string, len(seen))
	for f, values := range seen {
		for v := range values {
			vocab[f] = append(vocab[f], v)
		}
	}
	s, err := NewSchema(vocab)
	if err != nil {
		return nil, stats, err
	}
	return s, stats, nil
}

// Columns returns a copy of the ordered feature column names.
func (s *Schema) Columns() []string { return slices.Clone(s.columns) }

// Len is the feature vector length.
func (s *Schema) Len() int { return len(s.columns) }

// Vocabulary returns a copy of field's vocabulary.
func (s *Schema) Vocabulary(field string) ([]string, bool) {
	if field == TenureGroupField {
		return s.tenure.Vocabulary(), true
	}
	for _, enc := range s.encoders {
		if enc.Field() == field {
			return enc.Vocabulary(), true
		}
	}
	return nil, false
}

// Fingerprint is a short, stable digest of the column list.
func (s *Schema) Fingerprint() string {
	h := sha256.New()
	for _, c := range s.columns {
		h.Write([]byte(c))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:12]
}

// CheckColumns fails with ErrShapeMismatch unless names equals the schema's columns.
func (s *Schema) CheckColumns(names []string) error {
	if len(names) != len(s.columns) {
		return fmt.Errorf("%w: classifier has %d features, schema has %d", ErrShapeMismatch, len(names), len(s.columns))
	}
	for i, c := range s.columns {
		if names[i] != c {
			return fmt.Errorf("%w: column %d is %q in classifier, %q in schema", ErrShapeMismatch, i, names[i], c)
		}
	}
	return nil
}

// Feature is a named vector entry.
type Feature struct {
	Column string
	Value  float64
}

// Describe pairs each entry of vec with its column name.
func (s *Schema) Describe(vec FeatureVector) ([]Feature, error) {
	if len(vec) != len(s.columns) {
		return nil, fmt.Errorf("%w: vector has %d entries, schema has %d", ErrShapeMismatch, len(vec), len(s.columns))
	}
	out := make([]Feature, len(vec))
	for i, v := range vec {
		out[i] = Feature{Column: s.columns[i], Value: v}
	}
	return out, nil
}
