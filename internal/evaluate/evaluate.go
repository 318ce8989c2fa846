// Package evaluate scores a labelled dataset through the prediction pipeline and
// summarises how well the classifier does on it.
package evaluate

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/NeuralNetwork"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/data"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/model"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/pipeline"
)

type Options struct {
	Workers     int    // concurrent batches, default 4
	BatchSize   int    // rows per batch, default 256
	LabelColumn string // default "Churn"
}

func (o Options) withDefaults() Options {
	if o.Workers < 1 {
		o.Workers = 4
	}
	if o.BatchSize < 1 {
		o.BatchSize = 256
	}
	if o.LabelColumn == "" {
		o.LabelColumn = "Churn"
	}
	return o
}

// Report summarises an evaluation run. Rejected rows do not count towards the
// metrics.
type Report struct {
	Rows      int
	Scored    int
	Malformed int            // unreadable rows or unparseable labels
	Rejected  map[string]int // per pipeline stage

	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64
	LogLoss   float64
	Confusion model.ConfusionMatrix
}

// RejectedTotal sums Rejected across stages.
func (r Report) RejectedTotal() int {
	n := 0
	for _, v := range r.Rejected {
		n += v
	}
	return n
}

// Stages returns the rejecting stages in sorted order.
func (r Report) Stages() []string { return slices.Sorted(maps.Keys(r.Rejected)) }

type tally struct {
	rows, malformed int
	rejected        map[string]int
	yTrue, yPred    []int
	probs           []float64
}

func (t *tally) merge(o *tally) {
	t.rows += o.rows
	t.malformed += o.malformed
	for k, v := range o.rejected {
		t.rejected[k] += v
	}
	t.yTrue = append(t.yTrue, o.yTrue...)
	t.yPred = append(t.yPred, o.yPred...)
	t.probs = append(t.probs, o.probs...)
}

// Run scores every row of the CSV at path. Records the pipeline rejects are
// counted; an internal pipeline fault aborts the run.
func Run(ctx context.Context, p *pipeline.Pipeline, path string, opts Options) (Report, error) {
	opts = opts.withDefaults()

	rows := make(chan data.Row)
	header, stopRows, err := data.StreamRows(path, rows)
	if err != nil {
		return Report{}, err
	}
	if !slices.Contains(header, opts.LabelColumn) {
		close(stopRows)
		for range rows {
		}
		return Report{}, fmt.Errorf("%s: no %q label column", path, opts.LabelColumn)
	}

	batches := make(chan []data.Row)
	stopBatches := data.Batcher(rows, opts.BatchSize, batches)

	var mu sync.Mutex
	total := &tally{rejected: make(map[string]int)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for batch := range batches {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			local, err := score(p, batch, opts.LabelColumn)
			if err != nil {
				return err
			}
			mu.Lock()
			total.merge(local)
			mu.Unlock()
			return nil
		})
	}
	close(stopBatches)
	close(stopRows)
	for range batches {
	}
	for range rows {
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	rep := Report{
		Rows:      total.rows,
		Scored:    len(total.yTrue),
		Malformed: total.malformed,
		Rejected:  total.rejected,
		Accuracy:  model.AccuracyInt(total.yTrue, total.yPred),
		Confusion: model.Confusion(total.yTrue, total.yPred),
	}
	rep.Precision, rep.Recall, rep.F1 = model.PrecisionRecallF1(total.yTrue, total.yPred)
	yTrue := make([]float64, len(total.yTrue))
	for i, y := range total.yTrue {
		yTrue[i] = float64(y)
	}
	rep.LogLoss = NeuralNetwork.BCE(yTrue, total.probs)
	return rep, nil
}

func score(p *pipeline.Pipeline, batch []data.Row, labelColumn string) (*tally, error) {
	t := &tally{rejected: make(map[string]int)}
	for _, row := range batch {
		t.rows++
		if row.Err != nil {
			t.malformed++
			continue
		}
		label, ok := parseLabel(row.Fields[labelColumn])
		if !ok {
			t.malformed++
			continue
		}
		pred, err := p.PredictFields(row.Fields)
		if err != nil {
			if pipeline.IsUserError(err) {
				t.rejected[string(pipeline.ErrorStage(err))]++
				continue
			}
			return nil, fmt.Errorf("line %d: %w", row.Line, err)
		}
		t.yTrue = append(t.yTrue, label)
		t.yPred = append(t.yPred, pred.Label)
		t.probs = append(t.probs, pred.Probability)
	}
	return t, nil
}

func parseLabel(s string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "1", "true":
		return 1, true
	case "no", "0", "false":
		return 0, true
	}
	return 0, false
}
