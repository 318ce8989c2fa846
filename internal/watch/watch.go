// Package watch reloads the pipeline when its reference dataset or classifier
// artifact changes on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/model"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/pipeline"
)

const defaultDebounce = 250 * time.Millisecond

// Reloader rebuilds schema and classifier together and publishes the new pipeline
// through a Holder. A rebuild that fails, including one where the new dataset and
// artifact disagree on columns, leaves the current pipeline in place.
type Reloader struct {
	referencePath string
	modelPath     string
	holder        *pipeline.Holder
	logger        *zap.Logger
	debounce      time.Duration
	// OnReload, if set, is called after every reload attempt.
	OnReload func(err error)
}

func NewReloader(referencePath, modelPath string, holder *pipeline.Holder, logger *zap.Logger) *Reloader {
	return &Reloader{
		referencePath: filepath.Clean(referencePath),
		modelPath:     filepath.Clean(modelPath),
		holder:        holder,
		logger:        logger,
		debounce:      defaultDebounce,
	}
}

// Reload rebuilds and publishes the pipeline once.
func (r *Reloader) Reload() error {
	err := r.reload()
	if err != nil {
		r.logger.Error("reload failed, keeping current pipeline", zap.Error(err))
	}
	if r.OnReload != nil {
		r.OnReload(err)
	}
	return err
}

func (r *Reloader) reload() error {
	schema, stats, err := pipeline.LoadSchema(r.referencePath)
	if err != nil {
		return err
	}
	clf, err := model.LoadLogisticRegression(r.modelPath)
	if err != nil {
		return fmt.Errorf("classifier: %w", err)
	}
	current := r.holder.Load()
	next, err := current.Rebind(schema, clf)
	if err != nil {
		return err
	}
	r.holder.Swap(next)
	r.logger.Info("pipeline reloaded",
		zap.String("previous_schema", current.Schema().Fingerprint()),
		zap.String("schema", schema.Fingerprint()),
		zap.Int("columns", schema.Len()),
		zap.Int("reference_rows", stats.Rows))
	return nil
}

// Run watches the directories holding both files until ctx is done.
func (r *Reloader) Run(ctx context.Context) error {
	run, err := r.Watch()
	if err != nil {
		return err
	}
	return run(ctx)
}

// Watch registers the directories holding both files and returns the event loop,
// which runs until ctx is done. Setup failures are reported here rather than from
// the loop. Watching directories rather than files keeps working when editors
// replace a file on save. The caller must call run to release the watcher.
func (r *Reloader) Watch() (run func(ctx context.Context) error, err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	dirs := map[string]bool{filepath.Dir(r.referencePath): true, filepath.Dir(r.modelPath): true}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	r.logger.Info("watching for pipeline changes",
		zap.String("reference", r.referencePath),
		zap.String("model", r.modelPath))
	return func(ctx context.Context) error {
		defer w.Close()
		return r.loop(ctx, w)
	}, nil
}

func (r *Reloader) loop(ctx context.Context, w *fsnotify.Watcher) error {
	// Saves arrive as bursts of events; reload once the burst settles.
	timer := time.NewTimer(r.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)
			if name != r.referencePath && name != r.modelPath {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				timer.Reset(r.debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("watcher error", zap.Error(err))
		case <-timer.C:
			_ = r.Reload()
		}
	}
}
