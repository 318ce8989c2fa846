package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rajashekharkeesari/Telcom-churn-prediction/internal/app"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/internal/watch"
	"github.com/rajashekharkeesari/Telcom-churn-prediction/pkg/pipeline"
)

const maxLineBytes = 1 << 20

// streamResult is one output line. Exactly one of Outcome and Error is set.
type streamResult struct {
	Line      int    `json:"line"`
	RequestID string `json:"request_id"`
	*app.Outcome
	ConfidenceText string `json:"confidence_text,omitempty"`
	Error          string `json:"error,omitempty"`
	Stage          string `json:"stage,omitempty"`
	Field          string `json:"field,omitempty"`
}

func (c *cli) streamCmd() *cobra.Command {
	var watchFiles bool
	cmd := &cobra.Command{
		Use:   "stream",
		Short: "Score newline-delimited JSON records from stdin",
		Long: `Reads one JSON object per line from stdin and writes one JSON result per line
to stdout. A rejected record produces an error line and does not stop the stream.

With --watch (or watch_reference in the config) the reference dataset and the
classifier artifact are reloaded when either changes on disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := c.service(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			g, gctx := errgroup.WithContext(ctx)
			if watchFiles || c.cfg.WatchReference {
				reloader := watch.NewReloader(c.cfg.ReferencePath, c.cfg.ModelPath, svc.Holder(), c.logger)
				run, err := reloader.Watch()
				if err != nil {
					return err
				}
				g.Go(func() error { return run(gctx) })
			}

			var faults int
			g.Go(func() error {
				defer cancel()
				n, err := c.scoreLines(gctx, cmd, svc)
				faults = n
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}
			if faults > 0 {
				return fmt.Errorf("%d records failed with internal errors", faults)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&watchFiles, "watch", false, "reload reference and model when they change")
	return cmd
}

// scoreLines runs every stdin line through svc and reports how many failed for
// reasons other than the record itself.
func (c *cli) scoreLines(ctx context.Context, cmd *cobra.Command, svc *app.Service) (int, error) {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	enc := json.NewEncoder(cmd.OutOrStdout())

	faults, line := 0, 0
	for scanner.Scan() {
		line++
		if ctx.Err() != nil {
			return faults, ctx.Err()
		}
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		res := streamResult{Line: line, RequestID: uuid.NewString()}

		fields, err := decodeFields(raw)
		if err != nil {
			res.Error = err.Error()
			res.Stage = string(pipeline.StageCoerce)
		} else if out, err := svc.Predict(ctx, fields); err != nil {
			if !pipeline.IsUserError(err) {
				faults++
			}
			res.Error = app.UserMessage(err)
			res.Stage = string(pipeline.ErrorStage(err))
			if se := stageErr(err); se != nil {
				res.Field = se.Field
			}
		} else {
			res.Outcome = &out
			res.ConfidenceText = out.ConfidenceText()
		}

		c.logger.Debug("stream record", zap.Int("line", line), zap.String("request_id", res.RequestID), zap.Bool("ok", res.Error == ""))
		if err := enc.Encode(res); err != nil {
			return faults, fmt.Errorf("write result: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return faults, fmt.Errorf("read records: %w", err)
	}
	return faults, nil
}

func stageErr(err error) *pipeline.StageError {
	var se *pipeline.StageError
	if errors.As(err, &se) {
		return se
	}
	return nil
}
