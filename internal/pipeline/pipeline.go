package pipeline

import (
	"context"

	"go.uber.org/zap"

	"github.com/tsweave/tsweave/pkg/config"
	"github.com/tsweave/tsweave/pkg/errors"
	"github.com/tsweave/tsweave/pkg/logger"
	"github.com/tsweave/tsweave/pkg/metrics"
	"github.com/tsweave/tsweave/pkg/transform"
)

// Runner executes one configured pipeline: source, transform stages in
// order, sink.
type Runner struct {
	cfg    *config.PipelineConfig
	logger *zap.Logger
}

// NewRunner creates a runner for a validated configuration.
func NewRunner(cfg *config.PipelineConfig) (*Runner, error) {
	if cfg == nil {
		return nil, errors.New(errors.ErrorTypeConfig, "configuration cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Runner{
		cfg:    cfg,
		logger: logger.Get().With(zap.String("pipeline", cfg.Name)),
	}, nil
}

// Run loads the source frame, fit-transforms every stage in order and
// writes the result to the sink. The context is checked between stages.
func (r *Runner) Run(ctx context.Context) error {
	f, err := ReadCSV(r.cfg.Source)
	if err != nil {
		metrics.PipelineRuns.WithLabelValues(r.cfg.Name, "error").Inc()
		return err
	}
	r.logger.Info("source loaded",
		zap.String("path", r.cfg.Source.Path),
		zap.Int("rows", f.NumRows()),
		zap.Int("columns", f.NumColumns()))
	metrics.RowsProcessed.WithLabelValues(r.cfg.Name).Add(float64(f.NumRows()))

	for _, tc := range r.cfg.Transforms {
		if err := ctx.Err(); err != nil {
			metrics.PipelineRuns.WithLabelValues(r.cfg.Name, "canceled").Inc()
			return errors.Wrap(err, errors.ErrorTypeInternal, "pipeline canceled")
		}

		t, err := BuildTransformer(tc)
		if err != nil {
			metrics.PipelineRuns.WithLabelValues(r.cfg.Name, "error").Inc()
			return err
		}

		timer := metrics.NewTimer(r.cfg.Name, tc.Name)
		out, err := transform.FitTransform(t, f, nil)
		elapsed := timer.Stop()
		if err != nil {
			metrics.PipelineRuns.WithLabelValues(r.cfg.Name, "error").Inc()
			return errors.Wrap(err, errors.ErrorTypeData, "stage "+tc.Name)
		}

		metrics.ColumnsTransformed.WithLabelValues(r.cfg.Name, tc.Name).Add(float64(out.NumColumns()))
		r.logger.Info("stage applied",
			zap.String("stage", tc.Name),
			zap.Int("columns", out.NumColumns()),
			zap.Duration("elapsed", elapsed))
		f = out
	}

	if err := WriteFrame(f, r.cfg.Sink, r.cfg.Source.TimeLayout); err != nil {
		metrics.PipelineRuns.WithLabelValues(r.cfg.Name, "error").Inc()
		return err
	}

	metrics.PipelineRuns.WithLabelValues(r.cfg.Name, "success").Inc()
	r.logger.Info("sink written",
		zap.String("path", r.cfg.Sink.Path),
		zap.Int("rows", f.NumRows()),
		zap.Int("columns", f.NumColumns()))
	return nil
}
