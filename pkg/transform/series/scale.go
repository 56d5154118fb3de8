package series

import (
	"math"

	"github.com/tsweave/tsweave/pkg/errors"
	"github.com/tsweave/tsweave/pkg/frame"
	"github.com/tsweave/tsweave/pkg/transform"
)

func init() {
	transform.MustRegister("scaler", func(params map[string]interface{}) (transform.Transformer, error) {
		withMean, err := boolParam(params, "with_mean", true)
		if err != nil {
			return nil, err
		}
		withStd, err := boolParam(params, "with_std", true)
		if err != nil {
			return nil, err
		}
		return &StandardScaler{WithMean: withMean, WithStd: withStd}, nil
	})
}

// runningStats accumulates count, mean and sum of squared deviations per
// column (Welford), so fitted parameters can be updated with new data
// without re-fitting.
type runningStats struct {
	count float64
	mean  float64
	m2    float64
}

func (r *runningStats) observe(v float64) {
	if math.IsNaN(v) {
		return
	}
	r.count++
	delta := v - r.mean
	r.mean += delta / r.count
	r.m2 += delta * (v - r.mean)
}

func (r *runningStats) std() float64 {
	if r.count < 2 {
		return 0
	}
	return math.Sqrt(r.m2 / (r.count - 1))
}

// StandardScaler standardizes each column to zero mean and unit variance.
// A column with zero variance is centered only. The scaler supports
// incremental update with new observations.
type StandardScaler struct {
	WithMean bool
	WithStd  bool

	stats map[string]*runningStats
}

// NewStandardScaler creates a scaler that centers and scales.
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{WithMean: true, WithStd: true}
}

// Clone returns an unfitted copy.
func (s *StandardScaler) Clone() transform.Transformer {
	return &StandardScaler{WithMean: s.WithMean, WithStd: s.WithStd}
}

// Tags declares the scaler's behavior.
func (s *StandardScaler) Tags() transform.Tags {
	return transform.Tags{
		transform.TagFitIsEmpty:     false,
		transform.TagSameTimeIndex:  true,
		transform.TagHandlesMissing: true,
		transform.TagInverse:        true,
		transform.TagOutputKind:     "series",
	}
}

// Fit computes per-column mean and standard deviation. Missing values are
// ignored.
func (s *StandardScaler) Fit(X *frame.Frame, y *frame.Frame) error {
	stats := make(map[string]*runningStats, X.NumColumns())
	for _, name := range X.Columns() {
		col, err := X.Column(name)
		if err != nil {
			return err
		}
		rs := &runningStats{}
		for _, v := range col.Values() {
			rs.observe(v)
		}
		if rs.count == 0 {
			return errors.Newf(errors.ErrorTypeData, "column %q has no observed values", name)
		}
		stats[name] = rs
	}
	s.stats = stats
	return nil
}

// Transform standardizes every fitted column of X.
func (s *StandardScaler) Transform(X *frame.Frame, y *frame.Frame) (*frame.Frame, error) {
	return s.apply(X, func(rs *runningStats, v float64) float64 {
		if s.WithMean {
			v -= rs.mean
		}
		if s.WithStd {
			if std := rs.std(); std > 0 {
				v /= std
			}
		}
		return v
	})
}

// InverseTransform restores the original scale.
func (s *StandardScaler) InverseTransform(X *frame.Frame, y *frame.Frame) (*frame.Frame, error) {
	return s.apply(X, func(rs *runningStats, v float64) float64 {
		if s.WithStd {
			if std := rs.std(); std > 0 {
				v *= std
			}
		}
		if s.WithMean {
			v += rs.mean
		}
		return v
	})
}

// Update folds new observations into the fitted statistics. When
// updateParams is false the data is accepted but the parameters stay
// frozen.
func (s *StandardScaler) Update(X frame.Data, y *frame.Frame, updateParams bool) error {
	if s.stats == nil {
		return errors.New(errors.ErrorTypeNotFitted, "scaler has not been fitted")
	}
	if !updateParams {
		return nil
	}
	z := X.AsFrame()
	for _, name := range z.Columns() {
		rs, ok := s.stats[name]
		if !ok {
			return errors.Newf(errors.ErrorTypeMissingColumns, "column %q was not seen at fit time", name).
				WithDetail("missing", []string{name})
		}
		col, err := z.Column(name)
		if err != nil {
			return err
		}
		for _, v := range col.Values() {
			rs.observe(v)
		}
	}
	return nil
}

// Mean returns the fitted mean for a column.
func (s *StandardScaler) Mean(column string) (float64, bool) {
	rs, ok := s.stats[column]
	if !ok {
		return 0, false
	}
	return rs.mean, true
}

// Std returns the fitted standard deviation for a column.
func (s *StandardScaler) Std(column string) (float64, bool) {
	rs, ok := s.stats[column]
	if !ok {
		return 0, false
	}
	return rs.std(), true
}

func (s *StandardScaler) apply(X *frame.Frame, fn func(*runningStats, float64) float64) (*frame.Frame, error) {
	if s.stats == nil {
		return nil, errors.New(errors.ErrorTypeNotFitted, "scaler has not been fitted")
	}
	out := frame.New(X.Index())
	for _, name := range X.Columns() {
		rs, ok := s.stats[name]
		if !ok {
			return nil, errors.Newf(errors.ErrorTypeMissingColumns, "column %q was not seen at fit time", name).
				WithDetail("missing", []string{name})
		}
		col, err := X.Column(name)
		if err != nil {
			return nil, err
		}
		values := make([]float64, col.Len())
		for i, v := range col.Values() {
			values[i] = fn(rs, v)
		}
		if err := out.AddColumn(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}
