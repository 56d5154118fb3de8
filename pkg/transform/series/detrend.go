package series

import (
	"gonum.org/v1/gonum/stat"

	"github.com/tsweave/tsweave/pkg/errors"
	"github.com/tsweave/tsweave/pkg/frame"
	"github.com/tsweave/tsweave/pkg/transform"
)

func init() {
	transform.MustRegister("detrend", func(params map[string]interface{}) (transform.Transformer, error) {
		return NewDetrend(), nil
	})
}

// linearTrend is a least-squares line fitted to one column over row
// positions.
type linearTrend struct {
	alpha float64
	beta  float64
}

// Detrend removes a per-column least-squares linear trend. The trend is
// estimated over row positions at fit time; inverse transformation adds it
// back.
type Detrend struct {
	trends map[string]linearTrend
}

// NewDetrend creates an unfitted detrender.
func NewDetrend() *Detrend {
	return &Detrend{}
}

// Clone returns an unfitted copy.
func (d *Detrend) Clone() transform.Transformer {
	return NewDetrend()
}

// Tags declares the detrender's behavior.
func (d *Detrend) Tags() transform.Tags {
	return transform.Tags{
		transform.TagFitIsEmpty:    false,
		transform.TagSameTimeIndex: true,
		transform.TagInverse:       true,
		transform.TagOutputKind:    "series",
	}
}

// Fit estimates a least-squares line per column.
func (d *Detrend) Fit(X *frame.Frame, y *frame.Frame) error {
	if X.NumRows() < 2 {
		return errors.New(errors.ErrorTypeData, "detrend requires at least two rows")
	}
	xs := make([]float64, X.NumRows())
	for i := range xs {
		xs[i] = float64(i)
	}

	trends := make(map[string]linearTrend, X.NumColumns())
	for _, name := range X.Columns() {
		col, err := X.Column(name)
		if err != nil {
			return err
		}
		alpha, beta := stat.LinearRegression(xs, col.Values(), nil, false)
		trends[name] = linearTrend{alpha: alpha, beta: beta}
	}
	d.trends = trends
	return nil
}

// Transform subtracts each column's fitted trend.
func (d *Detrend) Transform(X *frame.Frame, y *frame.Frame) (*frame.Frame, error) {
	return d.apply(X, func(t linearTrend, i int, v float64) float64 {
		return v - (t.alpha + t.beta*float64(i))
	})
}

// InverseTransform adds each column's fitted trend back.
func (d *Detrend) InverseTransform(X *frame.Frame, y *frame.Frame) (*frame.Frame, error) {
	return d.apply(X, func(t linearTrend, i int, v float64) float64 {
		return v + (t.alpha + t.beta*float64(i))
	})
}

func (d *Detrend) apply(X *frame.Frame, fn func(linearTrend, int, float64) float64) (*frame.Frame, error) {
	if d.trends == nil {
		return nil, errors.New(errors.ErrorTypeNotFitted, "detrend has not been fitted")
	}
	out := frame.New(X.Index())
	for _, name := range X.Columns() {
		trend, ok := d.trends[name]
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
			values[i] = fn(trend, i, v)
		}
		if err := out.AddColumn(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}
