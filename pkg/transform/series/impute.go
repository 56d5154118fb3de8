package series

import (
	"math"

	"github.com/tsweave/tsweave/pkg/errors"
	"github.com/tsweave/tsweave/pkg/frame"
	"github.com/tsweave/tsweave/pkg/transform"
)

func init() {
	transform.MustRegister("imputer", func(params map[string]interface{}) (transform.Transformer, error) {
		return NewMeanImputer(), nil
	})
}

// MeanImputer replaces missing values (NaN) with the per-column mean
// observed at fit time.
type MeanImputer struct {
	means map[string]float64
}

// NewMeanImputer creates an unfitted mean imputer.
func NewMeanImputer() *MeanImputer {
	return &MeanImputer{}
}

// Clone returns an unfitted copy.
func (m *MeanImputer) Clone() transform.Transformer {
	return NewMeanImputer()
}

// Tags declares the imputer's behavior.
func (m *MeanImputer) Tags() transform.Tags {
	return transform.Tags{
		transform.TagFitIsEmpty:     false,
		transform.TagSameTimeIndex:  true,
		transform.TagHandlesMissing: true,
		transform.TagRemovesMissing: true,
		transform.TagOutputKind:     "series",
	}
}

// Fit records the mean of the observed values per column.
func (m *MeanImputer) Fit(X *frame.Frame, y *frame.Frame) error {
	means := make(map[string]float64, X.NumColumns())
	for _, name := range X.Columns() {
		col, err := X.Column(name)
		if err != nil {
			return err
		}
		var sum float64
		var n int
		for _, v := range col.Values() {
			if !math.IsNaN(v) {
				sum += v
				n++
			}
		}
		if n == 0 {
			return errors.Newf(errors.ErrorTypeData, "column %q has no observed values to impute from", name)
		}
		means[name] = sum / float64(n)
	}
	m.means = means
	return nil
}

// Transform replaces every missing value with its column's fitted mean.
func (m *MeanImputer) Transform(X *frame.Frame, y *frame.Frame) (*frame.Frame, error) {
	if m.means == nil {
		return nil, errors.New(errors.ErrorTypeNotFitted, "imputer has not been fitted")
	}
	out := frame.New(X.Index())
	for _, name := range X.Columns() {
		mean, ok := m.means[name]
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
			if math.IsNaN(v) {
				values[i] = mean
			} else {
				values[i] = v
			}
		}
		if err := out.AddColumn(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}
