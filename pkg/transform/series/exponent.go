// Package series provides concrete univariate transformers operating
// columnwise over frames: exponentiation, least-squares detrending,
// standard scaling, and mean imputation. All of them accept multivariate
// frames and treat each column independently, so they compose with both
// the columnwise broadcaster and the column ensemble.
package series

import (
	"math"

	"github.com/tsweave/tsweave/pkg/errors"
	"github.com/tsweave/tsweave/pkg/frame"
	"github.com/tsweave/tsweave/pkg/transform"
)

func init() {
	transform.MustRegister("exponent", func(params map[string]interface{}) (transform.Transformer, error) {
		power, err := floatParam(params, "power", 2)
		if err != nil {
			return nil, err
		}
		return NewExponent(power), nil
	})
}

// Exponent raises every value to a fixed power. With power 1 it is the
// identity and declares the skip-inverse tag.
type Exponent struct {
	Power float64
}

// NewExponent creates an exponent transformer with the given power. A zero
// power is rejected lazily at fit time since it has no inverse.
func NewExponent(power float64) *Exponent {
	return &Exponent{Power: power}
}

// Clone returns an unfitted copy.
func (e *Exponent) Clone() transform.Transformer {
	return &Exponent{Power: e.Power}
}

// Tags declares the exponent transformer's behavior.
func (e *Exponent) Tags() transform.Tags {
	return transform.Tags{
		transform.TagFitIsEmpty:     true,
		transform.TagSameTimeIndex:  true,
		transform.TagHandlesMissing: true,
		transform.TagInverse:        true,
		transform.TagSkipInverse:    e.Power == 1,
		transform.TagOutputKind:     "series",
	}
}

// Fit validates the power; nothing is learned.
func (e *Exponent) Fit(X *frame.Frame, y *frame.Frame) error {
	if e.Power == 0 {
		return errors.New(errors.ErrorTypeValidation, "exponent power must be non-zero")
	}
	return nil
}

// Transform raises every value to the configured power.
func (e *Exponent) Transform(X *frame.Frame, y *frame.Frame) (*frame.Frame, error) {
	return e.mapValues(X, func(v float64) float64 { return math.Pow(v, e.Power) })
}

// InverseTransform raises every value to the reciprocal power.
func (e *Exponent) InverseTransform(X *frame.Frame, y *frame.Frame) (*frame.Frame, error) {
	if e.Power == 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "exponent power must be non-zero")
	}
	return e.mapValues(X, func(v float64) float64 { return math.Pow(v, 1/e.Power) })
}

func (e *Exponent) mapValues(X *frame.Frame, fn func(float64) float64) (*frame.Frame, error) {
	out := frame.New(X.Index())
	for _, name := range X.Columns() {
		col, err := X.Column(name)
		if err != nil {
			return nil, err
		}
		values := make([]float64, col.Len())
		for i, v := range col.Values() {
			values[i] = fn(v)
		}
		if err := out.AddColumn(name, values); err != nil {
			return nil, err
		}
	}
	return out, nil
}
