// Package transform defines the estimator abstraction shared by all tsweave
// transformers: the fit/transform lifecycle, optional capability interfaces,
// the tag system, and a factory registry for config-driven construction.
package transform

import (
	"github.com/tsweave/tsweave/pkg/frame"
)

// Transformer is the core estimator contract. Implementations are created
// unfitted; Fit performs validation and learns state, Transform consumes
// it. Re-fitting wholly replaces fitted state.
//
// Clone returns a fresh unfitted copy with identical configuration,
// structurally independent of the original: mutating the clone's fitted
// state never affects the source instance.
type Transformer interface {
	Clone() Transformer
	Fit(X *frame.Frame, y *frame.Frame) error
	Transform(X *frame.Frame, y *frame.Frame) (*frame.Frame, error)
	Tags() Tags
}

// InverseTransformer is the optional capability of reversing a
// transformation. Composites only expose inverse transformation when their
// wrapped estimators implement it.
type InverseTransformer interface {
	Transformer
	InverseTransform(X *frame.Frame, y *frame.Frame) (*frame.Frame, error)
}

// Updatable is the optional capability of incorporating new data into an
// already-fitted estimator. Composites only implement Update when their
// wrapped template does; callers discover the capability by interface
// assertion.
type Updatable interface {
	Transformer
	Update(X frame.Data, y *frame.Frame, updateParams bool) error
}

// FitTransform fits t on X and y, then transforms the same input.
func FitTransform(t Transformer, X *frame.Frame, y *frame.Frame) (*frame.Frame, error) {
	if err := t.Fit(X, y); err != nil {
		return nil, err
	}
	return t.Transform(X, y)
}
