package compose

import (
	"github.com/tsweave/tsweave/pkg/errors"
	"github.com/tsweave/tsweave/pkg/frame"
	"github.com/tsweave/tsweave/pkg/transform"
)

// columnwiseClonedTags are the tags a Columnwise inherits verbatim from
// its template at construction time.
var columnwiseClonedTags = []string{
	transform.TagYInput,
	transform.TagInverse,
	transform.TagHandlesMissing,
	transform.TagAlignedIndex,
	transform.TagSameTimeIndex,
	transform.TagSkipInverse,
}

// Columnwise applies clones of a single transformer to each target column
// of a frame independently, writing results back into the same positions.
// Non-target columns pass through untouched.
//
// The target column set is fixed at first fit (the explicit list, or all
// input columns when none was given) and reused for every subsequent
// operation until re-fit.
type Columnwise struct {
	template transform.Transformer
	columns  []string // nil means all columns, resolved at fit time

	tags transform.Tags

	// fitted state
	fittedColumns []string
	clones        map[string]transform.Transformer
}

// UpdatableColumnwise is the Columnwise variant returned when the template
// declares the update capability. It adds Update; nothing else differs.
type UpdatableColumnwise struct {
	*Columnwise
}

// NewColumnwise constructs a columnwise broadcaster around a template
// transformer. columns selects the target columns by name; nil targets all
// input columns, resolved at fit time.
//
// The returned value implements transform.Updatable exactly when template
// does; callers discover the capability by interface assertion.
func NewColumnwise(template transform.Transformer, columns []string) transform.Transformer {
	tags := transform.Tags{
		transform.TagOutputKind:    "series",
		transform.TagFitIsEmpty:    false,
		transform.TagSameTimeIndex: true,
	}
	tags.CloneFrom(template.Tags(), columnwiseClonedTags...)

	cw := &Columnwise{
		template: template,
		columns:  columns,
		tags:     tags,
	}
	if _, ok := template.(transform.Updatable); ok {
		return &UpdatableColumnwise{Columnwise: cw}
	}
	return cw
}

// Clone returns a fresh unfitted broadcaster with the same template
// configuration and target columns.
func (c *Columnwise) Clone() transform.Transformer {
	var columns []string
	if c.columns != nil {
		columns = make([]string, len(c.columns))
		copy(columns, c.columns)
	}
	return NewColumnwise(c.template.Clone(), columns)
}

// Tags returns the broadcaster's derived tag set.
func (c *Columnwise) Tags() transform.Tags { return c.tags }

// Columns returns the configured target columns; nil means all.
func (c *Columnwise) Columns() []string { return c.columns }

// FittedColumns returns the resolved target columns. Empty before fit.
func (c *Columnwise) FittedColumns() []string { return c.fittedColumns }

// Fitted returns the fitted clone for a target column.
func (c *Columnwise) Fitted(column string) (transform.Transformer, bool) {
	t, ok := c.clones[column]
	return t, ok
}

// Fit resolves the target columns, clones the template once per column and
// fits each clone on its single column. Re-fitting wholly replaces fitted
// state.
func (c *Columnwise) Fit(X *frame.Frame, y *frame.Frame) error {
	if err := c.validateColumns(); err != nil {
		return err
	}

	columns := c.columns
	if columns == nil {
		columns = X.Columns()
	}
	if err := checkColumns(X, columns); err != nil {
		return err
	}

	clones := make(map[string]transform.Transformer, len(columns))
	for _, name := range columns {
		col, err := X.Column(name)
		if err != nil {
			return err
		}
		clone := c.template.Clone()
		if err := clone.Fit(col.AsFrame(), y); err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "fitting column "+name)
		}
		clones[name] = clone
	}

	c.fittedColumns = columns
	c.clones = clones
	return nil
}

// Transform applies each column's fitted clone to that column on a copy of
// the input. Non-target columns are returned unchanged.
func (c *Columnwise) Transform(X *frame.Frame, y *frame.Frame) (*frame.Frame, error) {
	return c.apply(X, y, func(t transform.Transformer, col *frame.Frame) (*frame.Frame, error) {
		return t.Transform(col, y)
	})
}

// InverseTransform reverses the transformation column by column. It fails
// with a capability error when the template does not declare an inverse.
func (c *Columnwise) InverseTransform(X *frame.Frame, y *frame.Frame) (*frame.Frame, error) {
	if _, ok := c.template.(transform.InverseTransformer); !ok {
		return nil, errors.New(errors.ErrorTypeCapability, "template transformer does not support inverse transformation")
	}
	if c.tags.Bool(transform.TagSkipInverse) {
		return X.Copy(), nil
	}
	return c.apply(X, y, func(t transform.Transformer, col *frame.Frame) (*frame.Frame, error) {
		return t.(transform.InverseTransformer).InverseTransform(col, y)
	})
}

// apply runs op per target column against a copy of X and writes each
// single-column result back in place.
func (c *Columnwise) apply(X *frame.Frame, y *frame.Frame, op func(transform.Transformer, *frame.Frame) (*frame.Frame, error)) (*frame.Frame, error) {
	if c.clones == nil {
		return nil, errors.New(errors.ErrorTypeNotFitted, "columnwise transformer has not been fitted")
	}

	Xt := X.Copy()
	if err := checkColumns(Xt, c.fittedColumns); err != nil {
		return nil, err
	}

	for _, name := range c.fittedColumns {
		col, err := Xt.Column(name)
		if err != nil {
			return nil, err
		}
		out, err := op(c.clones[name], col.AsFrame())
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "transforming column "+name)
		}
		if out.NumColumns() != 1 {
			return nil, errors.Newf(errors.ErrorTypeData, "transformer returned %d columns for column %q, want 1", out.NumColumns(), name)
		}
		result, err := out.ColumnAt(0)
		if err != nil {
			return nil, err
		}
		if err := Xt.SetColumn(name, result.Values()); err != nil {
			return nil, err
		}
	}
	return Xt, nil
}

// validateColumns rejects malformed explicit column lists.
func (c *Columnwise) validateColumns() error {
	if c.columns == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(c.columns))
	for _, name := range c.columns {
		if name == "" {
			return errors.New(errors.ErrorTypeConfig, "columns must be a list of non-empty names or nil")
		}
		if _, dup := seen[name]; dup {
			return errors.Newf(errors.ErrorTypeConfig, "duplicate target column %q", name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

// Update incorporates new data into each column's fitted clone. A bare
// series input is normalized to its single-column frame first.
//
// Each per-column update receives the full original input, not the
// per-column slice, as its auxiliary argument.
func (u *UpdatableColumnwise) Update(X frame.Data, y *frame.Frame, updateParams bool) error {
	if u.clones == nil {
		return errors.New(errors.ErrorTypeNotFitted, "columnwise transformer has not been fitted")
	}

	z := X.AsFrame()
	if err := checkColumns(z, u.fittedColumns); err != nil {
		return err
	}

	for _, name := range u.fittedColumns {
		col, err := z.Column(name)
		if err != nil {
			return err
		}
		clone, ok := u.clones[name].(transform.Updatable)
		if !ok {
			return errors.New(errors.ErrorTypeCapability, "fitted clone for column "+name+" does not support update")
		}
		if err := clone.Update(col, X.AsFrame(), updateParams); err != nil {
			return errors.Wrap(err, errors.ErrorTypeData, "updating column "+name)
		}
	}
	return nil
}
