// Package frame provides the in-memory table model for tsweave: ordered,
// named float64 series over a shared time index, with selection by name or
// position and column-wise concatenation.
package frame

import (
	"time"

	"github.com/tsweave/tsweave/pkg/errors"
)

// Data is the union of inputs accepted by operations that take either a
// whole table or a bare series. A bare series is normalized to its
// single-column frame.
type Data interface {
	AsFrame() *Frame
}

// Frame is a 2D table: named columns over a shared row (time) index.
// Column order is the insertion order and is deterministic.
type Frame struct {
	index []time.Time
	names []string
	cols  map[string]*Series
}

// New creates an empty frame over the given time index.
func New(index []time.Time) *Frame {
	return &Frame{
		index: index,
		cols:  make(map[string]*Series),
	}
}

// RangeIndex returns a deterministic index of n rows spaced one second
// apart, starting at the Unix epoch. Used when input data carries no
// explicit time column.
func RangeIndex(n int) []time.Time {
	index := make([]time.Time, n)
	for i := range index {
		index[i] = time.Unix(int64(i), 0).UTC()
	}
	return index
}

// AsFrame implements the Data interface.
func (f *Frame) AsFrame() *Frame { return f }

// NumRows returns the number of rows.
func (f *Frame) NumRows() int { return len(f.index) }

// NumColumns returns the number of columns.
func (f *Frame) NumColumns() int { return len(f.names) }

// Index returns the row index. Callers must not modify it.
func (f *Frame) Index() []time.Time { return f.index }

// Columns returns the column names in column order.
func (f *Frame) Columns() []string {
	names := make([]string, len(f.names))
	copy(names, f.names)
	return names
}

// HasColumn reports whether a column with the given name exists.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Column returns the series stored under name.
func (f *Frame) Column(name string) (*Series, error) {
	s, ok := f.cols[name]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeMissingColumns, "column %q not present", name).
			WithDetail("missing", []string{name})
	}
	return s, nil
}

// ColumnAt returns the series at position i in column order.
func (f *Frame) ColumnAt(i int) (*Series, error) {
	if i < 0 || i >= len(f.names) {
		return nil, errors.Newf(errors.ErrorTypeSelector, "column position %d out of range [0, %d)", i, len(f.names))
	}
	return f.cols[f.names[i]], nil
}

// AddColumn appends a new column. The values must match the frame's row
// count and the name must not already exist.
func (f *Frame) AddColumn(name string, values []float64) error {
	if _, exists := f.cols[name]; exists {
		return errors.Newf(errors.ErrorTypeValidation, "column %q already exists", name)
	}
	if len(values) != len(f.index) {
		return errors.Newf(errors.ErrorTypeData, "column %q has %d values, frame has %d rows", name, len(values), len(f.index))
	}
	f.names = append(f.names, name)
	f.cols[name] = &Series{name: name, index: f.index, values: values}
	return nil
}

// SetColumn replaces the values of an existing column, or appends the
// column if it does not exist.
func (f *Frame) SetColumn(name string, values []float64) error {
	if len(values) != len(f.index) {
		return errors.Newf(errors.ErrorTypeData, "column %q has %d values, frame has %d rows", name, len(values), len(f.index))
	}
	if _, exists := f.cols[name]; !exists {
		f.names = append(f.names, name)
	}
	f.cols[name] = &Series{name: name, index: f.index, values: values}
	return nil
}

// Select returns a frame containing the named columns, in the given order.
// The returned frame shares the index and value storage with the receiver.
func (f *Frame) Select(names ...string) (*Frame, error) {
	if missing := f.MissingColumns(names); len(missing) > 0 {
		return nil, missingColumnsError(missing)
	}
	out := New(f.index)
	for _, name := range names {
		out.names = append(out.names, name)
		out.cols[name] = f.cols[name]
	}
	return out, nil
}

// MissingColumns returns the set difference required-minus-present, in the
// order of required. An empty result means all columns are present.
func (f *Frame) MissingColumns(required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := f.cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// Copy returns a deep copy of the frame. Transform operations work on a
// copy so caller data is never mutated.
func (f *Frame) Copy() *Frame {
	out := New(f.index)
	for _, name := range f.names {
		out.names = append(out.names, name)
		out.cols[name] = f.cols[name].Copy()
	}
	return out
}

// ConcatColumns concatenates frames side-by-side over an identical row
// index. Column names must be unique across all inputs.
func ConcatColumns(frames ...*Frame) (*Frame, error) {
	if len(frames) == 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "no frames to concatenate")
	}
	base := frames[0]
	out := New(base.index)
	for _, f := range frames {
		if !sameIndex(base.index, f.index) {
			return nil, errors.New(errors.ErrorTypeData, "cannot concatenate frames with differing row indexes")
		}
		for _, name := range f.names {
			if _, exists := out.cols[name]; exists {
				return nil, errors.Newf(errors.ErrorTypeData, "duplicate column %q in concatenation", name)
			}
			out.names = append(out.names, name)
			out.cols[name] = f.cols[name]
		}
	}
	return out, nil
}

func sameIndex(a, b []time.Time) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func missingColumnsError(missing []string) *errors.Error {
	return errors.Newf(errors.ErrorTypeMissingColumns, "missing columns %v", missing).
		WithDetail("missing", missing)
}
