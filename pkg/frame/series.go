package frame

import (
	"math"
	"time"
)

// Series is a single named time series: float64 values over a shared time
// index. Missing values are represented as NaN.
type Series struct {
	name   string
	index  []time.Time
	values []float64
}

// NewSeries creates a series over the given index. The index and values must
// have equal length.
func NewSeries(name string, index []time.Time, values []float64) *Series {
	if len(index) != len(values) {
		panic("frame: series index and values length mismatch")
	}
	return &Series{name: name, index: index, values: values}
}

// Name returns the series name.
func (s *Series) Name() string { return s.name }

// Len returns the number of observations.
func (s *Series) Len() int { return len(s.values) }

// Index returns the underlying time index. Callers must not modify it.
func (s *Series) Index() []time.Time { return s.index }

// Values returns the underlying value slice. Callers must not modify it;
// use Copy for a mutable series.
func (s *Series) Values() []float64 { return s.values }

// At returns the value at position i.
func (s *Series) At(i int) float64 { return s.values[i] }

// Rename returns a series with the same index and values under a new name.
func (s *Series) Rename(name string) *Series {
	return &Series{name: name, index: s.index, values: s.values}
}

// Copy returns a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.values))
	copy(values, s.values)
	return &Series{name: s.name, index: s.index, values: values}
}

// IsMissing reports whether the value at position i is missing (NaN).
func (s *Series) IsMissing(i int) bool { return math.IsNaN(s.values[i]) }

// AsFrame returns a single-column frame holding this series, implementing
// the Data interface.
func (s *Series) AsFrame() *Frame {
	f := New(s.index)
	f.names = append(f.names, s.name)
	f.cols[s.name] = s
	return f
}
