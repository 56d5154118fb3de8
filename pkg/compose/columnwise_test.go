package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsweave/tsweave/pkg/errors"
	"github.com/tsweave/tsweave/pkg/frame"
	"github.com/tsweave/tsweave/pkg/transform"
	"github.com/tsweave/tsweave/pkg/transform/series"
)

func newTestFrame(t *testing.T, names []string, cols ...[]float64) *frame.Frame {
	t.Helper()
	require.Equal(t, len(names), len(cols))
	f := frame.New(frame.RangeIndex(len(cols[0])))
	for i, name := range names {
		require.NoError(t, f.AddColumn(name, cols[i]))
	}
	return f
}

// recordingUpdater captures the arguments of its Update calls so tests can
// assert what auxiliary context each per-column clone receives.
type recordingUpdater struct {
	updatedColumn string
	updatedAux    *frame.Frame
}

func (r *recordingUpdater) Clone() transform.Transformer { return &recordingUpdater{} }

func (r *recordingUpdater) Fit(X *frame.Frame, y *frame.Frame) error { return nil }

func (r *recordingUpdater) Transform(X *frame.Frame, y *frame.Frame) (*frame.Frame, error) {
	return X.Copy(), nil
}

func (r *recordingUpdater) Tags() transform.Tags { return transform.Tags{} }

func (r *recordingUpdater) Update(X frame.Data, y *frame.Frame, updateParams bool) error {
	cols := X.AsFrame().Columns()
	if len(cols) > 0 {
		r.updatedColumn = cols[0]
	}
	r.updatedAux = y
	return nil
}

func asColumnwise(t *testing.T, tr transform.Transformer) *Columnwise {
	t.Helper()
	switch c := tr.(type) {
	case *Columnwise:
		return c
	case *UpdatableColumnwise:
		return c.Columnwise
	default:
		t.Fatalf("unexpected transformer type %T", tr)
		return nil
	}
}

func TestColumnwise_FitResolvesAllColumns(t *testing.T) {
	X := newTestFrame(t, []string{"a", "b", "c"},
		[]float64{1, 2}, []float64{3, 4}, []float64{5, 6})

	cw := NewColumnwise(series.NewExponent(2), nil)
	require.NoError(t, cw.Fit(X, nil))

	assert.Equal(t, []string{"a", "b", "c"}, asColumnwise(t, cw).FittedColumns())
}

func TestColumnwise_TransformTargetsOnly(t *testing.T) {
	X := newTestFrame(t, []string{"x", "y", "z"},
		[]float64{1, 2, 3}, []float64{10, 20, 30}, []float64{4, 5, 6})

	t.Run("identity power leaves everything exact", func(t *testing.T) {
		cw := NewColumnwise(series.NewExponent(1), []string{"x", "z"})
		out, err := transform.FitTransform(cw, X, nil)
		require.NoError(t, err)

		for _, name := range []string{"x", "y", "z"} {
			want, err := X.Column(name)
			require.NoError(t, err)
			got, err := out.Column(name)
			require.NoError(t, err)
			assert.Equal(t, want.Values(), got.Values(), "column %s", name)
		}
	})

	t.Run("non-target columns untouched", func(t *testing.T) {
		cw := NewColumnwise(series.NewExponent(2), []string{"x", "z"})
		out, err := transform.FitTransform(cw, X, nil)
		require.NoError(t, err)

		x, _ := out.Column("x")
		y, _ := out.Column("y")
		z, _ := out.Column("z")
		assert.Equal(t, []float64{1, 4, 9}, x.Values())
		assert.Equal(t, []float64{10, 20, 30}, y.Values())
		assert.Equal(t, []float64{16, 25, 36}, z.Values())
	})
}

func TestColumnwise_TransformNeverMutatesInput(t *testing.T) {
	X := newTestFrame(t, []string{"x"}, []float64{2, 3})

	cw := NewColumnwise(series.NewExponent(2), nil)
	_, err := transform.FitTransform(cw, X, nil)
	require.NoError(t, err)

	col, err := X.Column("x")
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, col.Values())
}

func TestColumnwise_RowIndexPreserved(t *testing.T) {
	X := newTestFrame(t, []string{"x", "y"}, []float64{1, 2, 3}, []float64{4, 5, 6})

	cw := NewColumnwise(series.NewExponent(2), nil)
	out, err := transform.FitTransform(cw, X, nil)
	require.NoError(t, err)

	assert.Equal(t, X.Index(), out.Index())
	assert.Equal(t, X.NumColumns(), out.NumColumns())
}

func TestColumnwise_DistinctClonesPerColumn(t *testing.T) {
	X := newTestFrame(t, []string{"a", "b"},
		[]float64{1, 2, 3}, []float64{100, 200, 300})

	template := series.NewStandardScaler()
	cw := NewColumnwise(template, nil)
	require.NoError(t, cw.Fit(X, nil))

	fittedA, ok := asColumnwise(t, cw).Fitted("a")
	require.True(t, ok)
	fittedB, ok := asColumnwise(t, cw).Fitted("b")
	require.True(t, ok)

	scalerA := fittedA.(*series.StandardScaler)
	scalerB := fittedB.(*series.StandardScaler)

	meanA, ok := scalerA.Mean("a")
	require.True(t, ok)
	meanB, ok := scalerB.Mean("b")
	require.True(t, ok)
	assert.InDelta(t, 2, meanA, 1e-12)
	assert.InDelta(t, 200, meanB, 1e-12)

	// mutating one clone's fitted state must not leak anywhere
	extra := frame.New(frame.RangeIndex(2))
	require.NoError(t, extra.AddColumn("a", []float64{1000, 2000}))
	require.NoError(t, scalerA.Update(extra, nil, true))

	meanB2, _ := scalerB.Mean("b")
	assert.Equal(t, meanB, meanB2, "other column's clone must be unaffected")
	_, templateFitted := template.Mean("a")
	assert.False(t, templateFitted, "template must stay unfitted")
}

func TestColumnwise_MissingColumnErrors(t *testing.T) {
	X := newTestFrame(t, []string{"x"}, []float64{1, 2})

	t.Run("at fit", func(t *testing.T) {
		cw := NewColumnwise(series.NewExponent(2), []string{"x", "q"})
		err := cw.Fit(X, nil)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeMissingColumns))
		assert.Contains(t, err.Error(), "q")
	})

	t.Run("at transform", func(t *testing.T) {
		cw := NewColumnwise(series.NewExponent(2), nil)
		require.NoError(t, cw.Fit(X, nil))

		other := newTestFrame(t, []string{"w"}, []float64{1, 2})
		_, err := cw.Transform(other, nil)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeMissingColumns))
		assert.Contains(t, err.Error(), "x")
	})
}

func TestColumnwise_ConfigValidation(t *testing.T) {
	X := newTestFrame(t, []string{"x"}, []float64{1})

	tests := []struct {
		name    string
		columns []string
	}{
		{name: "empty column name", columns: []string{"x", ""}},
		{name: "duplicate column name", columns: []string{"x", "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cw := NewColumnwise(series.NewExponent(2), tt.columns)
			err := cw.Fit(X, nil)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
		})
	}
}

func TestColumnwise_InverseTransform(t *testing.T) {
	X := newTestFrame(t, []string{"x", "y"},
		[]float64{1, 2, 3}, []float64{4, 5, 6})

	t.Run("round trip", func(t *testing.T) {
		cw := NewColumnwise(series.NewExponent(3), nil)
		out, err := transform.FitTransform(cw, X, nil)
		require.NoError(t, err)

		back, err := cw.(*Columnwise).InverseTransform(out, nil)
		require.NoError(t, err)
		for _, name := range []string{"x", "y"} {
			want, _ := X.Column(name)
			got, _ := back.Column(name)
			for i := range want.Values() {
				assert.InDelta(t, want.At(i), got.At(i), 1e-9)
			}
		}
	})

	t.Run("capability absent", func(t *testing.T) {
		cw := NewColumnwise(series.NewMeanImputer(), nil)
		require.NoError(t, cw.Fit(X, nil))

		_, err := cw.(*Columnwise).InverseTransform(X, nil)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeCapability))
	})
}

func TestColumnwise_UpdateCapability(t *testing.T) {
	t.Run("absent when template is not updatable", func(t *testing.T) {
		cw := NewColumnwise(series.NewExponent(2), nil)
		_, ok := cw.(transform.Updatable)
		assert.False(t, ok, "non-updatable template must not expose Update")
	})

	t.Run("present when template is updatable", func(t *testing.T) {
		cw := NewColumnwise(series.NewStandardScaler(), nil)
		_, ok := cw.(transform.Updatable)
		assert.True(t, ok)
	})
}

func TestColumnwise_Update(t *testing.T) {
	X := newTestFrame(t, []string{"a"}, []float64{1, 2, 3})

	cw := NewColumnwise(series.NewStandardScaler(), nil)
	require.NoError(t, cw.Fit(X, nil))

	updatable, ok := cw.(transform.Updatable)
	require.True(t, ok)

	t.Run("bare series input is normalized", func(t *testing.T) {
		s := frame.NewSeries("a", frame.RangeIndex(2), []float64{4, 5})
		require.NoError(t, updatable.Update(s, nil, true))

		fitted, ok := asColumnwise(t, cw).Fitted("a")
		require.True(t, ok)
		mean, ok := fitted.(*series.StandardScaler).Mean("a")
		require.True(t, ok)
		assert.InDelta(t, 3, mean, 1e-12) // mean of 1,2,3,4,5
	})

	t.Run("missing columns rejected", func(t *testing.T) {
		s := frame.NewSeries("other", frame.RangeIndex(1), []float64{0})
		err := updatable.Update(s, nil, true)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeMissingColumns))
		assert.Contains(t, err.Error(), "a")
	})
}

// Documents current behavior: every per-column update receives the full
// original input as its auxiliary argument, not that column's slice.
func TestColumnwise_UpdateAuxiliaryContext(t *testing.T) {
	X := newTestFrame(t, []string{"a", "b"},
		[]float64{1, 2}, []float64{3, 4})

	cw := NewColumnwise(&recordingUpdater{}, nil)
	require.NoError(t, cw.Fit(X, nil))

	updatable, ok := cw.(transform.Updatable)
	require.True(t, ok)
	require.NoError(t, updatable.Update(X, nil, true))

	for _, name := range []string{"a", "b"} {
		fitted, ok := asColumnwise(t, cw).Fitted(name)
		require.True(t, ok)
		rec := fitted.(*recordingUpdater)

		assert.Equal(t, name, rec.updatedColumn, "clone sees its own column as data")
		require.NotNil(t, rec.updatedAux)
		assert.Equal(t, []string{"a", "b"}, rec.updatedAux.Columns(),
			"clone receives the whole original input as auxiliary context")
	}
}

func TestColumnwise_NotFitted(t *testing.T) {
	X := newTestFrame(t, []string{"x"}, []float64{1})

	cw := NewColumnwise(series.NewExponent(2), nil)
	_, err := cw.Transform(X, nil)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFitted))
}

func TestColumnwise_RefitReplacesState(t *testing.T) {
	X1 := newTestFrame(t, []string{"a", "b"}, []float64{1, 2}, []float64{3, 4})
	X2 := newTestFrame(t, []string{"c"}, []float64{5, 6})

	cw := NewColumnwise(series.NewExponent(2), nil)
	require.NoError(t, cw.Fit(X1, nil))
	require.NoError(t, cw.Fit(X2, nil))

	assert.Equal(t, []string{"c"}, asColumnwise(t, cw).FittedColumns())
	_, ok := asColumnwise(t, cw).Fitted("a")
	assert.False(t, ok, "re-fit must wholly replace fitted state")
}

func TestColumnwise_Tags(t *testing.T) {
	t.Run("clones capability tags from template", func(t *testing.T) {
		cw := NewColumnwise(series.NewExponent(2), nil)
		assert.True(t, cw.Tags().Bool(transform.TagInverse))
		assert.True(t, cw.Tags().Bool(transform.TagHandlesMissing))
	})

	t.Run("skip-inverse template short-circuits inverse", func(t *testing.T) {
		X := newTestFrame(t, []string{"x"}, []float64{2, 3})

		cw := NewColumnwise(series.NewExponent(1), nil)
		require.True(t, cw.Tags().Bool(transform.TagSkipInverse))
		require.NoError(t, cw.Fit(X, nil))

		out, err := cw.(*Columnwise).InverseTransform(X, nil)
		require.NoError(t, err)
		col, _ := out.Column("x")
		assert.Equal(t, []float64{2, 3}, col.Values())
	})
}

func TestColumnwise_Clone(t *testing.T) {
	X := newTestFrame(t, []string{"x"}, []float64{1, 2})

	cw := NewColumnwise(series.NewStandardScaler(), []string{"x"})
	require.NoError(t, cw.Fit(X, nil))

	clone := cw.Clone()
	_, ok := clone.(transform.Updatable)
	assert.True(t, ok, "clone keeps the updatable wrapper")
	assert.Empty(t, asColumnwise(t, clone).FittedColumns(), "clone is unfitted")
	assert.Equal(t, []string{"x"}, asColumnwise(t, clone).Columns())
}
