package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsweave/tsweave/pkg/frame"
	"github.com/tsweave/tsweave/pkg/transform"
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

func TestExponent_Transform(t *testing.T) {
	X := newTestFrame(t, []string{"a", "b"},
		[]float64{1, 2, 3}, []float64{4, 5, 6})

	e := NewExponent(2)
	out, err := transform.FitTransform(e, X, nil)
	require.NoError(t, err)

	a, _ := out.Column("a")
	b, _ := out.Column("b")
	assert.Equal(t, []float64{1, 4, 9}, a.Values())
	assert.Equal(t, []float64{16, 25, 36}, b.Values())
}

func TestExponent_RoundTrip(t *testing.T) {
	X := newTestFrame(t, []string{"a"}, []float64{1, 8, 27})

	e := NewExponent(3)
	out, err := transform.FitTransform(e, X, nil)
	require.NoError(t, err)
	back, err := e.InverseTransform(out, nil)
	require.NoError(t, err)

	col, _ := back.Column("a")
	for i, want := range []float64{1, 8, 27} {
		assert.InDelta(t, want, col.At(i), 1e-9)
	}
}

func TestExponent_ZeroPower(t *testing.T) {
	X := newTestFrame(t, []string{"a"}, []float64{1})

	e := NewExponent(0)
	require.Error(t, e.Fit(X, nil))
}

func TestExponent_Tags(t *testing.T) {
	assert.True(t, NewExponent(1).Tags().Bool(transform.TagSkipInverse),
		"power one is the identity")
	assert.False(t, NewExponent(2).Tags().Bool(transform.TagSkipInverse))
}

func TestExponent_Factory(t *testing.T) {
	tr, err := transform.Create("exponent", map[string]interface{}{"power": 3})
	require.NoError(t, err)
	assert.Equal(t, float64(3), tr.(*Exponent).Power)

	t.Run("default power", func(t *testing.T) {
		tr, err := transform.Create("exponent", nil)
		require.NoError(t, err)
		assert.Equal(t, float64(2), tr.(*Exponent).Power)
	})

	t.Run("bad parameter type", func(t *testing.T) {
		_, err := transform.Create("exponent", map[string]interface{}{"power": "high"})
		require.Error(t, err)
	})
}
