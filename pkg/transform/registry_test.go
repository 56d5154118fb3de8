package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsweave/tsweave/pkg/errors"
	"github.com/tsweave/tsweave/pkg/frame"
)

type nopTransformer struct{}

func (nopTransformer) Clone() Transformer { return nopTransformer{} }
func (nopTransformer) Tags() Tags         { return Tags{TagFitIsEmpty: true} }
func (nopTransformer) Fit(X *frame.Frame, y *frame.Frame) error {
	return nil
}
func (nopTransformer) Transform(X *frame.Frame, y *frame.Frame) (*frame.Frame, error) {
	return X.Copy(), nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	factory := func(params map[string]interface{}) (Transformer, error) {
		return nopTransformer{}, nil
	}

	require.NoError(t, r.Register("nop", factory))

	t.Run("duplicate name rejected", func(t *testing.T) {
		err := r.Register("nop", factory)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	})

	t.Run("create", func(t *testing.T) {
		tr, err := r.Create("nop", nil)
		require.NoError(t, err)
		assert.IsType(t, nopTransformer{}, tr)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := r.Create("bogus", nil)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	})

	t.Run("factory error wrapped", func(t *testing.T) {
		require.NoError(t, r.Register("broken", func(params map[string]interface{}) (Transformer, error) {
			return nil, errors.New(errors.ErrorTypeValidation, "bad params")
		}))
		_, err := r.Create("broken", nil)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
		assert.Contains(t, err.Error(), "bad params")
	})

	t.Run("names", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"nop", "broken"}, r.Names())
	})
}

func TestMustRegister(t *testing.T) {
	factory := func(params map[string]interface{}) (Transformer, error) {
		return nopTransformer{}, nil
	}

	MustRegister("nop-global", factory)

	tr, err := Create("nop-global", nil)
	require.NoError(t, err)
	assert.IsType(t, nopTransformer{}, tr)

	assert.Panics(t, func() { MustRegister("nop-global", factory) },
		"duplicate registration must not be swallowed")
}

func TestFitTransform(t *testing.T) {
	f := frame.New(frame.RangeIndex(2))
	require.NoError(t, f.AddColumn("a", []float64{1, 2}))

	out, err := FitTransform(nopTransformer{}, f, nil)
	require.NoError(t, err)
	require.NotSame(t, f, out)

	col, err := out.Column("a")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, col.Values())
}
