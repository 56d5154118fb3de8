package series

import (
	"github.com/tsweave/tsweave/pkg/errors"
)

// floatParam reads a numeric parameter from a factory parameter map,
// accepting the numeric types YAML and JSON decoders produce.
func floatParam(params map[string]interface{}, key string, def float64) (float64, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	default:
		return 0, errors.Newf(errors.ErrorTypeConfig, "parameter %q must be numeric, got %T", key, v)
	}
}

// boolParam reads a boolean parameter from a factory parameter map.
func boolParam(params map[string]interface{}, key string, def bool) (bool, error) {
	v, ok := params[key]
	if !ok {
		return def, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, errors.Newf(errors.ErrorTypeConfig, "parameter %q must be boolean, got %T", key, v)
	}
	return b, nil
}
