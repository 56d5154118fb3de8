package pipeline

import (
	"github.com/tsweave/tsweave/pkg/compose"
	"github.com/tsweave/tsweave/pkg/config"
	"github.com/tsweave/tsweave/pkg/errors"
	"github.com/tsweave/tsweave/pkg/frame"
	"github.com/tsweave/tsweave/pkg/transform"
)

// BuildTransformer constructs the transformer for one configured stage.
func BuildTransformer(tc config.TransformConfig) (transform.Transformer, error) {
	switch tc.Kind {
	case "columnwise":
		template, err := transform.Create(tc.Type, tc.Params)
		if err != nil {
			return nil, err
		}
		var columns []string
		if len(tc.Columns) > 0 {
			columns = tc.Columns
		}
		return compose.NewColumnwise(template, columns), nil

	case "ensemble":
		if len(tc.Groups) == 0 {
			template, err := transform.Create(tc.Type, tc.Params)
			if err != nil {
				return nil, err
			}
			ensemble := compose.NewColumnEnsemble(template)
			ensemble.AllowOverlap = tc.AllowOverlap
			return ensemble, nil
		}
		groups := make([]compose.Group, 0, len(tc.Groups))
		for _, gc := range tc.Groups {
			group, err := buildGroup(gc)
			if err != nil {
				return nil, err
			}
			groups = append(groups, group)
		}
		ensemble, err := compose.NewColumnEnsembleGroups(groups)
		if err != nil {
			return nil, err
		}
		ensemble.AllowOverlap = tc.AllowOverlap
		return ensemble, nil

	default:
		return transform.Create(tc.Type, tc.Params)
	}
}

func buildGroup(gc config.GroupConfig) (compose.Group, error) {
	var slot compose.Slot
	switch gc.Type {
	case "drop":
		slot = compose.Drop()
	case "passthrough":
		slot = compose.Passthrough()
	default:
		est, err := transform.Create(gc.Type, gc.Params)
		if err != nil {
			return compose.Group{}, err
		}
		slot = compose.Use(est)
	}

	var selector frame.Selector
	switch {
	case len(gc.Columns) > 0:
		selector = frame.ByNames(gc.Columns...)
	case len(gc.Positions) > 0:
		selector = frame.ByPositions(gc.Positions...)
	default:
		return compose.Group{}, errors.Newf(errors.ErrorTypeConfig, "group %q selects no columns", gc.Name)
	}

	return compose.Group{Name: gc.Name, Slot: slot, Selector: selector}, nil
}
