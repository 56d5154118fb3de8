package compose

import (
	"sort"

	"github.com/tsweave/tsweave/pkg/errors"
	"github.com/tsweave/tsweave/pkg/frame"
	"github.com/tsweave/tsweave/pkg/transform"
)

// Group is one named (slot, selector) pairing within a ColumnEnsemble.
type Group struct {
	Name     string
	Slot     Slot
	Selector frame.Selector
}

// ensembleTemplateTags are the tags a single-template ensemble inherits
// verbatim from its template. The group-list combination rules below use a
// different, narrower set.
var ensembleTemplateTags = []string{
	transform.TagFitIsEmpty,
	transform.TagRequiresY,
	transform.TagAlignedIndex,
	transform.TagSameTimeIndex,
	transform.TagUnequalLength,
	transform.TagUnequalLengthRemoves,
	transform.TagHandlesMissing,
	transform.TagRemovesMissing,
	transform.TagOutputKind,
	transform.TagLabelKind,
}

// ensembleCombineRules derive a group-list ensemble's boolean tags from its
// children: each tag has a fixed trigger value that, when declared by any
// child, decides the composite's value. The two output-shape tags are
// cloned verbatim from the first group's estimator; group consistency for
// those is assumed, not checked.
var ensembleCombineRules = []transform.CombineRule{
	{Tag: transform.TagFitIsEmpty, Trigger: false, Result: false, Fallback: true, Strategy: transform.StrategyAny},
	{Tag: transform.TagRequiresY, Trigger: true, Result: true, Fallback: false, Strategy: transform.StrategyAny},
	{Tag: transform.TagAlignedIndex, Trigger: true, Result: true, Fallback: false, Strategy: transform.StrategyAny},
	{Tag: transform.TagSameTimeIndex, Trigger: false, Result: false, Fallback: true, Strategy: transform.StrategyAny},
	{Tag: transform.TagUnequalLength, Trigger: false, Result: false, Fallback: true, Strategy: transform.StrategyAny},
	{Tag: transform.TagUnequalLengthRemoves, Trigger: false, Result: false, Fallback: true, Strategy: transform.StrategyAny},
	{Tag: transform.TagHandlesMissing, Trigger: false, Result: false, Fallback: true, Strategy: transform.StrategyAny},
	{Tag: transform.TagRemovesMissing, Trigger: false, Result: false, Fallback: true, Strategy: transform.StrategyAny},
	{Tag: transform.TagOutputKind, Strategy: transform.StrategyFirst},
	{Tag: transform.TagLabelKind, Strategy: transform.StrategyFirst},
}

// ColumnEnsemble routes column groups to distinct transformers and
// concatenates their outputs column-wise. Output columns follow the input
// column order recorded at fit time, not raw group order.
//
// Columns not covered by any group are not included in the output; no
// implicit remainder group is synthesized. Covering all desired columns is
// the caller's responsibility.
type ColumnEnsemble struct {
	template transform.Transformer // single-template mode, nil otherwise
	groups   []Group

	// AllowOverlap permits a column to be referenced by more than one
	// group. Off by default; overlapping groups are a fit-time error.
	AllowOverlap bool

	tags transform.Tags

	// fitted state
	inputColumns []string
	fitted       []fittedGroup
}

// fittedGroup parallels Group with the estimator replaced by its fitted
// clone. Immutable until re-fit.
type fittedGroup struct {
	name     string
	slot     Slot
	selector frame.Selector
}

// NewColumnEnsemble constructs an ensemble that applies clones of a single
// template to all input columns as one group.
func NewColumnEnsemble(template transform.Transformer) *ColumnEnsemble {
	tags := baseEnsembleTags()
	tags.CloneFrom(template.Tags(), ensembleTemplateTags...)
	return &ColumnEnsemble{template: template, tags: tags}
}

// NewColumnEnsembleGroups constructs an ensemble from an ordered list of
// named groups. Group names must be unique and non-empty.
func NewColumnEnsembleGroups(groups []Group) (*ColumnEnsemble, error) {
	if len(groups) == 0 {
		return nil, errors.New(errors.ErrorTypeValidation, "ensemble requires at least one group")
	}
	seen := make(map[string]struct{}, len(groups))
	for _, g := range groups {
		if g.Name == "" {
			return nil, errors.New(errors.ErrorTypeValidation, "group name must not be empty")
		}
		if _, dup := seen[g.Name]; dup {
			return nil, errors.Newf(errors.ErrorTypeValidation, "duplicate group name %q", g.Name)
		}
		if g.Slot.Kind() == SlotEstimator && g.Slot.Estimator() == nil {
			return nil, errors.Newf(errors.ErrorTypeValidation, "group %q has no transformer", g.Name)
		}
		seen[g.Name] = struct{}{}
	}

	tags := baseEnsembleTags()
	var children []transform.Tags
	for _, g := range groups {
		if g.Slot.Kind() == SlotEstimator {
			children = append(children, g.Slot.Estimator().Tags())
		}
	}
	transform.Combine(tags, children, ensembleCombineRules)

	return &ColumnEnsemble{groups: groups, tags: tags}, nil
}

func baseEnsembleTags() transform.Tags {
	return transform.Tags{
		transform.TagFitIsEmpty:     false,
		transform.TagUnequalLength:  true,
		transform.TagHandlesMissing: true,
	}
}

// Clone returns a fresh unfitted ensemble with the same configuration.
func (e *ColumnEnsemble) Clone() transform.Transformer {
	if e.template != nil {
		clone := NewColumnEnsemble(e.template.Clone())
		clone.AllowOverlap = e.AllowOverlap
		return clone
	}
	groups := make([]Group, len(e.groups))
	for i, g := range e.groups {
		slot := g.Slot
		if slot.Kind() == SlotEstimator {
			slot = Use(slot.Estimator().Clone())
		}
		groups[i] = Group{Name: g.Name, Slot: slot, Selector: g.Selector}
	}
	clone, err := NewColumnEnsembleGroups(groups)
	if err != nil {
		// construction was already validated once
		panic(err)
	}
	clone.AllowOverlap = e.AllowOverlap
	return clone
}

// Tags returns the ensemble's derived tag set.
func (e *ColumnEnsemble) Tags() transform.Tags { return e.tags }

// InputColumns returns the input column order recorded at fit time.
func (e *ColumnEnsemble) InputColumns() []string { return e.inputColumns }

// Fitted returns the fitted transformer for a group name.
func (e *ColumnEnsemble) Fitted(name string) (transform.Transformer, bool) {
	for _, fg := range e.fitted {
		if fg.name == name && fg.slot.Kind() == SlotEstimator {
			return fg.slot.Estimator(), true
		}
	}
	return nil, false
}

// Fit validates the grouping against X, records the input column order,
// and clone-fits each group's estimator on its selected columns.
func (e *ColumnEnsemble) Fit(X *frame.Frame, y *frame.Frame) error {
	groups := e.workingGroups(X)

	resolved := make([][]string, len(groups))
	for i, g := range groups {
		cols, err := g.Selector.Resolve(X)
		if err != nil {
			return errors.Wrap(err, errors.ErrorTypeSelector, "resolving selector for group "+g.Name)
		}
		resolved[i] = cols
	}

	if !e.AllowOverlap {
		owner := make(map[string]string)
		for i, g := range groups {
			for _, col := range resolved[i] {
				if prev, taken := owner[col]; taken {
					return errors.Newf(errors.ErrorTypeValidation,
						"column %q referenced by groups %q and %q; overlapping groups are not allowed", col, prev, g.Name)
				}
				owner[col] = g.Name
			}
		}
	}

	fitted := make([]fittedGroup, 0, len(groups))
	for i, g := range groups {
		slot := g.Slot
		if slot.Kind() == SlotEstimator {
			sub, err := X.Select(resolved[i]...)
			if err != nil {
				return err
			}
			clone := g.Slot.Estimator().Clone()
			if err := clone.Fit(sub, y); err != nil {
				return errors.Wrap(err, errors.ErrorTypeData, "fitting group "+g.Name)
			}
			slot = Use(clone)
		}
		fitted = append(fitted, fittedGroup{name: g.Name, slot: slot, selector: g.Selector})
	}

	e.inputColumns = X.Columns()
	e.fitted = fitted
	return nil
}

// Transform applies each fitted group to its re-resolved columns and
// concatenates the outputs side-by-side, reordered to follow the input
// column order recorded at fit time. The row index is preserved.
func (e *ColumnEnsemble) Transform(X *frame.Frame, y *frame.Frame) (*frame.Frame, error) {
	if e.fitted == nil {
		return nil, errors.New(errors.ErrorTypeNotFitted, "column ensemble has not been fitted")
	}

	type groupOutput struct {
		name string
		out  *frame.Frame
		cols []string
	}

	outputs := make([]groupOutput, 0, len(e.fitted))
	for _, fg := range e.fitted {
		cols, err := fg.selector.Resolve(X)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeSelector, "resolving selector for group "+fg.name)
		}
		switch fg.slot.Kind() {
		case SlotDrop:
			continue
		case SlotPassthrough:
			sub, err := X.Select(cols...)
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, groupOutput{name: fg.name, out: sub, cols: cols})
		default:
			sub, err := X.Select(cols...)
			if err != nil {
				return nil, err
			}
			out, err := fg.slot.Estimator().Transform(sub, y)
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeData, "transforming group "+fg.name)
			}
			outputs = append(outputs, groupOutput{name: fg.name, out: out, cols: cols})
		}
	}

	// Reorder group outputs by the fit-time position of their first
	// selected column; stable, so overlapping groups keep group order.
	position := make(map[string]int, len(e.inputColumns))
	for i, name := range e.inputColumns {
		position[name] = i
	}
	rank := func(cols []string) int {
		r := len(position)
		for _, c := range cols {
			if p, ok := position[c]; ok && p < r {
				r = p
			}
		}
		return r
	}
	sort.SliceStable(outputs, func(i, j int) bool {
		return rank(outputs[i].cols) < rank(outputs[j].cols)
	})

	// Assemble, qualifying duplicate output names with the group name.
	result := frame.New(X.Index())
	used := make(map[string]struct{})
	for _, g := range outputs {
		for _, name := range g.out.Columns() {
			col, err := g.out.Column(name)
			if err != nil {
				return nil, err
			}
			final := name
			if _, taken := used[final]; taken {
				final = g.name + "__" + name
			}
			used[final] = struct{}{}
			if err := result.SetColumn(final, col.Values()); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

// workingGroups expands single-template mode into one implicit group
// spanning all input columns.
func (e *ColumnEnsemble) workingGroups(X *frame.Frame) []Group {
	if e.template == nil {
		return e.groups
	}
	return []Group{{
		Name:     "template",
		Slot:     Use(e.template),
		Selector: frame.ByNames(X.Columns()...),
	}}
}
