package frame

import (
	"strconv"

	"github.com/tsweave/tsweave/pkg/errors"
)

// selectorKind discriminates the selector variants.
type selectorKind int

const (
	selectorName selectorKind = iota
	selectorNames
	selectorPos
	selectorPositions
)

// Selector identifies a subset of a frame's columns by name, position, or a
// collection of either. Selectors are resolved against a concrete frame at
// fit and transform time; resolution order is deterministic.
type Selector struct {
	kind      selectorKind
	name      string
	names     []string
	pos       int
	positions []int
}

// ByName selects a single column by name.
func ByName(name string) Selector {
	return Selector{kind: selectorName, name: name}
}

// ByNames selects columns by name, in the given order.
func ByNames(names ...string) Selector {
	return Selector{kind: selectorNames, names: names}
}

// ByPos selects a single column by position. A position outside the frame's
// range falls back to the column literally named after the integer, if one
// exists.
func ByPos(pos int) Selector {
	return Selector{kind: selectorPos, pos: pos}
}

// ByPositions selects columns by position, in the given order. Each
// position falls back like ByPos.
func ByPositions(positions ...int) Selector {
	return Selector{kind: selectorPositions, positions: positions}
}

// Resolve maps the selector to concrete column names present in f. The
// result is non-empty; an unresolvable selector is an error.
func (s Selector) Resolve(f *Frame) ([]string, error) {
	switch s.kind {
	case selectorName:
		if !f.HasColumn(s.name) {
			return nil, missingColumnsError([]string{s.name})
		}
		return []string{s.name}, nil
	case selectorNames:
		if len(s.names) == 0 {
			return nil, errors.New(errors.ErrorTypeSelector, "empty column selector")
		}
		if missing := f.MissingColumns(s.names); len(missing) > 0 {
			return nil, missingColumnsError(missing)
		}
		out := make([]string, len(s.names))
		copy(out, s.names)
		return out, nil
	case selectorPos:
		name, err := resolvePos(f, s.pos)
		if err != nil {
			return nil, err
		}
		return []string{name}, nil
	case selectorPositions:
		if len(s.positions) == 0 {
			return nil, errors.New(errors.ErrorTypeSelector, "empty column selector")
		}
		out := make([]string, 0, len(s.positions))
		for _, pos := range s.positions {
			name, err := resolvePos(f, pos)
			if err != nil {
				return nil, err
			}
			out = append(out, name)
		}
		return out, nil
	default:
		return nil, errors.New(errors.ErrorTypeSelector, "unknown selector kind")
	}
}

func resolvePos(f *Frame, pos int) (string, error) {
	if pos >= 0 && pos < f.NumColumns() {
		return f.names[pos], nil
	}
	// Literal fallback: an integer outside the positional range may name a
	// column directly.
	literal := strconv.Itoa(pos)
	if f.HasColumn(literal) {
		return literal, nil
	}
	return "", errors.Newf(errors.ErrorTypeSelector, "position %d resolves to no column (%d columns present)", pos, f.NumColumns())
}
