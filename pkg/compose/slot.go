// Package compose provides columnwise composition of transformers: the
// ColumnEnsemble router applies distinct transformers to column groups and
// recombines their outputs, the Columnwise broadcaster applies clones of a
// single transformer to each target column in place.
package compose

import (
	"github.com/tsweave/tsweave/pkg/transform"
)

// SlotKind discriminates what occupies a group's estimator slot.
type SlotKind int

const (
	// SlotEstimator holds a real transformer.
	SlotEstimator SlotKind = iota
	// SlotDrop excludes the group's columns from the output.
	SlotDrop
	// SlotPassthrough forwards the group's columns unchanged.
	SlotPassthrough
)

// Slot is a tagged variant over {estimator, drop, passthrough}. Drop and
// passthrough are routing policy, not transformers, so they get their own
// variants instead of sentinel estimator values.
type Slot struct {
	kind SlotKind
	est  transform.Transformer
}

// Use wraps a transformer in an estimator slot.
func Use(t transform.Transformer) Slot {
	return Slot{kind: SlotEstimator, est: t}
}

// Drop returns the slot that excludes its group's columns from the output.
func Drop() Slot {
	return Slot{kind: SlotDrop}
}

// Passthrough returns the slot that forwards its group's columns unchanged.
func Passthrough() Slot {
	return Slot{kind: SlotPassthrough}
}

// Kind returns the slot variant.
func (s Slot) Kind() SlotKind { return s.kind }

// Estimator returns the wrapped transformer; nil unless Kind is
// SlotEstimator.
func (s Slot) Estimator() transform.Transformer { return s.est }
