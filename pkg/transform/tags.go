package transform

// Tag names. A tag is a declared behavioral property of an estimator,
// queried by composites to derive their own declared behavior.
const (
	// TagFitIsEmpty marks estimators whose Fit learns nothing.
	TagFitIsEmpty = "fit_is_empty"
	// TagRequiresY marks estimators that need auxiliary data to fit.
	TagRequiresY = "requires_y"
	// TagAlignedIndex marks estimators requiring X and y on the same index.
	TagAlignedIndex = "requires_aligned_index"
	// TagSameTimeIndex marks estimators whose output keeps the input index.
	TagSameTimeIndex = "returns_same_time_index"
	// TagUnequalLength marks estimators accepting unequal-length panels.
	TagUnequalLength = "handles_unequal_length"
	// TagUnequalLengthRemoves marks estimators whose output is guaranteed
	// equal-length.
	TagUnequalLengthRemoves = "removes_unequal_length"
	// TagHandlesMissing marks estimators that accept missing values.
	TagHandlesMissing = "handles_missing"
	// TagRemovesMissing marks estimators whose output is guaranteed free of
	// missing values.
	TagRemovesMissing = "removes_missing"
	// TagOutputKind declares the output shape ("series" or "primitives").
	TagOutputKind = "transform_output"
	// TagLabelKind declares the label output shape, if any.
	TagLabelKind = "transform_labels"
	// TagInverse marks estimators declaring an inverse transformation.
	TagInverse = "inverse_transform"
	// TagSkipInverse marks estimators whose inverse is the identity.
	TagSkipInverse = "skip_inverse_transform"
	// TagYInput declares the auxiliary input kind accepted by fit.
	TagYInput = "y_input"
)

// Tags maps tag names to declared values.
type Tags map[string]interface{}

// Clone returns a copy of the tag set.
func (t Tags) Clone() Tags {
	out := make(Tags, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Bool returns the tag value as a boolean; absent or non-boolean tags
// read as false.
func (t Tags) Bool(name string) bool {
	v, ok := t[name].(bool)
	return ok && v
}

// CloneFrom copies the named tags from src into t. Tags absent from src
// are left untouched.
func (t Tags) CloneFrom(src Tags, names ...string) {
	for _, name := range names {
		if v, ok := src[name]; ok {
			t[name] = v
		}
	}
}

// Strategy selects how a combine rule aggregates children's tag values.
type Strategy int

const (
	// StrategyAny triggers when any child declares the trigger value.
	StrategyAny Strategy = iota
	// StrategyAll triggers only when every child declares the trigger value.
	StrategyAll
	// StrategyFirst clones the first child's value verbatim.
	StrategyFirst
)

// CombineRule describes how a composite derives one tag from its children:
// when Strategy matches Trigger across the children's tag sets, the
// composite's tag is set to Result, otherwise to Fallback. StrategyFirst
// ignores Trigger/Result/Fallback and copies the first child's value.
type CombineRule struct {
	Tag      string
	Trigger  interface{}
	Result   interface{}
	Fallback interface{}
	Strategy Strategy
}

// Combine applies the rules over the children's tag sets and writes the
// derived values into dst.
func Combine(dst Tags, children []Tags, rules []CombineRule) {
	for _, rule := range rules {
		switch rule.Strategy {
		case StrategyFirst:
			if len(children) > 0 {
				if v, ok := children[0][rule.Tag]; ok {
					dst[rule.Tag] = v
				}
			}
		case StrategyAll:
			all := len(children) > 0
			for _, child := range children {
				if child[rule.Tag] != rule.Trigger {
					all = false
					break
				}
			}
			if all {
				dst[rule.Tag] = rule.Result
			} else {
				dst[rule.Tag] = rule.Fallback
			}
		default: // StrategyAny
			triggered := false
			for _, child := range children {
				if child[rule.Tag] == rule.Trigger {
					triggered = true
					break
				}
			}
			if triggered {
				dst[rule.Tag] = rule.Result
			} else {
				dst[rule.Tag] = rule.Fallback
			}
		}
	}
}
