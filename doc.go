// Package tsweave provides columnwise composition for time series
// transformation estimators: wrappers that route or broadcast a transformer
// over the columns of a tabular frame while keeping independent fitted state
// per column group.
//
// # Composition Wrappers
//
// Two wrappers cover the common shapes of per-column work:
//
// 1. Column ensemble (compose.ColumnEnsemble): routes disjoint column groups
// to distinct transformers, each fitted on its own column slice, and
// concatenates the outputs in the input column order. Groups may also drop
// their columns or pass them through untouched.
//
// 2. Columnwise broadcast (compose.Columnwise): clones a single template
// transformer per target column and writes each transformed column back in
// place, leaving non-target columns untouched.
//
// # Quick Start
//
// Square two columns of a frame and leave the rest alone:
//
//	import (
//	    "github.com/tsweave/tsweave/pkg/compose"
//	    "github.com/tsweave/tsweave/pkg/frame"
//	    "github.com/tsweave/tsweave/pkg/transform"
//	    "github.com/tsweave/tsweave/pkg/transform/series"
//	)
//
//	X := frame.New(frame.RangeIndex(3))
//	_ = X.AddColumn("a", []float64{1, 2, 3})
//	_ = X.AddColumn("b", []float64{4, 5, 6})
//
//	cw := compose.NewColumnwise(series.NewExponent(2), []string{"a", "b"})
//	out, err := transform.FitTransform(cw, X, nil)
//
// Configured pipelines run the same wrappers from YAML or JSON via the
// tsweave CLI; see internal/pipeline and cmd/tsweave.
//
// # Key Packages
//
//	pkg/frame      - In-memory column-major frame with a time row index
//	pkg/transform  - Transformer contract, capability tags, factory registry
//	pkg/compose    - Column ensemble and columnwise broadcast wrappers
//	pkg/config     - YAML/JSON pipeline configuration with env substitution
//	pkg/errors     - Structured errors with types and details
//	pkg/logger     - Zap-based structured logging
package tsweave
