package compose

import (
	"github.com/tsweave/tsweave/pkg/errors"
	"github.com/tsweave/tsweave/pkg/frame"
)

// checkColumns validates that every required column is present in f. The
// returned error names the exact missing set.
func checkColumns(f *frame.Frame, required []string) error {
	if missing := f.MissingColumns(required); len(missing) > 0 {
		return errors.Newf(errors.ErrorTypeMissingColumns, "missing columns %v", missing).
			WithDetail("missing", missing)
	}
	return nil
}
