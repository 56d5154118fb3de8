// Package pipeline implements the config-driven batch runner: a CSV source
// is loaded into a frame, the configured transform stages are fit and
// applied in order, and the result is written to a CSV or Arrow sink.
package pipeline

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/tsweave/tsweave/pkg/config"
	"github.com/tsweave/tsweave/pkg/errors"
	"github.com/tsweave/tsweave/pkg/frame"
)

// missing value markers accepted in CSV input
func isMissing(s string) bool {
	switch s {
	case "", "NA", "NaN", "nan", "null":
		return true
	}
	return false
}

// ReadCSV loads a CSV file into a frame. The first row is the header. When
// cfg.TimeColumn is set, that column supplies the row index; otherwise a
// synthetic range index is used. All remaining columns are parsed as
// float64, with empty and NA cells read as missing values.
func ReadCSV(cfg config.SourceConfig) (*frame.Frame, error) {
	file, err := os.Open(cfg.Path) //nolint:gosec // G304: path comes from validated config
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "opening source file")
	}
	defer file.Close()
	return readCSV(file, cfg)
}

func readCSV(r io.Reader, cfg config.SourceConfig) (*frame.Frame, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeData, "reading CSV")
	}
	if len(rows) < 1 {
		return nil, errors.New(errors.ErrorTypeData, "CSV input has no header row")
	}

	header := rows[0]
	records := rows[1:]

	timeIdx := -1
	if cfg.TimeColumn != "" {
		for i, name := range header {
			if name == cfg.TimeColumn {
				timeIdx = i
				break
			}
		}
		if timeIdx == -1 {
			return nil, errors.Newf(errors.ErrorTypeMissingColumns, "missing columns [%s]", cfg.TimeColumn).
				WithDetail("missing", []string{cfg.TimeColumn})
		}
	}

	layout := cfg.TimeLayout
	if layout == "" {
		layout = time.RFC3339
	}

	var index []time.Time
	if timeIdx == -1 {
		index = frame.RangeIndex(len(records))
	} else {
		index = make([]time.Time, len(records))
		for i, row := range records {
			t, err := time.Parse(layout, row[timeIdx])
			if err != nil {
				return nil, errors.Wrap(err, errors.ErrorTypeData, "parsing time column")
			}
			index[i] = t
		}
	}

	f := frame.New(index)
	for col, name := range header {
		if col == timeIdx {
			continue
		}
		values := make([]float64, len(records))
		for i, row := range records {
			if col >= len(row) || isMissing(row[col]) {
				values[i] = math.NaN()
				continue
			}
			v, err := strconv.ParseFloat(row[col], 64)
			if err != nil {
				return nil, errors.Newf(errors.ErrorTypeData, "row %d column %q: cannot parse %q as float", i+1, name, row[col])
			}
			values[i] = v
		}
		if err := f.AddColumn(name, values); err != nil {
			return nil, err
		}
	}
	return f, nil
}
