package pipeline

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/tsweave/tsweave/pkg/config"
	"github.com/tsweave/tsweave/pkg/errors"
	"github.com/tsweave/tsweave/pkg/frame"
)

// WriteFrame writes f to the configured sink path in the configured
// format, wrapping CSV output in gzip or zstd compression when requested.
func WriteFrame(f *frame.Frame, cfg config.SinkConfig, timeLayout string) error {
	file, err := os.Create(cfg.Path) //nolint:gosec // G304: path comes from validated config
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "creating sink file")
	}
	defer file.Close()

	if cfg.Format == "arrow" {
		return writeArrow(f, file)
	}

	w, closeCompressor, err := wrapCompression(file, cfg.Compression)
	if err != nil {
		return err
	}
	if err := writeCSV(f, w, timeLayout); err != nil {
		return err
	}
	return closeCompressor()
}

// wrapCompression wraps w per the configured codec. The returned close
// function flushes the compressor; the underlying file is closed by the
// caller.
func wrapCompression(w io.Writer, compression string) (io.Writer, func() error, error) {
	switch compression {
	case "", "none":
		return w, func() error { return nil }, nil
	case "gzip":
		gz := gzip.NewWriter(w)
		return gz, gz.Close, nil
	case "zstd":
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrorTypeInternal, "creating zstd writer")
		}
		return zw, zw.Close, nil
	default:
		return nil, nil, errors.Newf(errors.ErrorTypeConfig, "unknown compression %q", compression)
	}
}

func writeCSV(f *frame.Frame, w io.Writer, timeLayout string) error {
	if timeLayout == "" {
		timeLayout = time.RFC3339
	}

	writer := csv.NewWriter(w)
	columns := f.Columns()

	header := append([]string{"time"}, columns...)
	if err := writer.Write(header); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "writing CSV header")
	}

	row := make([]string, len(header))
	for i, ts := range f.Index() {
		row[0] = ts.Format(timeLayout)
		for j, name := range columns {
			col, err := f.Column(name)
			if err != nil {
				return err
			}
			v := col.At(i)
			if math.IsNaN(v) {
				row[j+1] = ""
			} else {
				row[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
			}
		}
		if err := writer.Write(row); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "writing CSV row")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "flushing CSV output")
	}
	return nil
}
