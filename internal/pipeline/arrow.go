package pipeline

import (
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/tsweave/tsweave/pkg/errors"
	"github.com/tsweave/tsweave/pkg/frame"
)

// writeArrow serializes f as a single-record Arrow IPC file: the row index
// as an int64 column of Unix seconds named "time", followed by the frame's
// float64 columns in column order.
func writeArrow(f *frame.Frame, w io.Writer) error {
	columns := f.Columns()

	fields := make([]arrow.Field, 0, len(columns)+1)
	fields = append(fields, arrow.Field{Name: "time", Type: arrow.PrimitiveTypes.Int64})
	for _, name := range columns {
		fields = append(fields, arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64})
	}
	schema := arrow.NewSchema(fields, nil)

	pool := memory.NewGoAllocator()
	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()

	times := make([]int64, f.NumRows())
	for i, ts := range f.Index() {
		times[i] = ts.Unix()
	}
	builder.Field(0).(*array.Int64Builder).AppendValues(times, nil)

	for i, name := range columns {
		col, err := f.Column(name)
		if err != nil {
			return err
		}
		builder.Field(i + 1).(*array.Float64Builder).AppendValues(col.Values(), nil)
	}

	record := builder.NewRecord()
	defer record.Release()

	writer, err := ipc.NewFileWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(pool))
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "creating Arrow writer")
	}
	if err := writer.Write(record); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "writing Arrow record")
	}
	if err := writer.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "closing Arrow writer")
	}
	return nil
}
