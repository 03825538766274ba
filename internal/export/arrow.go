package export

import (
	"fmt"
	"io"

	"github.com/JonMunkholm/tblstore/internal/table"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Schema metadata keys.
const (
	MetaDelimiter = "tblstore.delimiter"
	MetaFormat    = "tblstore.format"
)

// ColumnType returns the Arrow type used for column col of t.
func ColumnType(t *table.Table, col int) arrow.DataType {
	if t.NumRows() == 0 {
		return arrow.BinaryTypes.String
	}
	allInt := true
	for r := 0; r < t.NumRows(); r++ {
		switch t.Data(r, col).Kind() {
		case table.KindString:
			return arrow.BinaryTypes.String
		case table.KindFloat:
			allInt = false
		}
	}
	if allInt {
		return arrow.PrimitiveTypes.Int64
	}
	return arrow.PrimitiveTypes.Float64
}

// Schema describes t as an Arrow schema. The dialect is kept as metadata.
func Schema(t *table.Table) *arrow.Schema {
	cols := t.Columns()
	fields := make([]arrow.Field, len(cols))
	for i, name := range cols {
		fields[i] = arrow.Field{Name: name, Type: ColumnType(t, i)}
	}
	d := t.Dialect()
	md := arrow.NewMetadata(
		[]string{MetaDelimiter, MetaFormat},
		[]string{d.DelimiterName(), d.Format.String()},
	)
	return arrow.NewSchema(fields, &md)
}

// NewRecord copies every cell of t into a single record batch allocated
// from mem. The caller must Release it.
func NewRecord(t *table.Table, mem memory.Allocator) arrow.Record {
	b := array.NewRecordBuilder(mem, Schema(t))
	defer b.Release()

	for c := 0; c < t.NumColumns(); c++ {
		switch fb := b.Field(c).(type) {
		case *array.Int64Builder:
			fb.Reserve(t.NumRows())
			for r := 0; r < t.NumRows(); r++ {
				fb.UnsafeAppend(t.Data(r, c).Int())
			}
		case *array.Float64Builder:
			fb.Reserve(t.NumRows())
			for r := 0; r < t.NumRows(); r++ {
				fb.UnsafeAppend(numeric(t.Data(r, c)))
			}
		case *array.StringBuilder:
			for r := 0; r < t.NumRows(); r++ {
				fb.Append(t.Data(r, c).String())
			}
		}
	}
	return b.NewRecord()
}

func numeric(c table.Cell) float64 {
	if c.Kind() == table.KindInt {
		return float64(c.Int())
	}
	return c.Float()
}

// WriteArrow writes t to w as an Arrow IPC stream holding one record batch.
func WriteArrow(w io.Writer, t *table.Table, mem memory.Allocator) error {
	rec := NewRecord(t, mem)
	defer rec.Release()

	wr := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err := wr.Write(rec); err != nil {
		wr.Close()
		return fmt.Errorf("write arrow record: %w", err)
	}
	if err := wr.Close(); err != nil {
		return fmt.Errorf("close arrow stream: %w", err)
	}
	return nil
}
