package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonMunkholm/tblstore/internal/table"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// UploadRecord describes one stored table.
type UploadRecord struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	Delimiter  string    `json:"delimiter"`
	Format     string    `json:"format"`
	NumRows    int       `json:"numRows"`
	NumColumns int       `json:"numColumns"`
	Columns    []string  `json:"columns"`
	SizeBytes  int64     `json:"sizeBytes"`
	ClientIP   string    `json:"clientIp,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ColumnSummary reports how the cells of one column were inferred.
type ColumnSummary struct {
	Name    string `json:"name"`
	Index   int    `json:"index"`
	Ints    int    `json:"ints"`
	Floats  int    `json:"floats"`
	Strings int    `json:"strings"`
}

// Kind returns the narrowest kind every cell of the column fits:
// "int", "float" (ints and floats), "string", or "empty" for no rows.
func (c ColumnSummary) Kind() string {
	switch {
	case c.Ints+c.Floats+c.Strings == 0:
		return "empty"
	case c.Strings > 0:
		return table.KindString.String()
	case c.Floats > 0:
		return table.KindFloat.String()
	default:
		return table.KindInt.String()
	}
}

// ParseResult is a successfully parsed upload that has not been stored.
type ParseResult struct {
	FileName  string
	SizeBytes int64
	Duration  time.Duration
	Table     *table.Table

	text string // decoded input, stored alongside the cells
}

// UploadResult is returned once a parsed table has been stored.
type UploadResult struct {
	Record   UploadRecord    `json:"upload"`
	Columns  []ColumnSummary `json:"columns"`
	Duration time.Duration   `json:"durationNs"`
}

// StoredTable is a stored upload re-parsed from its original text.
type StoredTable struct {
	Record UploadRecord
	Table  *table.Table
}

// ErrCellNotFound is returned for indices out of range and for unknown row
// keys or column names.
var ErrCellNotFound = errors.New("cell not found")

// CellRef identifies one cell by position and by name.
type CellRef struct {
	Row        int
	Column     int
	RowKey     string
	ColumnName string
	Cell       table.Cell
}

// Cell returns the cell at (row, col).
func (st *StoredTable) Cell(row, col int) (CellRef, error) {
	t := st.Table
	if row < 0 || row >= t.NumRows() || col < 0 || col >= t.NumColumns() {
		return CellRef{}, fmt.Errorf("(%d, %d): %w", row, col, ErrCellNotFound)
	}
	return CellRef{
		Row:        row,
		Column:     col,
		RowKey:     t.RowKey(row),
		ColumnName: t.Column(col),
		Cell:       t.Data(row, col),
	}, nil
}

// CellByName returns the cell in the row keyed by rowKey and the column
// named column. Duplicate keys and names resolve to the last occurrence.
func (st *StoredTable) CellByName(rowKey, column string) (CellRef, error) {
	row, ok := st.Table.LookupRow(rowKey)
	if !ok {
		return CellRef{}, fmt.Errorf("row %q: %w", rowKey, ErrCellNotFound)
	}
	col, ok := st.Table.LookupColumn(column)
	if !ok {
		return CellRef{}, fmt.Errorf("column %q: %w", column, ErrCellNotFound)
	}
	return CellRef{
		Row:        row,
		Column:     col,
		RowKey:     rowKey,
		ColumnName: column,
		Cell:       st.Table.Data(row, col),
	}, nil
}

// Summarize counts cell kinds per column.
func Summarize(t *table.Table) []ColumnSummary {
	cols := t.Columns()
	out := make([]ColumnSummary, len(cols))
	for i, name := range cols {
		out[i] = ColumnSummary{Name: name, Index: i}
	}
	for r := 0; r < t.NumRows(); r++ {
		for c := range out {
			switch t.Data(r, c).Kind() {
			case table.KindInt:
				out[c].Ints++
			case table.KindFloat:
				out[c].Floats++
			default:
				out[c].Strings++
			}
		}
	}
	return out
}

// recordFor describes t as it will be stored.
func recordFor(id, fileName string, size int64, t *table.Table) UploadRecord {
	d := t.Dialect()
	return UploadRecord{
		ID:         id,
		FileName:   fileName,
		Delimiter:  d.DelimiterName(),
		Format:     d.Format.String(),
		NumRows:    t.NumRows(),
		NumColumns: t.NumColumns(),
		Columns:    t.Columns(),
		SizeBytes:  size,
	}
}
