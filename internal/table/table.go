package table

import (
	"errors"
	"fmt"
)

// Table is a parsed delimited text. It is read-only once Parse returns and
// may be shared between goroutines.
type Table struct {
	dialect Dialect
	header  []string
	keys    []string
	columns map[string]int
	rows    map[string]int
	cells   []Cell
	err     error
}

// Parse builds a table from text. It never returns nil; check Valid or Err
// before reading data. A failed table keeps whatever header was read but
// holds no rows.
func Parse(text string) *Table {
	t := &Table{
		columns: make(map[string]int),
		rows:    make(map[string]int),
	}
	if err := t.read(text); err != nil {
		t.err = err
		t.keys = nil
		t.cells = nil
		t.rows = make(map[string]int)
	}
	return t
}

func (t *Table) read(text string) error {
	d, err := DetectDialect(text)
	if err != nil {
		return &ParseError{Line: 1, Err: err}
	}
	t.dialect = d

	s := newScanner(text, d.Delimiter)
	if err := t.readHeader(s); err != nil {
		return err
	}
	for !s.atEnd() {
		if err := t.readRow(s); err != nil {
			return err
		}
	}
	return nil
}

func (t *Table) readHeader(s *scanner) error {
	line := s.line
	names, err := s.record()
	if err != nil {
		return &ParseError{Line: line, Err: err}
	}
	t.header = names
	for i, name := range names {
		t.columns[name] = i
	}
	return nil
}

func (t *Table) readRow(s *scanner) error {
	line := s.line
	raw, err := s.record()
	if err != nil {
		return &ParseError{Line: line, Err: err}
	}
	if len(raw) != len(t.header) {
		return &ParseError{Line: line, Err: ErrColumnCount, Want: len(t.header), Got: len(raw)}
	}

	t.rows[raw[0]] = len(t.keys)
	t.keys = append(t.keys, raw[0])
	for _, r := range raw {
		t.cells = append(t.cells, Infer(r, t.dialect.Format))
	}
	return nil
}

// Valid reports whether parsing succeeded.
func (t *Table) Valid() bool { return t.err == nil }

// Err returns the *ParseError that invalidated the table, or nil.
func (t *Table) Err() error { return t.err }

// Dialect returns the detected delimiter and number format.
func (t *Table) Dialect() Dialect { return t.dialect }

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.keys) }

// NumColumns returns the number of header cells.
func (t *Table) NumColumns() int { return len(t.header) }

// Columns returns the header names in file order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.header...)
}

// RowKeys returns the literal first-cell text of every row in file order.
func (t *Table) RowKeys() []string {
	return append([]string(nil), t.keys...)
}

// Column returns the name of column i. Panics if i is out of range.
func (t *Table) Column(i int) string { return t.header[i] }

// RowKey returns the key of row i. Panics if i is out of range.
func (t *Table) RowKey(i int) string { return t.keys[i] }

// LookupRow returns the index registered for key. When a key repeats, the
// last row carrying it wins.
func (t *Table) LookupRow(key string) (int, bool) {
	i, ok := t.rows[key]
	return i, ok
}

// LookupColumn returns the index registered for name. When a name repeats,
// the last column carrying it wins.
func (t *Table) LookupColumn(name string) (int, bool) {
	i, ok := t.columns[name]
	return i, ok
}

// RowIndex returns the index of the row keyed by key. Panics if no row has
// that key.
func (t *Table) RowIndex(key string) int {
	i, ok := t.rows[key]
	if !ok {
		panic(fmt.Sprintf("table: unknown row key %q", key))
	}
	return i
}

// ColumnIndex returns the index of the named column. Panics if no column
// has that name.
func (t *Table) ColumnIndex(name string) int {
	i, ok := t.columns[name]
	if !ok {
		panic(fmt.Sprintf("table: unknown column %q", name))
	}
	return i
}

// Data returns the cell at (row, column). Panics if either index is out of
// range.
func (t *Table) Data(row, column int) Cell {
	if row < 0 || row >= t.NumRows() {
		panic(fmt.Sprintf("table: row index %d out of range [0,%d)", row, t.NumRows()))
	}
	if column < 0 || column >= t.NumColumns() {
		panic(fmt.Sprintf("table: column index %d out of range [0,%d)", column, t.NumColumns()))
	}
	return t.cells[row*t.NumColumns()+column]
}

// DataByName returns the cell at the named row and column.
func (t *Table) DataByName(rowKey, column string) Cell {
	return t.Data(t.RowIndex(rowKey), t.ColumnIndex(column))
}

// Value is the set of types a cell can hold.
type Value interface {
	int64 | float64 | string
}

// Get returns the cell at (row, column) as T. Panics if the cell does not
// hold a T.
func Get[T Value](t *Table, row, column int) T {
	return as[T](t.Data(row, column))
}

// GetByName returns the cell at the named row and column as T.
func GetByName[T Value](t *Table, rowKey, column string) T {
	return as[T](t.DataByName(rowKey, column))
}

func as[T Value](c Cell) T {
	var v T
	switch p := any(&v).(type) {
	case *int64:
		*p = c.Int()
	case *float64:
		*p = c.Float()
	case *string:
		*p = c.Text()
	}
	return v
}

// IsParseError reports whether err carries a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
