// Package table parses delimited text (CSV, TSV, semicolon-separated) into
// an immutable grid of typed cells.
//
// The delimiter is sniffed from the first line, which is also the header.
// Every later line is a row whose first cell doubles as the row key. Each
// cell is inferred as an int64, a float64 or a string; semicolon files read
// ',' as the decimal separator.
//
//	t := table.Parse("id,value\n1,10\n2,20\n")
//	if !t.Valid() {
//	    return t.Err()
//	}
//	v := table.GetByName[int64](t, "2", "value") // 20
//
// # Errors
//
// Bad input never panics. It yields a table whose Valid method returns
// false and whose Err method returns a *ParseError wrapping ErrNoDelimiter,
// ErrColumnCount or ErrBareQuote. One malformed row invalidates the whole
// table.
//
// Misuse does panic: an out-of-range index, an unknown row key or column
// name, or asking a cell for a type it does not hold. Callers that index
// with untrusted input should go through LookupRow, LookupColumn, NumRows
// and NumColumns first.
//
// # Memory
//
// Cells live in one row-major slice owned by the table; the input string is
// not retained. Callers that need to place data in their own arena convert
// the table afterwards (see the export package, which takes an Arrow
// allocator).
package table
