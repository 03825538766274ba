package table

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDelimiter means the first line held no ',', ';' or tab.
	ErrNoDelimiter = errors.New("no delimiter found")

	// ErrColumnCount means a data row had a different number of cells than
	// the header.
	ErrColumnCount = errors.New("column count mismatch")

	// ErrBareQuote means a quote inside a quoted cell was followed by
	// something other than a second quote, a delimiter or a line end.
	ErrBareQuote = errors.New("bare quote in quoted cell")
)

// ParseError records why a table could not be built.
type ParseError struct {
	Line int   // 1-based input line where parsing stopped
	Err  error // ErrNoDelimiter, ErrColumnCount or ErrBareQuote

	// Want and Got are the header and row cell counts for ErrColumnCount.
	Want, Got int
}

func (e *ParseError) Error() string {
	if errors.Is(e.Err, ErrColumnCount) {
		return fmt.Sprintf("line %d: %v: expected %d columns, got %d", e.Line, e.Err, e.Want, e.Got)
	}
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
