package table

import (
	"fmt"
	"strconv"
)

// Kind identifies which value a Cell holds.
type Kind uint8

const (
	KindInt Kind = iota
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Cell is one typed value of a table: an int64, a float64, or a string.
// The zero Cell is the integer 0.
type Cell struct {
	kind Kind
	i    int64
	f    float64
	s    string
}

// IntCell returns a cell holding v.
func IntCell(v int64) Cell { return Cell{kind: KindInt, i: v} }

// FloatCell returns a cell holding v.
func FloatCell(v float64) Cell { return Cell{kind: KindFloat, f: v} }

// StringCell returns a cell holding v.
func StringCell(v string) Cell { return Cell{kind: KindString, s: v} }

// Kind reports the type inferred for the cell.
func (c Cell) Kind() Kind { return c.kind }

// Int returns the integer value. Panics if the cell is not KindInt.
func (c Cell) Int() int64 {
	c.mustBe(KindInt)
	return c.i
}

// Float returns the floating point value. Panics if the cell is not KindFloat.
func (c Cell) Float() float64 {
	c.mustBe(KindFloat)
	return c.f
}

// Text returns the string value. Panics if the cell is not KindString.
func (c Cell) Text() string {
	c.mustBe(KindString)
	return c.s
}

// String formats the cell for display regardless of its kind.
func (c Cell) String() string {
	switch c.kind {
	case KindInt:
		return strconv.FormatInt(c.i, 10)
	case KindFloat:
		return strconv.FormatFloat(c.f, 'g', -1, 64)
	default:
		return c.s
	}
}

// Value returns the held value as int64, float64 or string.
func (c Cell) Value() any {
	switch c.kind {
	case KindInt:
		return c.i
	case KindFloat:
		return c.f
	default:
		return c.s
	}
}

func (c Cell) mustBe(k Kind) {
	if c.kind != k {
		panic(fmt.Sprintf("table: cell holds %s, not %s", c.kind, k))
	}
}
