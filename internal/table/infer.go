package table

import (
	"strconv"
	"strings"
)

// Infer classifies raw cell text. Integers are tried first, then floats
// (with ',' read as the decimal separator under Continental), and anything
// else is kept verbatim as a string. Both numeric parses must consume the
// whole text. Floats follow strconv.ParseFloat, so hex floats ("0x1p4")
// and "inf", "Infinity" and "nan" in any case also classify as floats.
func Infer(raw string, f Format) Cell {
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return IntCell(v)
	}

	s := raw
	if f == Continental {
		s = strings.ReplaceAll(raw, ",", ".")
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return FloatCell(v)
	}

	return StringCell(raw)
}
