package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/tblstore/internal/table"
)

// WriteCSV writes t as comma-delimited text with standard quoting. Numbers
// use '.' as the decimal separator whatever the source format was, and
// floats always carry a '.' or exponent so they parse back as floats.
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	row := make([]string, t.NumColumns())
	for r := 0; r < t.NumRows(); r++ {
		for c := range row {
			row[c] = csvText(t.Data(r, c))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write CSV row %d: %w", r, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func csvText(c table.Cell) string {
	s := c.String()
	if c.Kind() == table.KindFloat && !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
