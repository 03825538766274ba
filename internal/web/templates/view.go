package templates

import (
	"fmt"
	"strconv"
	"time"

	"github.com/JonMunkholm/tblstore/internal/core"
)

// PreviewRow is one rendered table row.
type PreviewRow struct {
	Cells []PreviewCell
}

// PreviewCell is a cell's display text and its kind ("int", "float", "string").
type PreviewCell struct {
	Text string
	Kind string
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func byteSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

func slotsLabel(s core.LimiterStatus) string {
	return fmt.Sprintf("%d of %d upload slots free", s.Available, s.MaxConcurrent)
}

func shapeLabel(rec core.UploadRecord, shown int) string {
	label := fmt.Sprintf("%d rows, %d columns, %s delimited, %s numbers",
		rec.NumRows, rec.NumColumns, rec.Delimiter, rec.Format)
	if shown < rec.NumRows {
		label += fmt.Sprintf(" (first %d shown)", shown)
	}
	return label
}
