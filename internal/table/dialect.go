package table

// Format is the numeric convention used for decimal values.
type Format uint8

const (
	// International uses '.' as the decimal separator.
	International Format = iota
	// Continental uses ',' as the decimal separator. It is paired with ';'
	// as the field delimiter.
	Continental
)

func (f Format) String() string {
	if f == Continental {
		return "continental"
	}
	return "international"
}

// Dialect describes how a text was split into cells.
type Dialect struct {
	Delimiter byte
	Format    Format
}

// DelimiterName returns a printable name for the delimiter.
func (d Dialect) DelimiterName() string {
	switch d.Delimiter {
	case ',':
		return "comma"
	case ';':
		return "semicolon"
	case '\t':
		return "tab"
	default:
		return string(d.Delimiter)
	}
}

// DetectDialect sniffs the delimiter from the first line of text.
//
// Only ',', '\t' and ';' are counted. Tab wins when it outnumbers commas;
// otherwise semicolon wins when it outnumbers commas, and comma is chosen
// in every remaining case. A semicolon delimiter implies Continental
// numbers. Returns ErrNoDelimiter when the first line holds none of the
// three characters.
func DetectDialect(text string) (Dialect, error) {
	var commas, tabs, semicolons int
scan:
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case ',':
			commas++
		case '\t':
			tabs++
		case ';':
			semicolons++
		case '\n', '\r':
			break scan
		}
	}

	if commas == 0 && tabs == 0 && semicolons == 0 {
		return Dialect{}, ErrNoDelimiter
	}

	var d Dialect
	switch {
	case commas < tabs:
		d.Delimiter = '\t'
	case semicolons > commas:
		d.Delimiter = ';'
	default:
		d.Delimiter = ','
	}
	if d.Delimiter == ';' {
		d.Format = Continental
	}
	return d, nil
}
