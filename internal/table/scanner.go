package table

import "strings"

// scanner walks the input one cell at a time. line is the 1-based line
// number of the current position.
type scanner struct {
	text  string
	pos   int
	line  int
	delim byte
}

func newScanner(text string, delim byte) *scanner {
	return &scanner{text: text, line: 1, delim: delim}
}

func isLineEnd(c byte) bool {
	return c == '\n' || c == '\r'
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.text)
}

func (s *scanner) atLineEnd() bool {
	return !s.atEnd() && isLineEnd(s.text[s.pos])
}

// endsCell reports whether position i terminates a quoted cell.
func (s *scanner) endsCell(i int) bool {
	return i >= len(s.text) || s.text[i] == s.delim || isLineEnd(s.text[i])
}

// countNewline advances the line counter for the terminator at i.
// "\r\n" counts once, on the '\n'.
func (s *scanner) countNewline(i int) {
	switch s.text[i] {
	case '\n':
		s.line++
	case '\r':
		if i+1 >= len(s.text) || s.text[i+1] != '\n' {
			s.line++
		}
	}
}

// cell returns the next cell's text and leaves the scanner on the
// delimiter or line end that follows it.
func (s *scanner) cell() (string, error) {
	if s.atEnd() {
		return "", nil
	}

	if s.text[s.pos] != '"' {
		start := s.pos
		for !s.endsCell(s.pos) {
			s.pos++
		}
		return strings.Clone(s.text[start:s.pos]), nil
	}

	s.pos++
	var b strings.Builder
	for !s.atEnd() {
		c := s.text[s.pos]
		if c == '"' {
			s.pos++
			if s.endsCell(s.pos) {
				return b.String(), nil
			}
			// Interior quotes come in pairs; keep one.
			if s.text[s.pos] != '"' {
				return "", ErrBareQuote
			}
		} else if isLineEnd(c) {
			s.countNewline(s.pos)
		}
		b.WriteByte(c)
		s.pos++
	}
	// Unterminated quote: the cell runs to the end of input.
	return b.String(), nil
}

// skipLineEnds consumes a run of '\r' and '\n', which also drops blank lines.
func (s *scanner) skipLineEnds() {
	for s.atLineEnd() {
		s.countNewline(s.pos)
		s.pos++
	}
}

// record reads cells up to the end of the current line and moves past the
// terminator. A delimiter as the last byte of input still opens an empty
// cell, the same as a delimiter before a line end.
func (s *scanner) record() ([]string, error) {
	var cells []string
	for {
		c, err := s.cell()
		if err != nil {
			return nil, err
		}
		cells = append(cells, c)
		if s.atEnd() || s.atLineEnd() {
			break
		}
		s.pos++ // delimiter
	}
	s.skipLineEnds()
	return cells, nil
}
