package core

// textreader.go turns an uploaded byte stream into UTF-8 text for the parser.
//
// Decoding is delegated to golang.org/x/text: a leading BOM selects UTF-8 or
// UTF-16 (LE/BE) and is removed; without one the input is read as UTF-8 and
// invalid sequences become U+FFFD.

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CountingReader tracks how many raw bytes have been read.
type CountingReader struct {
	reader    io.Reader
	BytesRead int64
	Total     int64 // 0 if unknown
}

// NewCountingReader creates a counting reader with an optional total size.
func NewCountingReader(r io.Reader, total int64) *CountingReader {
	return &CountingReader{reader: r, Total: total}
}

// Read implements io.Reader.
func (r *CountingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.BytesRead += int64(n)
	return n, err
}

// Progress returns the read progress as a percentage (0-100).
// Returns 0 if total is unknown.
func (r *CountingReader) Progress() int {
	if r.Total <= 0 {
		return 0
	}
	return int(r.BytesRead * 100 / r.Total)
}

// TextReader yields decoded UTF-8 text while counting the raw bytes consumed.
type TextReader struct {
	raw  *CountingReader
	text io.Reader
}

// NewTextReader wraps r; total is the expected raw size, or 0.
func NewTextReader(r io.Reader, total int64) *TextReader {
	raw := NewCountingReader(r, total)
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	return &TextReader{
		raw:  raw,
		text: transform.NewReader(raw, dec),
	}
}

// Read implements io.Reader.
func (t *TextReader) Read(p []byte) (int, error) {
	return t.text.Read(p)
}

// BytesRead returns the number of raw (undecoded) bytes consumed so far.
func (t *TextReader) BytesRead() int64 {
	return t.raw.BytesRead
}

// Progress returns the raw read progress as a percentage.
func (t *TextReader) Progress() int {
	return t.raw.Progress()
}
