package core

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTextReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "plain UTF-8",
			input:    []byte("id,name\n1,Ann"),
			expected: "id,name\n1,Ann",
		},
		{
			name:     "UTF-8 BOM removed",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, "id,name"...),
			expected: "id,name",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "empty",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "UTF-16LE with BOM",
			input:    []byte{0xFF, 0xFE, 'a', 0, '\t', 0, 'b', 0},
			expected: "a\tb",
		},
		{
			name:     "UTF-16BE with BOM",
			input:    []byte{0xFE, 0xFF, 0, 'a', 0, ';', 0, 0xE9},
			expected: "a;é",
		},
		{
			name:     "multi-byte UTF-8 kept",
			input:    []byte("name\nZoë"),
			expected: "name\nZoë",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewTextReader(bytes.NewReader(tt.input), int64(len(tt.input)))
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
			if r.BytesRead() != int64(len(tt.input)) {
				t.Errorf("BytesRead = %d, want %d", r.BytesRead(), len(tt.input))
			}
		})
	}
}

func TestTextReader_InvalidUTF8(t *testing.T) {
	input := []byte{'a', ',', 0xFF, 0xFE, 'b', '\n'}
	got, err := io.ReadAll(NewTextReader(bytes.NewReader(input), 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !utf8.Valid(got) {
		t.Errorf("output is not valid UTF-8: %q", got)
	}
	if !strings.HasPrefix(string(got), "a,") || !strings.HasSuffix(string(got), "b\n") {
		t.Errorf("surrounding text not preserved: %q", got)
	}
	if !strings.ContainsRune(string(got), utf8.RuneError) {
		t.Errorf("expected replacement character in %q", got)
	}
}

func TestCountingReader_Progress(t *testing.T) {
	r := NewCountingReader(strings.NewReader("0123456789"), 10)
	buf := make([]byte, 4)
	if _, err := r.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := r.Progress(); got != 40 {
		t.Errorf("Progress = %d, want 40", got)
	}

	unknown := NewCountingReader(strings.NewReader("abc"), 0)
	io.ReadAll(unknown)
	if got := unknown.Progress(); got != 0 {
		t.Errorf("Progress with unknown total = %d, want 0", got)
	}
	if unknown.BytesRead != 3 {
		t.Errorf("BytesRead = %d, want 3", unknown.BytesRead)
	}
}
