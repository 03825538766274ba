package table

import (
	"errors"
	"testing"
)

func TestDetectDialect(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		delim  byte
		format Format
	}{
		{"comma", "a,b,c\n", ',', International},
		{"tab", "a\tb\tc\n", '\t', International},
		{"semicolon", "a;b;c\n", ';', Continental},
		{"semicolon only one", "a;b\n", ';', Continental},
		{"tab beats commas", "a,b\tc\td\n", '\t', International},
		{"semicolons beat commas", "a,b;c;d\n", ';', Continental},
		{"comma ties semicolon", "a,b;c\n", ',', International},
		{"comma ties tab", "a,b\tc\n", ',', International},
		{"tab beats more semicolons", "a\tb;c;d\n", '\t', International},
		{"only first line counts", "a,b\nc;d;e;f\n", ',', International},
		{"carriage return ends line", "a;b\r1,2,3,4\r", ';', Continental},
		{"no newline", "x,y", ',', International},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DetectDialect(tt.input)
			if err != nil {
				t.Fatalf("DetectDialect() error = %v", err)
			}
			if d.Delimiter != tt.delim {
				t.Errorf("Delimiter = %q, want %q", d.Delimiter, tt.delim)
			}
			if d.Format != tt.format {
				t.Errorf("Format = %s, want %s", d.Format, tt.format)
			}
		})
	}
}

func TestDetectDialect_NoDelimiter(t *testing.T) {
	for _, input := range []string{"", "\n", "onlyoneword", "word\na,b,c\n", "x y z\r\n1;2"} {
		if _, err := DetectDialect(input); !errors.Is(err, ErrNoDelimiter) {
			t.Errorf("DetectDialect(%q) error = %v, want ErrNoDelimiter", input, err)
		}
	}
}

func TestDialect_DelimiterName(t *testing.T) {
	tests := map[byte]string{',': "comma", ';': "semicolon", '\t': "tab", '|': "|"}
	for delim, want := range tests {
		if got := (Dialect{Delimiter: delim}).DelimiterName(); got != want {
			t.Errorf("DelimiterName(%q) = %q, want %q", delim, got, want)
		}
	}
}
