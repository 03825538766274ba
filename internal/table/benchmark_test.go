package table

import (
	"strconv"
	"strings"
	"testing"
)

func benchText(rows int, delim string, quoted bool) string {
	var b strings.Builder
	b.WriteString(strings.Join([]string{"id", "name", "amount", "note"}, delim))
	b.WriteByte('\n')
	note := "plain"
	if quoted {
		note = `"say ""hi"", twice"`
	}
	for i := 0; i < rows; i++ {
		b.WriteString(strings.Join([]string{strconv.Itoa(i), "alice", "12.5", note}, delim))
		b.WriteByte('\n')
	}
	return b.String()
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		text string
	}{
		{"comma", benchText(10000, ",", false)},
		{"tab", benchText(10000, "\t", false)},
		{"quoted", benchText(10000, ",", true)},
	}
	for _, tc := range cases {
		b.Run(tc.name, func(b *testing.B) {
			b.SetBytes(int64(len(tc.text)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if t := Parse(tc.text); !t.Valid() {
					b.Fatal(t.Err())
				}
			}
		})
	}
}

func BenchmarkInfer(b *testing.B) {
	inputs := []string{"12345", "-456.78", "1,25", "alice", ""}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		for _, in := range inputs {
			Infer(in, Continental)
		}
	}
}

func BenchmarkLookup(b *testing.B) {
	t := Parse(benchText(10000, ",", false))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := t.LookupRow("5000"); !ok {
			b.Fatal("row not found")
		}
		t.DataByName("5000", "amount")
	}
}
