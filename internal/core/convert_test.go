package core

import (
	"testing"

	"github.com/JonMunkholm/tblstore/internal/table"
)

// ----------------------------------------------------------------------------
// Cell conversion Tests
// ----------------------------------------------------------------------------

func TestCellConversions(t *testing.T) {
	tests := []struct {
		name      string
		cell      table.Cell
		wantInt   bool
		wantFloat bool
		wantText  bool
	}{
		{"int cell", table.IntCell(42), true, false, false},
		{"float cell", table.FloatCell(-1.25), false, true, false},
		{"string cell", table.StringCell("abc"), false, false, true},
		{"empty string cell", table.StringCell(""), false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := CellToPgInt8(tt.cell)
			f := CellToPgFloat8(tt.cell)
			s := CellToPgText(tt.cell)

			if i.Valid != tt.wantInt {
				t.Errorf("Int8.Valid = %v, want %v", i.Valid, tt.wantInt)
			}
			if f.Valid != tt.wantFloat {
				t.Errorf("Float8.Valid = %v, want %v", f.Valid, tt.wantFloat)
			}
			if s.Valid != tt.wantText {
				t.Errorf("Text.Valid = %v, want %v", s.Valid, tt.wantText)
			}

			switch {
			case i.Valid && i.Int64 != tt.cell.Int():
				t.Errorf("Int64 = %d, want %d", i.Int64, tt.cell.Int())
			case f.Valid && f.Float64 != tt.cell.Float():
				t.Errorf("Float64 = %v, want %v", f.Float64, tt.cell.Float())
			case s.Valid && s.String != tt.cell.Text():
				t.Errorf("String = %q, want %q", s.String, tt.cell.Text())
			}
		})
	}
}

// ----------------------------------------------------------------------------
// ToPgText Tests
// ----------------------------------------------------------------------------

func TestToPgText(t *testing.T) {
	if got := ToPgText(""); got.Valid {
		t.Error("empty string should be NULL")
	}
	if got := ToPgText(" 10.0.0.1 "); !got.Valid || got.String != " 10.0.0.1 " {
		t.Errorf("ToPgText kept %+v, want value unchanged", got)
	}
}

// ----------------------------------------------------------------------------
// UUID Tests
// ----------------------------------------------------------------------------

func TestToPgUUID(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
	}{
		{"valid lowercase", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", true},
		{"valid uppercase", "6BA7B810-9DAD-11D1-80B4-00C04FD430C8", true},
		{"empty", "", false},
		{"garbage", "not-a-uuid", false},
		{"too short", "6ba7b810-9dad-11d1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToPgUUID(tt.input)
			if got.Valid != tt.wantValid {
				t.Errorf("ToPgUUID(%q).Valid = %v, want %v", tt.input, got.Valid, tt.wantValid)
			}
		})
	}
}

func TestPgUUIDRoundTrip(t *testing.T) {
	const id = "6ba7b810-9dad-11d1-80b4-00c04fd430c8"
	if got := PgUUIDToString(ToPgUUID(id)); got != id {
		t.Errorf("round trip = %q, want %q", got, id)
	}
	if got := PgUUIDToString(ToPgUUID("")); got != "" {
		t.Errorf("invalid UUID rendered as %q, want empty", got)
	}
}
