package core

// convert.go maps parsed cells and identifiers to pgtype values.
//
// Each cell is stored in exactly one of the typed value columns; the other
// two are written as NULL (Valid=false).

import (
	"github.com/JonMunkholm/tblstore/internal/table"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// CellToPgInt8 returns the cell's integer, or NULL for other kinds.
func CellToPgInt8(c table.Cell) pgtype.Int8 {
	if c.Kind() != table.KindInt {
		return pgtype.Int8{}
	}
	return pgtype.Int8{Int64: c.Int(), Valid: true}
}

// CellToPgFloat8 returns the cell's float, or NULL for other kinds.
func CellToPgFloat8(c table.Cell) pgtype.Float8 {
	if c.Kind() != table.KindFloat {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: c.Float(), Valid: true}
}

// CellToPgText returns the cell's text, or NULL for other kinds. Empty
// strings are kept: they are values, not missing data.
func CellToPgText(c table.Cell) pgtype.Text {
	if c.Kind() != table.KindString {
		return pgtype.Text{}
	}
	return pgtype.Text{String: c.Text(), Valid: true}
}

// ToPgText converts an optional string; empty means NULL.
func ToPgText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgUUID converts a string to pgtype.UUID.
// Returns invalid if the string is empty or not a valid UUID.
func ToPgUUID(s string) pgtype.UUID {
	if s == "" {
		return pgtype.UUID{}
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}

// PgUUIDToString converts a pgtype.UUID to its string representation.
// Returns empty string if the UUID is invalid.
func PgUUIDToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}
