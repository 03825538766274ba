package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/JonMunkholm/tblstore/internal/table"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name: "nil error returns empty",
		},
		{
			name:        "column count with line number",
			err:         &table.ParseError{Line: 3, Err: table.ErrColumnCount, Want: 3, Got: 2},
			wantCode:    "TBL002",
			wantMessage: "A row has a different number of cells than the header (line 3)",
		},
		{
			name:        "wrapped parse error",
			err:         fmt.Errorf("parse a.csv: %w", &table.ParseError{Line: 1, Err: table.ErrNoDelimiter}),
			wantCode:    "TBL001",
			wantMessage: "No column separator found in the header line (line 1)",
		},
		{
			name:        "bare quote",
			err:         &table.ParseError{Line: 2, Err: table.ErrBareQuote},
			wantCode:    "TBL003",
			wantMessage: "A quoted cell contains a stray quote (line 2)",
		},
		{
			name:        "file too large",
			err:         fmt.Errorf("upload: %w", ErrFileTooLarge),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum upload size",
		},
		{
			name:        "limiter full",
			err:         ErrTooManyUploads,
			wantCode:    "UPL001",
			wantMessage: "System is busy processing other uploads",
		},
		{
			name:        "unknown upload",
			err:         fmt.Errorf("load: %w", ErrUploadNotFound),
			wantCode:    "UPL002",
			wantMessage: "Upload not found",
		},
		{
			name:        "deadline",
			err:         fmt.Errorf("copy cells: %w", context.DeadlineExceeded),
			wantCode:    "UPL004",
			wantMessage: "Request timed out",
		},
		{
			name:        "connection refused pattern",
			err:         errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"),
			wantCode:    "DB001",
			wantMessage: "Unable to connect to database",
		},
		{
			name:        "case insensitive pattern",
			err:         errors.New("ERROR: DEADLOCK detected"),
			wantCode:    "DB004",
			wantMessage: "Database was busy with conflicting operations",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(ErrEmptyFile)
	want := "The uploaded file is empty (Code: FILE002). Upload a file with a header line"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
	if FormatUserError(nil) != "" {
		t.Error("FormatUserError(nil) should be empty")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error is not user facing", nil, false},
		{"sentinel is user facing", ErrNoFile, true},
		{"unknown error is not user facing", errors.New("xyz"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	if got := NewUserError(nil); got != nil {
		t.Errorf("NewUserError(nil) = %v, want nil", got)
	}

	techErr := fmt.Errorf("save: %w", ErrTooManyUploads)
	userErr := NewUserError(techErr)
	if userErr.Error() != "System is busy processing other uploads" {
		t.Errorf("Error() = %q, want user message", userErr.Error())
	}
	if !errors.Is(userErr, ErrTooManyUploads) {
		t.Error("Unwrap() should expose the original error")
	}
}
