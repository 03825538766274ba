package core

// error_messages.go maps technical errors to user-facing messages with a
// support code.
//
// # Error Codes Reference
//
// # Table Errors (TBL001-TBL099)
//
//	TBL001 - No delimiter: the first line has no comma, semicolon or tab
//	         Action: Save the file as comma, semicolon or tab separated text
//	TBL002 - Column count: a row has a different number of cells than the header
//	         Action: Check the reported line for missing or extra separators
//	TBL003 - Stray quote: a quote appears inside a quoted cell
//	         Action: Double embedded quotes ("") or remove them
//	TBL004 - Cell not found: index out of range, or unknown row key or column
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large
//	FILE002 - Empty file
//	FILE003 - No file provided
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - Too many uploads in progress
//	UPL002 - Upload not found
//	UPL003 - Request cancelled
//	UPL004 - Request timed out
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Connection refused
//	DB002 - Connection reset
//	DB003 - Timeout
//	DB004 - Deadlock
//
// # Rate Limiting (RATE001)
//
// # Default Error (ERR000)
//
// Known sentinel errors are matched with errors.Is first. Anything else is
// matched case-insensitively against message patterns; the first match wins.
// ERR000 means nothing matched and the logs hold the technical error.

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/tblstore/internal/table"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorSentinel struct {
	target error
	msg    UserMessage
}

var errorSentinels = []errorSentinel{
	{table.ErrNoDelimiter, UserMessage{
		Message: "No column separator found in the header line",
		Action:  "Save the file as comma, semicolon or tab separated text",
		Code:    "TBL001",
	}},
	{table.ErrColumnCount, UserMessage{
		Message: "A row has a different number of cells than the header",
		Action:  "Check the reported line for missing or extra separators",
		Code:    "TBL002",
	}},
	{table.ErrBareQuote, UserMessage{
		Message: "A quoted cell contains a stray quote",
		Action:  `Write embedded quotes as "" or remove them`,
		Code:    "TBL003",
	}},
	{ErrCellNotFound, UserMessage{
		Message: "No cell at that position",
		Action:  "Check the row and column against the table's shape and names",
		Code:    "TBL004",
	}},
	{ErrFileTooLarge, UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the file into smaller parts",
		Code:    "FILE001",
	}},
	{ErrEmptyFile, UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Upload a file with a header line",
		Code:    "FILE002",
	}},
	{ErrNoFile, UserMessage{
		Message: "No file was selected",
		Action:  "Choose a file to upload",
		Code:    "FILE003",
	}},
	{ErrTooManyUploads, UserMessage{
		Message: "System is busy processing other uploads",
		Action:  "Please wait a moment and try again",
		Code:    "UPL001",
	}},
	{ErrUploadNotFound, UserMessage{
		Message: "Upload not found",
		Action:  "It may have been deleted. Check the upload list",
		Code:    "UPL002",
	}},
	{context.Canceled, UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL003",
	}},
	{context.DeadlineExceeded, UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or check your connection",
		Code:    "UPL004",
	}},
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns catch errors that arrive without a sentinel, such as driver
// errors. Specific patterns come before general ones.
var errorPatterns = []errorPattern{
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB001",
	}},
	{"connection reset", UserMessage{
		Message: "Database connection was interrupted",
		Action:  "Please try again",
		Code:    "DB002",
	}},
	{"deadlock", UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB004",
	}},
	{"timeout", UserMessage{
		Message: "Operation timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "DB003",
	}},
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Parse
// failures carry the offending line number in the message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, es := range errorSentinels {
		if errors.Is(err, es.target) {
			msg := es.msg
			var pe *table.ParseError
			if errors.As(err, &pe) {
				msg.Message = fmt.Sprintf("%s (line %d)", msg.Message, pe.Line)
			}
			return msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something more specific than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
