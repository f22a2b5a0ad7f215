package core

// # Error Codes Reference
//
// This file maps errors to user-facing messages with codes for support
// reference. The importer prints the code next to the technical error so a
// failed run can be diagnosed from its last line.
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - File not found: A source file is missing or unreadable
//	         Action: Check IMPORT_DATA_DIR and the players/ and events/ layout
//
//	SRC002 - Missing column: A required column is missing from the header
//	         Action: Compare the header with the expected column names
//
//	SRC003 - Invalid row: A cell could not be parsed (date, number, flag)
//	         Action: Fix the value on the reported line
//
//	SRC004 - Competition rows: A competition file does not hold exactly one row
//	         Action: Keep one competition per file
//
// # Store Errors (DB001-DB099)
//
//	DB001 - Duplicate: A unique value (competition code) already exists
//	        Action: The file was imported before; imports are append-only
//
//	DB002 - Foreign key: A referenced record does not exist
//	        Action: Check region and type ids against the reference tables
//
//	DB003 - Constraint: The store rejected a row (missing or invalid value)
//	        Action: Fix the reported line and run again
//
//	DB004 - Connection: Unable to reach the store
//	        Action: Check the DB_* settings and that the database is running
//
//	DB005 - Schema: The store does not have the expected tables or columns
//	        Action: Create the schema before importing
//
// # Run Errors (RUN001-RUN099)
//
//	RUN001 - Interrupted: The run was cancelled
//	RUN002 - Timed out: A store call exceeded its deadline
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Check the log for the technical error
//
// # Matching
//
// Sentinels are matched with errors.Is first. Text patterns are matched
// case-insensitively with strings.Contains and catch driver errors that
// arrive unclassified. The first match wins, so specific entries come first.

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/JonMunkholm/standings/internal/schema"
	"github.com/JonMunkholm/standings/internal/store"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern matches an error and carries its user message.
type errorPattern struct {
	match func(error) bool
	msg   UserMessage
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func contains(patterns ...string) func(error) bool {
	return func(err error) bool {
		s := strings.ToLower(err.Error())
		for _, p := range patterns {
			if strings.Contains(s, p) {
				return true
			}
		}
		return false
	}
}

var errorPatterns = []errorPattern{
	// =========================================================================
	// Run Errors (RUN001-RUN002)
	// =========================================================================
	{
		match: is(context.Canceled),
		msg: UserMessage{
			Message: "Import was interrupted",
			Action:  "Run the importer again; completed steps are already stored",
			Code:    "RUN001",
		},
	},
	{
		match: is(context.DeadlineExceeded),
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Check the database load or raise DB_CONNECT_TIMEOUT",
			Code:    "RUN002",
		},
	},

	// =========================================================================
	// Source Errors (SRC001-SRC004)
	// =========================================================================
	{
		match: is(ErrCompetitionRows),
		msg: UserMessage{
			Message: "Competition file must contain exactly one competition",
			Action:  "Keep one competition per file",
			Code:    "SRC004",
		},
	},
	{
		match: is(ErrInvalidRow),
		msg: UserMessage{
			Message: "Invalid value in source file",
			Action:  "Fix the value on the reported line",
			Code:    "SRC003",
		},
	},
	{
		match: contains("missing required column"),
		msg: UserMessage{
			Message: "Required column is missing from CSV",
			Action:  "Compare the header with the expected column names",
			Code:    "SRC002",
		},
	},
	{
		match: is(fs.ErrNotExist),
		msg: UserMessage{
			Message: "Source file not found",
			Action:  "Check IMPORT_DATA_DIR and the players/ and events/ layout",
			Code:    "SRC001",
		},
	},
	{
		match: contains("invalid csv"),
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated with consistent quoting",
			Code:    "SRC003",
		},
	},

	// =========================================================================
	// Store Errors (DB001-DB005)
	// =========================================================================
	{
		match: store.IsUniqueViolation,
		msg: UserMessage{
			Message: "A record with this key already exists",
			Action:  "The file was imported before; imports are append-only",
			Code:    "DB001",
		},
	},
	{
		match: store.IsForeignKeyViolation,
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Check region and type ids against the reference tables",
			Code:    "DB002",
		},
	},
	{
		match: store.IsConstraint,
		msg: UserMessage{
			Message: "The store rejected a row",
			Action:  "Fix the reported line and run again",
			Code:    "DB003",
		},
	},
	{
		match: store.IsConnection,
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Check the DB_* settings and that the database is running",
			Code:    "DB004",
		},
	},
	{
		match: contains("connection refused", "connection reset", "no such host"),
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Check the DB_* settings and that the database is running",
			Code:    "DB004",
		},
	},
	{
		match: is(schema.ErrMismatch),
		msg: UserMessage{
			Message: "Database schema does not match",
			Action:  "Create the schema before importing",
			Code:    "DB005",
		},
	},
	{
		match: is(ErrSource),
		msg: UserMessage{
			Message: "Source file could not be read",
			Action:  "Check the file named in the error",
			Code:    "SRC001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check the log for the technical error",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// The first matching pattern wins. If none matches, a generic fallback
// message with code ERR000 is returned.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, ep := range errorPatterns {
		if ep.match(err) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
