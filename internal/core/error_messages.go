// Package core provides the business logic for spreadsheet import operations.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// When users encounter errors, they can quote the error code to support staff
// for faster diagnosis.
//
// Error codes are grouped by category:
//
// # File Errors (FILE001-FILE099)
//
// Errors related to file handling and parsing:
//
//	FILE001 - File too large: File exceeds the maximum size limit
//	          Action: Split the file into smaller chunks
//	          Patterns: "file too large", "request body too large"
//
//	FILE002 - Invalid CSV: File is not a valid CSV
//	          Action: Ensure file is comma-separated with consistent columns
//	          Patterns: "invalid csv", "parse csv"
//
//	FILE003 - Invalid workbook: File is not a valid Excel workbook
//	          Action: Re-save the file as .xlsx or export it as CSV
//	          Patterns: "open workbook", "not a valid zip"
//
//	FILE004 - No file: No file was selected
//	          Action: Please select a spreadsheet to import
//	          Patterns: "no file provided"
//
//	FILE005 - Empty file: The uploaded file has no data rows
//	          Action: Please upload a file with a header row and data rows
//	          Patterns: "empty file"
//
// # Validation Errors (VAL001-VAL099)
//
// Errors related to request validation:
//
//	VAL001 - Unknown profile: The mapping profile does not exist
//	         Action: Pick one of the listed profiles
//	         Patterns: "unknown profile"
//
//	VAL002 - Unsupported format: The file type cannot be read
//	         Action: Upload a .csv or .xlsx file
//	         Patterns: "unsupported file type"
//
// # Import Errors (IMP001-IMP099)
//
// Errors related to the import process and session management:
//
//	IMP001 - Import cancelled: Import was cancelled
//	         Action: Start a new import when ready
//	         Patterns: "import cancelled", "context canceled"
//
//	IMP002 - Session expired: Import session not found
//	         Action: The import may have expired. Please start a new import
//	         Patterns: "import not found"
//
//	IMP003 - Import timeout: The import exceeded its time budget
//	         Action: Try importing a smaller file or check your connection
//	         Patterns: "context deadline exceeded", "timeout"
//
//	IMP004 - No data: No import has completed in this session
//	         Action: Import a spreadsheet first
//	         Patterns: "no completed import"
//
// # Enhancement Errors (ENH001-ENH099)
//
// Errors related to the LLM cleanup pass. Note that cleanup failures
// fall back to the mapped records and never fail an import; these codes
// only appear when the boundary itself is misused:
//
//	ENH001 - Cleanup unavailable: No API key is configured
//	         Action: Set OPENAI_API_KEY to enable the cleanup pass
//	         Patterns: "enhancement unavailable"
//
// # Rate Limiting (RATE001-RATE099)
//
// Errors related to request throttling:
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//	          Patterns: "rate limit"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches:
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones. Multiple patterns can map to the same code.
//
// # For Support Staff
//
// When a user reports an error code:
//  1. Look up the code in this reference
//  2. Check the associated patterns to understand what triggered it
//  3. Review the suggested action to guide the user
//  4. If ERR000, check application logs for the original technical error
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// Patterns are matched using strings.Contains, so partial matches work.
// The first matching pattern wins, so order matters:
//   - More specific patterns should come before general ones
//   - Multiple patterns can map to the same error code
//
// To add a new error pattern:
//  1. Choose the appropriate category and code range
//  2. Add the pattern in the correct position (specific before general)
//  3. Update the package documentation at the top of this file
var errorPatterns = []errorPattern{
	// =========================================================================
	// File Errors (FILE001-FILE005)
	// These errors occur when reading uploaded files.
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated with consistent columns",
			Code:    "FILE002",
		},
	},
	{
		pattern: "parse csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Ensure the file is comma-separated with consistent columns",
			Code:    "FILE002",
		},
	},
	{
		pattern: "open workbook",
		msg: UserMessage{
			Message: "File is not a valid Excel workbook",
			Action:  "Re-save the file as .xlsx or export it as CSV",
			Code:    "FILE003",
		},
	},
	{
		pattern: "not a valid zip",
		msg: UserMessage{
			Message: "File is not a valid Excel workbook",
			Action:  "Re-save the file as .xlsx or export it as CSV",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a spreadsheet to import",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file has no data rows",
			Action:  "Please upload a file with a header row and data rows",
			Code:    "FILE005",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL002)
	// These errors occur when a request names resources that do not exist.
	// =========================================================================
	{
		pattern: "unknown profile",
		msg: UserMessage{
			Message: "The mapping profile does not exist",
			Action:  "Pick one of the listed profiles",
			Code:    "VAL001",
		},
	},
	{
		pattern: "unsupported file type",
		msg: UserMessage{
			Message: "The file type cannot be read",
			Action:  "Upload a .csv or .xlsx file",
			Code:    "VAL002",
		},
	},

	// =========================================================================
	// Import Errors (IMP001-IMP004)
	// These errors occur during the import process and session management.
	// =========================================================================
	{
		pattern: "import cancelled",
		msg: UserMessage{
			Message: "Import was cancelled",
			Action:  "Start a new import when ready",
			Code:    "IMP001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Import was cancelled",
			Action:  "Start a new import when ready",
			Code:    "IMP001",
		},
	},
	{
		pattern: "import not found",
		msg: UserMessage{
			Message: "Import session not found",
			Action:  "The import may have expired. Please start a new import",
			Code:    "IMP002",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The import exceeded its time budget",
			Action:  "Try importing a smaller file or check your connection",
			Code:    "IMP003",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The import exceeded its time budget",
			Action:  "Try importing a smaller file or check your connection",
			Code:    "IMP003",
		},
	},
	{
		pattern: "no completed import",
		msg: UserMessage{
			Message: "No import has completed in this session",
			Action:  "Import a spreadsheet first",
			Code:    "IMP004",
		},
	},

	// =========================================================================
	// Enhancement Errors (ENH001)
	// Cleanup failures fall back silently; this only covers misuse of
	// the boundary itself.
	// =========================================================================
	{
		pattern: "enhancement unavailable",
		msg: UserMessage{
			Message: "The cleanup pass is not configured",
			Action:  "Set OPENAI_API_KEY to enable the cleanup pass",
			Code:    "ENH001",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// These errors occur when request limits are exceeded.
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
// This is the fallback for unexpected errors. Support staff should check
// application logs for the original technical error when users report ERR000.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It searches through known error patterns (case-insensitive) and returns
// the first match. If no pattern matches, a generic fallback message with
// code ERR000 is returned.
//
// Example:
//
//	err := errors.New("unknown profile: nope")
//	msg := MapError(err)
//	// msg.Code == "VAL001"
//	// msg.Message == "The mapping profile does not exist"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
//
// Example output: "Import session not found (Code: IMP002). The import may have expired. Please start a new import"
//
// This is the primary function for displaying errors to end users.
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing checks if an error matches a known pattern and should be shown to users.
// Returns true if the error matches a specific pattern (not the generic ERR000 fallback).
// Use this to decide whether to show the raw error or the mapped user message.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	msg := MapError(err)
	return msg.Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean
// message for users.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError creates a UserError by mapping a technical error to a
// user-friendly message. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
