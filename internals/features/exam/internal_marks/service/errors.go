package service

import (
	"errors"
	"fmt"
	"strings"
)

/* ===============================
   Batch-level errors
=================================*/

// Batch-level error codes. These abort the whole submission before any
// row is touched; everything else is recovered per row.
const (
	CodeMissingRequiredScope = "MissingRequiredScope"
	CodeDuplicateFile        = "DuplicateFile"
	CodeDatabaseError        = "DatabaseError"
)

// BatchError is fatal for the submission: no partial processing happens.
type BatchError struct {
	Code    string
	Message string
	Err     error
}

func (e *BatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BatchError) Unwrap() error { return e.Err }

func NewMissingScopeError(message string) *BatchError {
	return &BatchError{Code: CodeMissingRequiredScope, Message: message}
}

func NewDuplicateFileError() *BatchError {
	return &BatchError{Code: CodeDuplicateFile, Message: "This file has already been uploaded"}
}

func NewBatchDatabaseError(message string, err error) *BatchError {
	return &BatchError{Code: CodeDatabaseError, Message: message, Err: err}
}

// AsBatchError unwraps err into a *BatchError, if it is one.
func AsBatchError(err error) (*BatchError, bool) {
	var be *BatchError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

/* ===============================
   Postgres error mapping
=================================*/

// pgSQLErr lets us read SQLSTATE without importing the driver directly.
type pgSQLErr interface {
	SQLState() string
	Error() string
}

func sqlState(err error) string {
	var pgErr pgSQLErr
	if errors.As(err, &pgErr) {
		return pgErr.SQLState()
	}
	return ""
}

// 23505 unique_violation
func isUniqueViolation(err error) bool {
	if sqlState(err) == "23505" {
		return true
	}
	s := strings.ToLower(errString(err))
	return strings.Contains(s, "duplicate key") || strings.Contains(s, "unique constraint")
}

// 23503 foreign_key_violation
func isForeignKeyViolation(err error) bool {
	if sqlState(err) == "23503" {
		return true
	}
	s := strings.ToLower(errString(err))
	return strings.Contains(s, "sqlstate 23503") || strings.Contains(s, "foreign key")
}

// foreignKeyMessage narrows an FK violation to the referenced field so
// the uploader sees which identifier went stale.
func foreignKeyMessage(err error) string {
	s := strings.ToLower(errString(err))
	switch {
	case strings.Contains(s, "student_id"):
		return "Student record not found in students table. The student may have been deleted or not properly registered."
	case strings.Contains(s, "course_id"):
		return "Course not found in courses table."
	case strings.Contains(s, "submitted_by"):
		return "Invalid faculty/user ID."
	default:
		return fmt.Sprintf("Foreign key constraint violation: %v", err)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
