package readability

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType defines the category of an error
type ErrorType string

// Error types
const (
	ParseError      ErrorType = "parse"
	ExtractionError ErrorType = "extraction"
	PaginationError ErrorType = "pagination"
	MetadataError   ErrorType = "metadata"
	CleanupError    ErrorType = "cleanup"
	TimeoutError    ErrorType = "timeout"
)

// Common errors that can be used throughout the package
var (
	ErrNoBody      = errors.New("unable to parse HTML: no body")
	ErrNoContent   = errors.New("could not extract article content")
	ErrFetchFailed = errors.New("next page request failed")
	ErrTimeout     = errors.New("operation timed out")
	ErrMutation    = errors.New("tree rejected mutation")
)

// WrapError wraps an error with context information
func WrapError(err error, errorType ErrorType, funcName, message string) error {
	if err == nil {
		return nil
	}

	if message == "" {
		return fmt.Errorf("[%s:%s] %w", errorType, funcName, err)
	}

	return fmt.Errorf("[%s:%s] %s: %w", errorType, funcName, message, err)
}

// WrapParseError wraps a parsing error
func WrapParseError(err error, funcName, message string) error {
	return WrapError(err, ParseError, funcName, message)
}

// WrapExtractionError wraps an extraction error
func WrapExtractionError(err error, funcName, message string) error {
	return WrapError(err, ExtractionError, funcName, message)
}

// WrapPaginationError wraps a next-page fetch or parse error
func WrapPaginationError(err error, funcName, message string) error {
	return WrapError(err, PaginationError, funcName, message)
}

// WrapMetadataError wraps an author/date/image heuristic failure
func WrapMetadataError(err error, funcName, message string) error {
	return WrapError(err, MetadataError, funcName, message)
}

// WrapCleanupError wraps a failed tree mutation
func WrapCleanupError(err error, funcName, message string) error {
	return WrapError(err, CleanupError, funcName, message)
}

// WrapTimeoutError wraps a deadline or cancellation
func WrapTimeoutError(err error, funcName, message string) error {
	return WrapError(err, TimeoutError, funcName, message)
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errorType ErrorType) bool {
	if err == nil {
		return false
	}

	return strings.Contains(err.Error(), fmt.Sprintf("[%s:", errorType))
}

// IsParseError returns true if the error is a parse error
func IsParseError(err error) bool {
	return IsErrorType(err, ParseError)
}

// IsPaginationError returns true if the error is a pagination error
func IsPaginationError(err error) bool {
	return IsErrorType(err, PaginationError)
}

// IsTimeoutError returns true if the error is a timeout error
func IsTimeoutError(err error) bool {
	return IsErrorType(err, TimeoutError)
}
