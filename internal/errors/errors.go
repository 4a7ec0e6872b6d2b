// Package errors provides unified error handling across the formloom system.
//
// SYSTEM ARCHITECTURE ROLE:
// This module serves as the foundation for error handling across all interfaces (CLI, TUI).
// It standardizes error representation, categorization, and handling patterns throughout the application.
//
// KEY RESPONSIBILITIES:
// - Define standardized error codes and categories for consistent error identification
// - Provide structured error types (AppError) with severity levels and context
// - Enable interface-specific error formatting while maintaining consistent core error data
// - Classify retryable failures so callers can distinguish transient from declaration errors
//
// INTEGRATION POINTS:
// - internal/cli/cli.go: CLIErrorHandler formats AppErrors for terminal display
// - internal/ui/model.go: TUIErrorHandler formats and file-logs bubble tea errors
// - internal/validation/validator.go: ValidationResult.ToAppError() converts validation failures
// - internal/service/service.go: Service layer operations wrap errors as AppErrors
//
// USAGE PATTERNS:
// - Create errors: Use constructor functions like ValidationError(), NotFoundError()
// - Wrap errors: Use Wrap() to add context to existing errors
// - Handle errors: Use error handlers specific to interface (CLI, TUI)
// - Check types: Use IsAppError() and GetAppError() for type-safe error handling
package errors

import (
	"fmt"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidInput      ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField      ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidFormat     ErrorCode = "INVALID_FORMAT"
	ErrCodeInvalidExpression ErrorCode = "INVALID_EXPRESSION"

	// Service errors
	ErrCodeInternalError  ErrorCode = "INTERNAL_ERROR"
	ErrCodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Resource errors
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Storage errors
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	ErrCodeFileNotFound   ErrorCode = "FILE_NOT_FOUND"
	ErrCodeFileCorrupted  ErrorCode = "FILE_CORRUPTED"

	// Command errors
	ErrCodeCommandNotFound ErrorCode = "COMMAND_NOT_FOUND"
	ErrCodeCommandFailed   ErrorCode = "COMMAND_FAILED"
	ErrCodeInvalidCommand  ErrorCode = "INVALID_COMMAND"

	// Import errors
	ErrCodeImportFailure ErrorCode = "IMPORT_FAILURE"

	// Git sync errors
	ErrCodeGitFailure       ErrorCode = "GIT_FAILURE"
	ErrCodeGitConflict      ErrorCode = "GIT_CONFLICT"
	ErrCodeGitNotConfigured ErrorCode = "GIT_NOT_CONFIGURED"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryService    ErrorCategory = "service"
	CategoryStorage    ErrorCategory = "storage"
	CategoryCommand    ErrorCategory = "command"
	CategoryImport     ErrorCategory = "import"
	CategoryGit        ErrorCategory = "git"
	CategorySystem     ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Retryable bool                   `json:"retryable"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether the error is retryable
func (e *AppError) IsRetryable() bool {
	return e.Retryable
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
		Retryable: isRetryable(code),
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Cause:     err,
		Timestamp: time.Now(),
		Retryable: isRetryable(code),
	}
}

// categorizeError determines the category and severity based on error code
func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	// Validation errors: malformed declarations, caught at load time
	case ErrCodeValidation, ErrCodeInvalidInput, ErrCodeMissingField, ErrCodeInvalidFormat, ErrCodeInvalidExpression:
		return CategoryValidation, SeverityWarning

	// Service errors
	case ErrCodeInternalError:
		return CategoryService, SeverityCritical
	case ErrCodeNotImplemented:
		return CategoryService, SeverityInfo

	// Resource errors
	case ErrCodeNotFound:
		return CategoryService, SeverityInfo
	case ErrCodeAlreadyExists:
		return CategoryService, SeverityWarning

	// Storage errors
	case ErrCodeStorageFailure, ErrCodeFileCorrupted:
		return CategoryStorage, SeverityError
	case ErrCodeFileNotFound:
		return CategoryStorage, SeverityInfo

	// Command errors
	case ErrCodeCommandNotFound:
		return CategoryCommand, SeverityInfo
	case ErrCodeCommandFailed, ErrCodeInvalidCommand:
		return CategoryCommand, SeverityError

	// Import errors
	case ErrCodeImportFailure:
		return CategoryImport, SeverityError

	// Git sync errors
	case ErrCodeGitFailure, ErrCodeGitConflict:
		return CategoryGit, SeverityError
	case ErrCodeGitNotConfigured:
		return CategoryGit, SeverityInfo

	default:
		return CategorySystem, SeverityError
	}
}

// isRetryable determines if an error is retryable based on its code.
// Declaration and validation errors are never retryable: they describe a
// malformed form, not a transient condition.
func isRetryable(code ErrorCode) bool {
	switch code {
	case ErrCodeStorageFailure, ErrCodeGitFailure:
		return true
	default:
		return false
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError extracts an AppError from an error, or converts it to one
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, "Internal error occurred")
}

// Common error constructors for frequently used errors
func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func AlreadyExistsError(resource string) *AppError {
	return NewAppError(ErrCodeAlreadyExists, fmt.Sprintf("%s already exists", resource))
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternalError, message)
}

func StorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageFailure, fmt.Sprintf("Storage operation failed: %s", operation))
}

func ImportError(source string, err error) *AppError {
	return Wrap(err, ErrCodeImportFailure, fmt.Sprintf("Import failed: %s", source))
}

func GitError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeGitFailure, fmt.Sprintf("Git operation failed: %s", operation))
}

func CommandNotFoundError(command string) *AppError {
	return NewAppError(ErrCodeCommandNotFound, fmt.Sprintf("Command '%s' not found", command))
}

func InvalidCommandError(command string, reason string) *AppError {
	return NewAppError(ErrCodeInvalidCommand, fmt.Sprintf("Invalid command '%s': %s", command, reason))
}
