// Package errors/handlers provides interface-specific error handling implementations.
//
// SYSTEM ARCHITECTURE ROLE:
// This module implements the interface layer of the error handling system, providing
// customized error formatting and handling for the terminal interfaces (CLI, TUI).
//
// KEY RESPONSIBILITIES:
// - Convert structured AppErrors into interface-appropriate error representations
// - Provide consistent error logging across all interfaces
// - Keep TUI errors out of the terminal by logging them to a file instead
//
// INTEGRATION POINTS:
// - internal/cli/cli.go: CLI.errorHandler (CLIErrorHandler) formats terminal error display
// - internal/ui/model.go: Model.errorHandler (TUIErrorHandler) formats status bar errors
// - ~/.formloom/logs/error.log: File logging destination for debugging
// - os.Stderr: Console error output with structured logging format
//
// ERROR FLOW:
// 1. Business logic generates AppError
// 2. Interface-specific handler processes the error
// 3. Handler formats error for display
// 4. Handler logs error for debugging
// 5. Formatted error is returned to user
package errors

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
)

// CLIErrorHandler handles errors for CLI interface
type CLIErrorHandler struct {
	Verbose bool
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler(verbose bool) *CLIErrorHandler {
	return &CLIErrorHandler{
		Verbose: verbose,
	}
}

// HandleError handles errors for CLI interface
func (h *CLIErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)

	// Log error for debugging
	if h.Verbose {
		log.Printf("[%s] %s: %s", appErr.Severity, appErr.Code, appErr.Error())
		if appErr.Cause != nil {
			log.Printf("Caused by: %v", appErr.Cause)
		}
	}

	// Return formatted error for display
	return fmt.Errorf("%s", h.FormatError(appErr))
}

// FormatError formats an error for CLI display
func (h *CLIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	// Format based on severity
	switch appErr.Severity {
	case SeverityCritical:
		return fmt.Sprintf("❌ CRITICAL: %s", appErr.Message)
	case SeverityError:
		return fmt.Sprintf("❌ ERROR: %s", appErr.Message)
	case SeverityWarning:
		return fmt.Sprintf("⚠️  WARNING: %s", appErr.Message)
	case SeverityInfo:
		return fmt.Sprintf("ℹ️  INFO: %s", appErr.Message)
	default:
		return fmt.Sprintf("❌ %s", appErr.Message)
	}
}

// TUIErrorHandler handles errors for TUI interface
type TUIErrorHandler struct {
	ShowDetails bool
}

// NewTUIErrorHandler creates a new TUI error handler
func NewTUIErrorHandler(showDetails bool) *TUIErrorHandler {
	return &TUIErrorHandler{
		ShowDetails: showDetails,
	}
}

// HandleError handles errors for TUI interface
func (h *TUIErrorHandler) HandleError(err error) error {
	appErr := GetAppError(err)

	// Log error to file for debugging
	logToFile(appErr)

	return appErr
}

// FormatError formats an error for TUI display
func (h *TUIErrorHandler) FormatError(err error) string {
	appErr := GetAppError(err)

	message := appErr.Message
	if h.ShowDetails && appErr.Details != "" {
		message = fmt.Sprintf("%s\nDetails: %s", message, appErr.Details)
	}

	return message
}

// logToFile logs errors to a file for debugging
func logToFile(appErr *AppError) {
	// Create logs directory if it doesn't exist
	logDir := os.Getenv("FORMLOOM_DIR")
	if logDir == "" {
		logDir = os.ExpandEnv("$HOME/.formloom")
	}
	logDir += "/logs"

	if err := os.MkdirAll(logDir, 0755); err != nil {
		return // Fail silently if we can't create log directory
	}

	logFile := logDir + "/error.log"
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return // Fail silently if we can't open log file
	}
	defer file.Close()

	logEntry := fmt.Sprintf("[%s] [%s] [%s] %s: %s",
		appErr.Timestamp.Format("2006-01-02 15:04:05"),
		appErr.Severity,
		appErr.Category,
		appErr.Code,
		appErr.Error())

	if appErr.Cause != nil {
		logEntry += fmt.Sprintf(" | Cause: %v", appErr.Cause)
	}

	if appErr.Context != nil {
		contextJSON, _ := json.Marshal(appErr.Context)
		logEntry += fmt.Sprintf(" | Context: %s", string(contextJSON))
	}

	logEntry += "\n"

	file.WriteString(logEntry)
}
