package cmd

import (
	"fmt"
	"os"
	"strings"
	"syscall"

	"finfeed/pkg/errors"
	"finfeed/pkg/logger"

	"github.com/spf13/viper"
)

// CLIErrorHandler provides user-friendly error handling for CLI operations
type CLIErrorHandler struct {
	logger  logger.Logger
	verbose bool
}

// NewCLIErrorHandler creates a new CLI error handler
func NewCLIErrorHandler() *CLIErrorHandler {
	return &CLIErrorHandler{
		logger:  logger.GetGlobalLogger().WithComponent("cli"),
		verbose: viper.GetBool("verbose"),
	}
}

// HandleError handles errors and returns the process exit code
func (h *CLIErrorHandler) HandleError(err error) int {
	if err == nil {
		return 0
	}

	h.logger.WithError(err).Error("Command failed")

	if summary, ok := err.(*errors.ErrorSummary); ok {
		return h.handleErrorSummary(summary)
	}

	if pipelineErr, ok := errors.AsPipelineError(err); ok {
		return h.handlePipelineError(pipelineErr)
	}

	return h.handleGenericError(err)
}

// handleErrorSummary prints each collected error and returns the highest
// priority exit code among them
func (h *CLIErrorHandler) handleErrorSummary(summary *errors.ErrorSummary) int {
	fmt.Fprintf(os.Stderr, "Error: %s\n", summary.Error())
	for _, e := range summary.Errors {
		fmt.Fprintf(os.Stderr, "  - %s\n", e.Message)
	}
	return summary.GetExitCode()
}

// handlePipelineError handles PipelineError with detailed context
func (h *CLIErrorHandler) handlePipelineError(err *errors.PipelineError) int {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Message)

	if len(err.Context) > 0 {
		fmt.Fprintf(os.Stderr, "\nContext:\n")
		for key, value := range err.Context {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", key, value)
		}
	}

	if err.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "\nSuggestion: %s\n", err.Suggestion)
	}

	fmt.Fprintf(os.Stderr, "\n%s\n", h.getCategoryHelp(err.Category))

	if h.verbose && err.Cause != nil {
		fmt.Fprintf(os.Stderr, "\nUnderlying error: %v\n", err.Cause)
	}

	return err.GetExitCode()
}

// handleGenericError handles non-PipelineError types
func (h *CLIErrorHandler) handleGenericError(err error) int {
	if h.isFileNotFoundError(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found\n")
		fmt.Fprintf(os.Stderr, "Suggestion: Check if the file path is correct and the file exists\n")
		return 2
	}

	if h.isPermissionError(err) {
		fmt.Fprintf(os.Stderr, "Error: Permission denied\n")
		fmt.Fprintf(os.Stderr, "Suggestion: Check file permissions and ensure you have read access\n")
		return 2
	}

	if h.isDiskFullError(err) {
		fmt.Fprintf(os.Stderr, "Error: Insufficient disk space\n")
		fmt.Fprintf(os.Stderr, "Suggestion: Free up disk space and try again\n")
		return 2
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	if !h.verbose {
		fmt.Fprintf(os.Stderr, "\nFor more details, run with --verbose flag\n")
	}

	return 1
}

// getCategoryHelp returns category-specific help text
func (h *CLIErrorHandler) getCategoryHelp(category errors.ErrorCategory) string {
	switch category {
	case errors.CategoryFile:
		return `File error help:
• Check if the file exists and is readable
• Verify the file path is correct (use absolute paths if needed)
• Ensure you have proper permissions to access the file`

	case errors.CategoryParse:
		return `Parse error help:
• Verify the CSV file format and structure
• Check for proper column headers and data types
• Ensure the file uses UTF-8 encoding
• Use 'finfeed --help' for examples of correct file formats`

	case errors.CategoryValidation:
		return `Validation error help:
• Check that all required fields have values
• Verify card dates use YYYY-MM-DD and checking dates use DD/MM/YYYY
• Ensure amounts are decimal numbers without currency symbols`

	case errors.CategoryConfiguration:
		return `Configuration error help:
• Check your command-line flags and arguments
• Verify configuration file syntax if using --config
• Try running with default settings first`

	case errors.CategoryPipeline:
		return `Pipeline error help:
• Run the pipeline steps in order: consolidate first, then build
• Check that the expected intermediate files are present
• Verify the date window matches the data in your source files`

	default:
		return `For more help:
• Use 'finfeed --help' for general help
• Use 'finfeed <command> --help' for command-specific help`
	}
}

// Error detection helpers

func (h *CLIErrorHandler) isFileNotFoundError(err error) bool {
	return os.IsNotExist(err) || strings.Contains(err.Error(), "no such file or directory")
}

func (h *CLIErrorHandler) isPermissionError(err error) bool {
	return os.IsPermission(err) ||
		strings.Contains(err.Error(), "permission denied") ||
		strings.Contains(err.Error(), "access denied")
}

func (h *CLIErrorHandler) isDiskFullError(err error) bool {
	if err == syscall.ENOSPC {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "no space left") ||
		strings.Contains(errStr, "disk full") ||
		strings.Contains(errStr, "device full")
}
