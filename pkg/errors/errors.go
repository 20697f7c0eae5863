package errors

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryFile          ErrorCategory = "file"
	CategoryParse         ErrorCategory = "parse"
	CategoryValidation    ErrorCategory = "validation"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryPipeline      ErrorCategory = "pipeline"
	CategoryInternal      ErrorCategory = "internal"
)

// ErrorCode represents specific error codes within categories
type ErrorCode string

const (
	// File errors
	CodeFileNotFound   ErrorCode = "file_not_found"
	CodeFilePermission ErrorCode = "file_permission"
	CodeFileWrite      ErrorCode = "file_write"

	// Parse errors
	CodeInvalidFormat ErrorCode = "invalid_format"
	CodeMissingColumn ErrorCode = "missing_column"
	CodeInvalidData   ErrorCode = "invalid_data"

	// Validation errors
	CodeInvalidAmount ErrorCode = "invalid_amount"
	CodeInvalidDate   ErrorCode = "invalid_date"
	CodeMissingField  ErrorCode = "missing_field"
	CodeEmptyDataset  ErrorCode = "empty_dataset"

	// Configuration errors
	CodeInvalidConfig ErrorCode = "invalid_config"
	CodeMissingConfig ErrorCode = "missing_config"

	// Pipeline errors
	CodeMissingPrerequisite ErrorCode = "missing_prerequisite"
	CodeProcessingError     ErrorCode = "processing_error"

	// Internal errors
	CodeUnexpectedError ErrorCode = "unexpected_error"
)

// PipelineError is the base error type for all application errors
type PipelineError struct {
	Category   ErrorCategory     `json:"category"`
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	Suggestion string            `json:"suggestion,omitempty"`
	Context    Context           `json:"context,omitempty"`
	Cause      error             `json:"-"`
	StackTrace errors.StackTrace `json:"-"`
}

// Context provides additional information about the error
type Context map[string]interface{}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (suggestion: %s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// Unwrap returns the underlying cause error
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// GetExitCode returns an appropriate exit code for the error
func (e *PipelineError) GetExitCode() int {
	switch e.Category {
	case CategoryFile:
		return 2
	case CategoryParse, CategoryValidation:
		return 3
	case CategoryConfiguration:
		return 4
	case CategoryPipeline, CategoryInternal:
		return 5
	default:
		return 1
	}
}

// WithContext adds context information to the error
func (e *PipelineError) WithContext(key string, value interface{}) *PipelineError {
	if e.Context == nil {
		e.Context = make(Context)
	}
	e.Context[key] = value
	return e
}

// WithSuggestion adds a suggestion for fixing the error
func (e *PipelineError) WithSuggestion(suggestion string) *PipelineError {
	e.Suggestion = suggestion
	return e
}

// New creates a new PipelineError
func New(category ErrorCategory, code ErrorCode, message string) *PipelineError {
	return &PipelineError{
		Category:   category,
		Code:       code,
		Message:    message,
		StackTrace: errors.New("").(stackTracer).StackTrace(),
	}
}

// Wrap wraps an existing error with PipelineError context
func Wrap(err error, category ErrorCategory, code ErrorCode, message string) *PipelineError {
	if err == nil {
		return nil
	}

	return &PipelineError{
		Category:   category,
		Code:       code,
		Message:    message,
		Cause:      err,
		StackTrace: errors.WithStack(err).(stackTracer).StackTrace(),
	}
}

// stackTracer interface for extracting stack traces
type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Specific error constructors

// FileError creates a file-related error
func FileError(code ErrorCode, path string, err error) *PipelineError {
	var message string
	var suggestion string

	switch code {
	case CodeFileNotFound:
		message = fmt.Sprintf("file not found: %s", path)
		suggestion = "check if the file path is correct and the file exists"
	case CodeFilePermission:
		message = fmt.Sprintf("permission denied accessing file: %s", path)
		suggestion = "check file permissions and ensure you have read access"
	case CodeFileWrite:
		message = fmt.Sprintf("failed to write file: %s", path)
		suggestion = "ensure the output directory exists and is writable"
	default:
		message = fmt.Sprintf("file error: %s", path)
		suggestion = "check the file and try again"
	}

	var result *PipelineError
	if err != nil {
		result = Wrap(err, CategoryFile, code, message)
	} else {
		result = New(CategoryFile, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file_path", path)
}

// MissingPrerequisiteError creates an error for a missing pipeline input,
// naming the command that produces it
func MissingPrerequisiteError(path, producedBy string) *PipelineError {
	return New(
		CategoryPipeline,
		CodeMissingPrerequisite,
		fmt.Sprintf("required input file not found: %s", path),
	).
		WithSuggestion(fmt.Sprintf("run '%s' first to generate it", producedBy)).
		WithContext("file_path", path).
		WithContext("produced_by", producedBy)
}

// ParseError creates a parsing-related error
func ParseError(code ErrorCode, file string, line int, column string, value string, err error) *PipelineError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidFormat:
		message = fmt.Sprintf("invalid format in file %s at line %d, column '%s': '%s'", file, line, column, value)
		suggestion = "check the data format and ensure it matches the expected structure"
	case CodeMissingColumn:
		message = fmt.Sprintf("missing required column '%s' in file %s", column, file)
		suggestion = "verify the file has all required columns with correct headers"
	case CodeInvalidData:
		message = fmt.Sprintf("invalid data in file %s at line %d, column '%s': '%s'", file, line, column, value)
		suggestion = "correct the data format or remove the invalid entry"
	default:
		message = fmt.Sprintf("parse error in file %s at line %d", file, line)
		suggestion = "check the file format and data integrity"
	}

	var result *PipelineError
	if err != nil {
		result = Wrap(err, CategoryParse, code, message)
	} else {
		result = New(CategoryParse, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("file", file).
		WithContext("line", line).
		WithContext("column", column).
		WithContext("value", value)
}

// ValidationError creates a validation-related error
func ValidationError(code ErrorCode, field string, value interface{}, err error) *PipelineError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidAmount:
		message = fmt.Sprintf("invalid amount in field '%s': %v", field, value)
		suggestion = "ensure amounts are valid decimal numbers (e.g., '12.34' or '12,34')"
	case CodeInvalidDate:
		message = fmt.Sprintf("invalid date in field '%s': %v", field, value)
		suggestion = "use date format YYYY-MM-DD (card) or DD/MM/YYYY (checking account)"
	case CodeMissingField:
		message = fmt.Sprintf("required field '%s' is missing or empty", field)
		suggestion = "provide a value for this required field"
	case CodeEmptyDataset:
		message = fmt.Sprintf("no usable records in '%s': %v", field, value)
		suggestion = "check the date window and source files for matching data"
	default:
		message = fmt.Sprintf("validation error in field '%s': %v", field, value)
		suggestion = "check the field value and format"
	}

	var result *PipelineError
	if err != nil {
		result = Wrap(err, CategoryValidation, code, message)
	} else {
		result = New(CategoryValidation, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("field", field).
		WithContext("value", value)
}

// ConfigurationError creates a configuration-related error
func ConfigurationError(code ErrorCode, setting string, value interface{}, err error) *PipelineError {
	var message string
	var suggestion string

	switch code {
	case CodeInvalidConfig:
		message = fmt.Sprintf("invalid configuration for '%s': %v", setting, value)
		suggestion = "check the configuration documentation for valid values"
	case CodeMissingConfig:
		message = fmt.Sprintf("missing required configuration: %s", setting)
		suggestion = "provide this configuration setting or use a config file"
	default:
		message = fmt.Sprintf("configuration error: %s", setting)
		suggestion = "check your configuration and try again"
	}

	var result *PipelineError
	if err != nil {
		result = Wrap(err, CategoryConfiguration, code, message)
	} else {
		result = New(CategoryConfiguration, code, message)
	}

	return result.
		WithSuggestion(suggestion).
		WithContext("setting", setting).
		WithContext("value", value)
}

// ProcessingError creates a pipeline processing error
func ProcessingError(operation string, err error) *PipelineError {
	message := fmt.Sprintf("processing error during %s", operation)

	var result *PipelineError
	if err != nil {
		result = Wrap(err, CategoryPipeline, CodeProcessingError, message)
	} else {
		result = New(CategoryPipeline, CodeProcessingError, message)
	}

	return result.
		WithSuggestion("review the source data and configuration").
		WithContext("operation", operation)
}

// InternalError creates an internal error
func InternalError(operation string, err error) *PipelineError {
	message := fmt.Sprintf("unexpected error during %s", operation)

	var result *PipelineError
	if err != nil {
		result = Wrap(err, CategoryInternal, CodeUnexpectedError, message)
	} else {
		result = New(CategoryInternal, CodeUnexpectedError, message)
	}

	return result.
		WithSuggestion("this is likely a bug - please report it with the error details").
		WithContext("operation", operation)
}

// ErrorSummary provides a summary of multiple errors
type ErrorSummary struct {
	Total      int                   `json:"total"`
	ByCategory map[ErrorCategory]int `json:"by_category"`
	ByCode     map[ErrorCode]int     `json:"by_code"`
	Errors     []*PipelineError      `json:"errors"`
}

// NewErrorSummary creates a new error summary
func NewErrorSummary(errs []*PipelineError) *ErrorSummary {
	summary := &ErrorSummary{
		Total:      len(errs),
		ByCategory: make(map[ErrorCategory]int),
		ByCode:     make(map[ErrorCode]int),
		Errors:     errs,
	}

	for _, err := range errs {
		summary.ByCategory[err.Category]++
		summary.ByCode[err.Code]++
	}

	return summary
}

// Error returns a formatted error message for the summary
func (es *ErrorSummary) Error() string {
	if es.Total == 0 {
		return "no errors"
	}

	if es.Total == 1 {
		return es.Errors[0].Error()
	}

	var categories []string
	for category, count := range es.ByCategory {
		categories = append(categories, fmt.Sprintf("%s: %d", category, count))
	}

	return fmt.Sprintf("%d errors occurred (%s)", es.Total, strings.Join(categories, ", "))
}

// GetExitCode returns the highest priority exit code from all errors
func (es *ErrorSummary) GetExitCode() int {
	if es.Total == 0 {
		return 0
	}

	maxCode := 1
	for _, err := range es.Errors {
		if code := err.GetExitCode(); code > maxCode {
			maxCode = code
		}
	}

	return maxCode
}

// Utility functions

// IsPipelineError checks if an error is a PipelineError
func IsPipelineError(err error) bool {
	_, ok := err.(*PipelineError)
	return ok
}

// AsPipelineError extracts a PipelineError from an error chain
func AsPipelineError(err error) (*PipelineError, bool) {
	var pipelineErr *PipelineError
	if errors.As(err, &pipelineErr) {
		return pipelineErr, true
	}
	return nil, false
}

// WrapIfNeeded wraps an error if it's not already a PipelineError
func WrapIfNeeded(err error, category ErrorCategory, code ErrorCode, message string) *PipelineError {
	if err == nil {
		return nil
	}

	if pipelineErr, ok := AsPipelineError(err); ok {
		return pipelineErr
	}

	return Wrap(err, category, code, message)
}
