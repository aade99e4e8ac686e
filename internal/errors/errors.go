package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON     = errors.New("invalid JSON format")
	ErrMultipleJSON    = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrInvalidXML      = errors.New("invalid XML document")
	ErrMultipleRoots   = errors.New("XML document must have exactly one root element")
	ErrMalformedRow    = errors.New("malformed CSV row")
	ErrEmptyDataset    = errors.New("dataset has no records")
	ErrNotRecord       = errors.New("value is not a keyed record")
	ErrNestedField     = errors.New("field value is not a scalar")
	ErrInvalidName     = errors.New("not a valid XML name")
	ErrNotSet          = errors.New("slot has not been set")
	ErrFileNotFound    = errors.New("file not found")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrUnknownFormat   = errors.New("unknown data format")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeParsing       ErrorType = "parsing"
	ErrorTypeShape         ErrorType = "unsupported_shape"
	ErrorTypeTagName       ErrorType = "invalid_tag_name"
	ErrorTypeIO            ErrorType = "io"
	ErrorTypeUninitialized ErrorType = "uninitialized_slot"
	ErrorTypeInput         ErrorType = "input"
	ErrorTypeOutput        ErrorType = "output"
	ErrorTypeConfig        ErrorType = "config"
	ErrorTypeUnknown       ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// Kinds usable as errors.Is targets, e.g. errors.Is(err, ParseError).
var (
	ParseError        = &AppError{Type: ErrorTypeParsing}
	UnsupportedShape  = &AppError{Type: ErrorTypeShape}
	InvalidTagName    = &AppError{Type: ErrorTypeTagName}
	IOError           = &AppError{Type: ErrorTypeIO}
	UninitializedSlot = &AppError{Type: ErrorTypeUninitialized}
)

// TypeOf returns the ErrorType of the outermost AppError in err's chain,
// or ErrorTypeUnknown.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeUnknown
}

// NewParsingError creates a new error for malformed CSV, JSON or XML input
func NewParsingError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParsing,
		Message: message,
		Err:     err,
	}
}

// NewShapeError creates a new error for data whose shape a target format cannot hold
func NewShapeError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeShape,
		Message: message,
		Err:     err,
	}
}

// NewTagNameError creates a new error for keys unusable as XML names
func NewTagNameError(name string) *AppError {
	return &AppError{
		Type:    ErrorTypeTagName,
		Message: fmt.Sprintf("%q", name),
		Err:     ErrInvalidName,
	}
}

// NewIOError wraps a failure of the file collaborator
func NewIOError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeIO,
		Message: message,
		Err:     err,
	}
}

// NewUninitializedError reports a read of a slot that was never set
func NewUninitializedError(slot string) *AppError {
	return &AppError{
		Type:    ErrorTypeUninitialized,
		Message: fmt.Sprintf("%s data", slot),
		Err:     ErrNotSet,
	}
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		detail := appErr.Message
		if appErr.Err != nil {
			detail = fmt.Sprintf("%s (%v)", appErr.Message, appErr.Err)
		}
		switch appErr.Type {
		case ErrorTypeParsing:
			return fmt.Sprintf("Parse error: %s", detail)
		case ErrorTypeShape:
			return fmt.Sprintf("Unsupported data shape: %s", detail)
		case ErrorTypeTagName:
			return fmt.Sprintf("Invalid XML name: %s", appErr.Message)
		case ErrorTypeIO:
			return fmt.Sprintf("File error: %s", detail)
		case ErrorTypeUninitialized:
			return fmt.Sprintf("No data loaded: %s", appErr.Message)
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", appErr.Message)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", appErr.Message)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", detail)
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide data to convert."
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Error: The input contains invalid JSON. Please check your JSON syntax."
	}
	if errors.Is(err, ErrInvalidXML) {
		return "Error: The input contains invalid XML. Please check that it is well-formed."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
