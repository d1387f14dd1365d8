package apperrors

import "errors"

// Resource errors
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")
)

// Validation errors are detected before any external call is made
var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrBadRequest         = errors.New("bad request")
	ErrInvalidAction      = errors.New("invalid action")
	ErrUnsupportedChannel = errors.New("unsupported channel")
	ErrRecipientRequired  = errors.New("recipient required")
)

// External collaborator errors
var (
	// ErrConfiguration marks a missing credential or setting for one operation
	ErrConfiguration = errors.New("configuration error")
	// ErrTransport marks network failures and non-2xx responses
	ErrTransport = errors.New("transport error")
	// ErrUpstream marks an error reported by a third-party service in its payload
	ErrUpstream = errors.New("upstream service error")
	// ErrParse marks a response that was expected to be structured but was not
	ErrParse = errors.New("invalid data format")
)

// Authentication errors
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Domain not-found errors
var (
	ErrStudentNotFound     = NewResourceNotFoundError("student not found")
	ErrApplicationNotFound = NewResourceNotFoundError("application not found")
	ErrDocumentNotFound    = NewResourceNotFoundError("document not found")
	ErrUniversityNotFound  = NewResourceNotFoundError("university not found")
	ErrChecklistItemAbsent = NewResourceNotFoundError("checklist item not found")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying a user-facing message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// NewConfigurationError names the missing configuration value
func NewConfigurationError(message string) error {
	return &CustomError{
		Err:     ErrConfiguration,
		Message: message,
	}
}

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
