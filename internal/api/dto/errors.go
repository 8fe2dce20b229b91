package dto

// APIError is the body of every error response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeNotFound        = "not_found"
	ErrCodeBadRequest      = "bad_request"
	ErrCodeInternalError   = "internal_error"
	ErrCodeValidation      = "validation_error"
	ErrCodeRefreshConflict = "refresh_in_progress"
	ErrCodeExportFailed    = "export_failed"
)

// NewAPIError creates a new APIError with the given code and message.
func NewAPIError(code, message string) APIError {
	return APIError{
		Code:    code,
		Message: message,
	}
}

// NotFoundError creates a not found error response.
func NotFoundError(resource string) APIError {
	return NewAPIError(ErrCodeNotFound, resource+" not found")
}

// BadRequestError creates a bad request error response.
func BadRequestError(message string) APIError {
	return NewAPIError(ErrCodeBadRequest, message)
}

// InternalError creates an internal server error response.
func InternalError() APIError {
	return NewAPIError(ErrCodeInternalError, "an internal error occurred")
}

// ValidationError creates a validation error response.
func ValidationError(message string) APIError {
	return NewAPIError(ErrCodeValidation, message)
}

// RefreshConflictError is returned while a refresh is already running.
func RefreshConflictError() APIError {
	return NewAPIError(ErrCodeRefreshConflict, "a refresh is already in progress")
}

// ExportFailedError is returned when the workbook could not be generated.
func ExportFailedError(message string) APIError {
	return NewAPIError(ErrCodeExportFailed, message)
}
