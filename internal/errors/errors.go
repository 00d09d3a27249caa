package errors

import (
	"errors"
	"net/http"
	"sort"
	"strings"
)

var (
	// ErrUserNotFound is returned when no account exists for an email or id.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrCarNotFound is returned when a listing id does not exist.
	ErrCarNotFound = errors.New("listing not found")
	// ErrBrandNotFound is returned when a brand id does not exist.
	ErrBrandNotFound = errors.New("brand not found")
	// ErrModelNotFound is returned when a model id does not exist.
	ErrModelNotFound = errors.New("model not found")
	// ErrFeatureNotFound is returned when a feature id does not exist.
	ErrFeatureNotFound = errors.New("feature not found")
	// ErrModelBrandMismatch is returned when the model does not belong to the selected brand.
	ErrModelBrandMismatch = errors.New("model does not belong to the selected brand")
	// ErrNotOwner is returned when a caller edits a listing they do not own.
	ErrNotOwner = errors.New("listing belongs to another user")
	// ErrTooManyImages is returned when an upload would exceed the per-listing cap.
	ErrTooManyImages = errors.New("too many images for listing")
)

// ValidationError carries per-field messages collected before anything is
// persisted, so the caller can redisplay the form.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

// NewValidation creates an empty validation error to collect field messages.
func NewValidation() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records a message for a field, keeping the first one per field.
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e.Fields[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Code   string            `json:"code"`
	Fields map[string]string `json:"fields,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Fields     map[string]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:  e.Message,
		Code:   e.Code,
		Fields: e.Fields,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Raw store errors never
// reach the client.
func MapErrorToHTTP(err error) *HTTPError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		httpErr := NewHTTPError(http.StatusBadRequest, "validation failed", "VALIDATION_FAILED")
		httpErr.Fields = ve.Fields
		return httpErr
	}
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrCarNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "LISTING_NOT_FOUND")
	case errors.Is(err, ErrBrandNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "BRAND_NOT_FOUND")
	case errors.Is(err, ErrModelNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "MODEL_NOT_FOUND")
	case errors.Is(err, ErrFeatureNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "FEATURE_NOT_FOUND")
	case errors.Is(err, ErrModelBrandMismatch):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "MODEL_BRAND_MISMATCH")
	case errors.Is(err, ErrNotOwner):
		return NewHTTPError(http.StatusForbidden, err.Error(), "NOT_OWNER")
	case errors.Is(err, ErrTooManyImages):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TOO_MANY_IMAGES")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
