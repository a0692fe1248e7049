package errors

import "errors"

// Domain error kinds. Callers match these with errors.Is.
var (
	// ErrInvalidInput marks a detail record that cannot be bucketed
	// (missing or zero rental date). The record is rejected; no bucket
	// is touched.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRefreshInProgress is returned to detail inserts that arrive
	// inside a refresh suspension window. Inserts are rejected rather
	// than silently dropped or double-applied.
	ErrRefreshInProgress = errors.New("refresh in progress")
)

// Error-type strings used in HTTP error responses.
const (
	HttpInternalError          = "internal_error"
	HttpInvalidJsonError       = "invalid_json"
	HttpInvalidRecordError     = "invalid_record"
	HttpRefreshInProgressError = "refresh_in_progress"
	HttpRefreshFailedError     = "refresh_failed"
)

// ErrorResponse is the error response body for all API endpoints.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
