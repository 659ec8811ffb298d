package client

import (
	"errors"
	"fmt"
)

// ErrMissingToken is returned when the API token is not configured.
var ErrMissingToken = errors.New("api token is required")

// APIError represents a failed campaign API request with enough context to
// distinguish transport failures from remote rejections. Any APIError is
// fatal for an export run: the pipeline aborts without retrying.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	Endpoint   string
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("campaign API %s error (status %d) on %s: %s: %v",
			e.ErrorClass, e.StatusCode, e.Endpoint, e.Message, e.Err)
	}
	return fmt.Sprintf("campaign API %s error (status %d) on %s: %s",
		e.ErrorClass, e.StatusCode, e.Endpoint, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}
