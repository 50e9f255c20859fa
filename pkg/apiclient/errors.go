package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnsuccessful marks a 2xx response whose envelope did not report success.
var ErrUnsuccessful = errors.New("request was not successful")

type Error struct {
	Method   string
	Endpoint string
	Status   int
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s request to endpoint %s returned status %d: %s", e.Method, e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("%s request to endpoint %s returned status %d", e.Method, e.Endpoint, e.Status)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports 401 and 403 responses, both of which mean "log in again".
func IsUnauthorized(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
	}
	return false
}

func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// StatusOf returns the upstream status code, or 0 when err did not come from a response.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Message turns err into a short string fit to show next to a control.
func Message(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
