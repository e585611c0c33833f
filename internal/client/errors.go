package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	msgUnknown      = "Unknown error"
	msgFailed       = "Request failed"
	msgDeleteFailed = "Delete failed"
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// StatusCode returns the HTTP status carried by err, or 0 when the request
// never produced a response (transport failure) or err is not an API error.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// newAPIError extracts a best-effort message from an error body; fallback
// is used when the body is JSON without a message.
func newAPIError(status int, body []byte, fallback string) *APIError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return &APIError{Status: status, Message: msgUnknown}
	}
	switch {
	case eb.Message != "":
		return &APIError{Status: status, Message: eb.Message}
	case eb.Error != "":
		return &APIError{Status: status, Message: eb.Error}
	default:
		return &APIError{Status: status, Message: fallback}
	}
}
