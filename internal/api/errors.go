package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound matches any *APIError with status 404
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the booking API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.StatusCode)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// NetworkError wraps a transport failure; no response was received
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// newAPIError extracts a message from the response body: "detail" first,
// then "non_field_errors", then the raw body.
func newAPIError(status int, body []byte) *APIError {
	return &APIError{StatusCode: status, Message: errorMessage(status, body)}
}

func errorMessage(status int, body []byte) string {
	raw := strings.TrimSpace(string(body))

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err == nil {
		if msg := flatten(obj["detail"]); msg != "" {
			return msg
		}
		if msg := flatten(obj["non_field_errors"]); msg != "" {
			return msg
		}
	}
	// a bare ValidationError serialises as a list of strings
	if msg := flatten(body); msg != "" && strings.HasPrefix(raw, "[") {
		return msg
	}
	if raw != "" {
		return raw
	}
	return http.StatusText(status)
}

// flatten turns a JSON string or list of strings into one message
func flatten(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return ""
}
