package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	msg := fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
	if e.Code != "" && !strings.Contains(e.Message, e.Code) {
		msg += " (" + e.Code + ")"
	}
	return msg
}

// APIError is a 2xx response whose envelope reported success=false.
type APIError struct {
	Message string
	Code    string
}

func (e *APIError) Error() string {
	if e.Code != "" && !strings.Contains(e.Message, e.Code) {
		return e.Message + " (" + e.Code + ")"
	}
	return e.Message
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// Message returns the human-readable part of err: the backend's message for
// HTTP and envelope errors, or the error text otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// errorBody covers the error envelopes the backend has used over time:
// {message}, {error: "..."} and {error: {code, message}}.
type errorBody struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Error   json.RawMessage `json:"error"`
}

func (b errorBody) text() (msg, code string) {
	msg, code = b.Message, b.Code
	if len(b.Error) == 0 {
		return msg, code
	}
	var s string
	if json.Unmarshal(b.Error, &s) == nil {
		if msg == "" {
			msg = s
		}
		return msg, code
	}
	var obj struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(b.Error, &obj) == nil {
		if msg == "" {
			msg = obj.Message
		}
		if code == "" {
			code = obj.Code
		}
	}
	return msg, code
}

func parseHTTPError(status int, body []byte) *HTTPError {
	var b errorBody
	if err := json.Unmarshal(body, &b); err != nil {
		msg := http.StatusText(status)
		if msg == "" {
			msg = "Request failed"
		}
		return &HTTPError{StatusCode: status, Message: msg}
	}
	msg, code := b.text()
	if msg == "" {
		msg = "Request failed"
	}
	return &HTTPError{StatusCode: status, Message: msg, Code: code}
}

// checkSuccess returns an APIError when body carries success=false.
func checkSuccess(body []byte, fallback string) error {
	var b errorBody
	if json.Unmarshal(body, &b) != nil || b.Success == nil || *b.Success {
		return nil
	}
	msg, code := b.text()
	if msg == "" {
		msg = fallback
	}
	return &APIError{Message: msg, Code: code}
}
