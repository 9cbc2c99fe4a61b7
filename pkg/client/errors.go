package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies why a request failed.
type Kind int

const (
	// KindStatus means the server answered with a non-2xx status.
	KindStatus Kind = iota
	// KindNetwork means the request was sent but no response arrived.
	KindNetwork
	// KindConfig means the request could not be constructed.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindConfig:
		return "config"
	}
	return "status"
}

// HTTPError represents a failed API call.
type HTTPError struct {
	Kind       Kind
	StatusCode int
	Message    string
	// Details holds per-field validation messages from 422 responses.
	Details []string
	// Credentialed is true when the failed request carried a bearer token.
	Credentialed bool
	Err          error
}

func (e *HTTPError) Error() string {
	switch e.Kind {
	case KindNetwork:
		return fmt.Sprintf("network error: %v", e.Err)
	case KindConfig:
		return fmt.Sprintf("request error: %v", e.Err)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Kind == KindStatus && httpErr.StatusCode == code
	}
	return false
}

// KindOf returns the failure category of err, if it came from the client.
func KindOf(err error) (Kind, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Kind, true
	}
	return 0, false
}

// UserMessage maps err to the short text shown to the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return err.Error()
	}
	switch httpErr.Kind {
	case KindNetwork:
		return "network connection failed"
	case KindConfig:
		return "request configuration error"
	}

	switch httpErr.StatusCode {
	case http.StatusUnauthorized:
		if !httpErr.Credentialed {
			return fallback(httpErr.serverText(), "invalid username or password")
		}
		return "login expired, please log in again"
	case http.StatusForbidden:
		return "insufficient permissions"
	case http.StatusNotFound:
		return "requested resource does not exist"
	case http.StatusUnprocessableEntity:
		if len(httpErr.Details) > 0 {
			return strings.Join(httpErr.Details, ", ")
		}
		return fallback(httpErr.serverText(), "invalid request parameters")
	case http.StatusInternalServerError:
		return "internal server error"
	}
	return fallback(httpErr.Message, "network error")
}

// ServerMessage returns the message the server sent with a failed response,
// falling back to def when there is none.
func ServerMessage(err error, def string) string {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Kind == KindStatus {
		if len(httpErr.Details) > 0 {
			return strings.Join(httpErr.Details, ", ")
		}
		return fallback(httpErr.serverText(), def)
	}
	return def
}

// serverText is the message the server supplied, or "" when readError had to
// fall back to the generic status text.
func (e *HTTPError) serverText() string {
	if e.Message == http.StatusText(e.StatusCode) {
		return ""
	}
	return e.Message
}

func fallback(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
