package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a remote failure into the categories the views translate
// into user-facing copy. Exactly one kind applies to any failed call.
type Kind string

const (
	KindAuth           Kind = "AUTH_ERROR"
	KindPermission     Kind = "PERMISSION_ERROR"
	KindConflict       Kind = "CONFLICT_ERROR"
	KindNotFound       Kind = "NOT_FOUND"
	KindSessionExpired Kind = "SESSION_EXPIRED"
	KindTransport      Kind = "TRANSPORT_ERROR"
)

type APIError struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.HTTPStatus > 0 {
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Kind, e.Message, e.HTTPStatus)
	}

	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func New(kind Kind, message string, status int) *APIError {
	return &APIError{Kind: kind, Message: message, HTTPStatus: status}
}

// FromStatus maps an HTTP status to the error taxonomy. A 401 is ambiguous on
// its own: during login it means rejected credentials, anywhere else it means
// the session expired, so the caller passes the login flag.
func FromStatus(status int, message string, loginFlow bool) *APIError {
	switch status {
	case http.StatusUnauthorized:
		if loginFlow {
			return New(KindAuth, message, status)
		}
		return New(KindSessionExpired, message, status)
	case http.StatusForbidden:
		return New(KindPermission, message, status)
	case http.StatusNotFound:
		return New(KindNotFound, message, status)
	case http.StatusConflict:
		return New(KindConflict, message, status)
	default:
		return New(KindTransport, message, status)
	}
}

// KindOf extracts the kind from an error chain; non-API errors (network
// failures, decode errors) classify as transport.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}

	return KindTransport
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
