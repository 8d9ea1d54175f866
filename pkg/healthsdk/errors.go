package healthsdk

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind classifies an API failure. The cache layer branches on it: an
// authorization failure purges cached data while an unreachable network
// degrades to a stale read, so the two must never be conflated.
type Kind int

const (
	// KindValidation reports malformed request input (HTTP 400/422).
	KindValidation Kind = iota + 1
	// KindAuthorization reports a missing, revoked or expired session
	// (HTTP 401/403).
	KindAuthorization
	// KindNetworkUnavailable reports that the server could not be reached:
	// no connectivity, DNS failure, or timeout.
	KindNetworkUnavailable
	// KindConflict reports that the server rejected a write because its
	// precondition changed (HTTP 404/409/412).
	KindConflict
	// KindServer reports an unexpected remote failure (HTTP 5xx and
	// anything unclassified).
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindNetworkUnavailable:
		return "network_unavailable"
	case KindConflict:
		return "conflict"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// APIError is the error type returned by every SDK operation.
type APIError struct {
	Kind       Kind
	StatusCode int // 0 when the request never reached the server
	Message    string

	cause error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("healthsdk: %s error", e.Kind)
	}
	return fmt.Sprintf("healthsdk: %s: %s", e.Kind, e.Message)
}

func (e *APIError) Unwrap() error { return e.cause }

// kindOf extracts the Kind from err, or 0 if err is not an APIError.
func kindOf(err error) Kind {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}

// IsValidation reports whether err is a malformed-input failure.
func IsValidation(err error) bool { return kindOf(err) == KindValidation }

// IsAuthorization reports whether err is an authorization failure.
func IsAuthorization(err error) bool { return kindOf(err) == KindAuthorization }

// IsNetworkUnavailable reports whether err means the server was unreachable.
func IsNetworkUnavailable(err error) bool { return kindOf(err) == KindNetworkUnavailable }

// IsConflict reports whether err is a precondition conflict.
func IsConflict(err error) bool { return kindOf(err) == KindConflict }

// IsServer reports whether err is an unexpected remote failure.
func IsServer(err error) bool { return kindOf(err) == KindServer }

// kindForStatus maps an HTTP status code to a Kind.
func kindForStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuthorization
	case http.StatusNotFound, http.StatusConflict, http.StatusPreconditionFailed:
		return KindConflict
	default:
		return KindServer
	}
}

// wrapTransportError classifies an error from the HTTP client itself.
// Anything that kept the request from completing counts as the network being
// unavailable; context cancellation passes through untouched so callers can
// distinguish their own teardown from connectivity loss.
func wrapTransportError(err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return &APIError{
			Kind:    KindNetworkUnavailable,
			Message: "server unreachable",
			cause:   err,
		}
	}

	// url.Error wraps everything the transport can produce; without a more
	// specific classification the safe read-path assumption is "offline".
	return &APIError{
		Kind:    KindNetworkUnavailable,
		Message: "request failed before reaching the server",
		cause:   err,
	}
}
