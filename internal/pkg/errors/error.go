package xerrors

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Common reusable application errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrUnauthorized   = errors.New("unauthorized access")
	ErrSessionExpired = errors.New("session expired or invalid")
	ErrInvalidInput   = errors.New("invalid input")
	ErrConflict       = errors.New("resource already exists")
	ErrNetwork        = errors.New("upstream unreachable")
	ErrTimeout        = errors.New("upstream request timed out")
	ErrUpstream       = errors.New("upstream request failed")
	ErrInternal       = errors.New("internal server error")
)

// DefaultMessage is shown when the upstream gives no usable message.
const DefaultMessage = "something went wrong, please try again"

// APIError is a failure reported by the listing API, either as a non-2xx
// status or as a {status:false} envelope.
type APIError struct {
	StatusCode int
	Message    string
	Kind       error
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = DefaultMessage
	}
	if e.StatusCode == 0 {
		return msg
	}
	return fmt.Sprintf("upstream %d: %s", e.StatusCode, msg)
}

func (e *APIError) Unwrap() error {
	if e.Kind == nil {
		return ErrUpstream
	}
	return e.Kind
}

// KindForStatus maps an upstream HTTP status onto the error taxonomy.
func KindForStatus(status int) error {
	switch {
	case status == 401 || status == 403:
		return ErrUnauthorized
	case status == 404:
		return ErrNotFound
	case status == 400 || status == 422:
		return ErrInvalidInput
	case status == 408 || status == 504:
		return ErrTimeout
	default:
		return ErrUpstream
	}
}

// Transport classifies an error returned by an HTTP round trip.
func Transport(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

// IsNetwork reports whether err is a connectivity or timeout failure.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork) || errors.Is(err, ErrTimeout)
}

// IsAuth reports whether err means the caller has no usable session.
func IsAuth(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrSessionExpired)
}

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Message extracts the user-facing text of err. API errors yield the
// upstream message; everything else falls back to err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return DefaultMessage
	}
	return err.Error()
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
