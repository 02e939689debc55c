package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is a machine-readable error category returned to API clients
type Kind string

const (
	KindUnauthenticated         Kind = "unauthenticated"
	KindTokenInvalid            Kind = "token_invalid"
	KindTokenRevoked            Kind = "token_revoked"
	KindVerificationUnavailable Kind = "verification_unavailable"
	KindForbidden               Kind = "forbidden"
	KindNotFound                Kind = "not_found"
	KindValidation              Kind = "validation_error"
	KindConflict                Kind = "conflict"
	KindRateLimited             Kind = "rate_limited"
	KindUpstreamUnavailable     Kind = "upstream_unavailable"
	KindInferenceUnavailable    Kind = "inference_unavailable"
	KindInternal                Kind = "internal"
)

// Error carries a Kind alongside a human-readable message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, apperror.ErrNotFound) works
// for every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == "" && t.Err == nil
}

// Sentinels for errors.Is comparisons
var (
	ErrUnauthenticated         = &Error{Kind: KindUnauthenticated}
	ErrTokenInvalid            = &Error{Kind: KindTokenInvalid}
	ErrTokenRevoked            = &Error{Kind: KindTokenRevoked}
	ErrVerificationUnavailable = &Error{Kind: KindVerificationUnavailable}
	ErrForbidden               = &Error{Kind: KindForbidden}
	ErrNotFound                = &Error{Kind: KindNotFound}
	ErrValidation              = &Error{Kind: KindValidation}
	ErrConflict                = &Error{Kind: KindConflict}
	ErrRateLimited             = &Error{Kind: KindRateLimited}
	ErrUpstreamUnavailable     = &Error{Kind: KindUpstreamUnavailable}
	ErrInferenceUnavailable    = &Error{Kind: KindInferenceUnavailable}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

// Upstream wraps a store failure
func Upstream(message string, err error) *Error {
	return Wrap(KindUpstreamUnavailable, message, err)
}

// KindOf returns the kind of err, or KindInternal when err carries none
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Message returns the client-facing detail of err. Store and inference failures carry
// their underlying cause; every other kind returns only its message.
func Message(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return "internal server error"
	}
	if appErr.Message == "" {
		return strings.ReplaceAll(string(appErr.Kind), "_", " ")
	}
	switch appErr.Kind {
	case KindUpstreamUnavailable, KindInferenceUnavailable:
		return appErr.Error()
	}
	return appErr.Message
}

// HTTPStatus maps an error kind to its response status code
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindUnauthenticated, KindTokenInvalid, KindTokenRevoked:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
