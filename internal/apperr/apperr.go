// Package apperr defines the abstract error taxonomy and the HTTP status
// each kind maps to. Kinds are carried as plain values wrapped with
// github.com/pkg/errors so the underlying cause and stack survive through
// the ingest/query layers to the surface adapter.
package apperr

import (
	"net/http"

	"github.com/pkg/errors"
)

// Kind is one of the abstract error kinds.
type Kind int

const (
	// KindInternal is the zero value so an unclassified error maps to 500,
	// the unreachable-invariant-violation default.
	KindInternal Kind = iota
	KindSourceUnavailable
	KindParseRow
	KindValidation
	KindNotFound
	KindTimeout
	KindOverCapacity
)

// Code is the machine-readable string used in the error envelope.
func (k Kind) Code() string {
	switch k {
	case KindSourceUnavailable:
		return "SERVICE_UNAVAILABLE"
	case KindParseRow:
		return "VALIDATION_ERROR"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindNotFound:
		return "HOTEL_NOT_FOUND"
	case KindTimeout:
		return "TIMEOUT_ERROR"
	case KindOverCapacity:
		return "SERVICE_UNAVAILABLE"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

// Status is the HTTP status the surface adapter responds with.
func (k Kind) Status() int {
	switch k {
	case KindSourceUnavailable, KindOverCapacity:
		return http.StatusServiceUnavailable
	case KindValidation, KindParseRow:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// appError pairs a Kind with the wrapped cause.
type appError struct {
	kind Kind
	details []string
	cause error
}

func (e *appError) Error() string {
	if e.cause == nil {
		return e.kind.Code()
	}
	return e.cause.Error()
}

func (e *appError) Unwrap() error { return e.cause }

// New builds a classified error with a message.
func New(kind Kind, message string) error {
	return &appError{kind: kind, cause: errors.New(message)}
}

// Wrap classifies an existing error, preserving its stack via pkg/errors.
func Wrap(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &appError{kind: kind, cause: errors.Wrap(err, message)}
}

// WithDetails attaches structured field-level details.
func WithDetails(err error, details ...string) error {
	ae, ok := asAppError(err)
	if !ok {
		return err
	}
	ae.details = append(ae.details, details...)
	return ae
}

// Details returns any attached field-level details.
func Details(err error) []string {
	ae, ok := asAppError(err)
	if !ok {
		return nil
	}
	return ae.details
}

// KindOf extracts the Kind of err, defaulting to KindInternal when err was
// never classified — an unreachable-invariant violation in practice.
func KindOf(err error) Kind {
	ae, ok := asAppError(err)
	if !ok {
		return KindInternal
	}
	return ae.kind
}

func asAppError(err error) (*appError, bool) {
	for err != nil {
		if ae, ok := err.(*appError); ok {
			return ae, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
