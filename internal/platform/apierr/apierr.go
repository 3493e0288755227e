package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for the HTTP layer and for callers that branch on it.
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindBadData       Kind = "bad_data"
	KindUnknownType   Kind = "unknown_type"
	KindStoreConflict Kind = "store_conflict"
	KindInternal      Kind = "internal"
)

// Error carries a kind, the operation that failed, a client-safe message and
// the underlying cause.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by kind, so errors.Is(err, apierr.NotFound("", "")) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind
}

// Status maps the kind onto an HTTP status.
func (e *Error) Status() int {
	if e == nil {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindBadData:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text safe to echo to clients. Server faults never leak causes.
func (e *Error) PublicMessage() string {
	if e == nil {
		return "internal error"
	}
	switch e.Kind {
	case KindNotFound:
		if e.Message != "" {
			return e.Message
		}
		return "not found"
	case KindBadData:
		if e.Message != "" {
			return e.Message
		}
		return "bad request"
	case KindStoreConflict:
		return "conflicting update, try again"
	default:
		return "internal error"
	}
}

func New(kind Kind, op, msg string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: msg, Err: err}
}

func NotFound(op, msg string) *Error { return New(KindNotFound, op, msg, nil) }

func BadData(op, msg string) *Error { return New(KindBadData, op, msg, nil) }

func BadDataf(op, format string, args ...any) *Error {
	return New(KindBadData, op, fmt.Sprintf(format, args...), nil)
}

func UnknownType(op, name string) *Error {
	return New(KindUnknownType, op, fmt.Sprintf("unknown type %q", name), nil)
}

func StoreConflict(op string, err error) *Error {
	return New(KindStoreConflict, op, "store conflict", err)
}

func Internal(op string, err error) *Error { return New(KindInternal, op, "", err) }

// MissingRequiredField is the bad-data error raised by entity construction.
func MissingRequiredField(op, typeName, field string) *Error {
	return New(KindBadData, op, fmt.Sprintf("missing required field %q for %s", field, typeName), nil)
}

// ReferenceNotFound is the bad-data error raised when a referenced entity id does not resolve.
func ReferenceNotFound(op, field, id string) *Error {
	return New(KindBadData, op, fmt.Sprintf("referenced %s %q not found", field, id), nil)
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// As returns err as *Error, wrapping unknown errors as internal.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e
	}
	return Internal("", err)
}
