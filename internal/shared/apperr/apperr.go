// Package apperr is the error taxonomy shared by every domain. Each Kind maps
// to exactly one HTTP status; domain packages declare their sentinels as
// *Error values and callers match them with errors.Is.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindInvalidID
	KindUnauthorized
	KindNotFound
	KindTooManyRequests
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindInvalidID:
		return "INVALID_ID"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindNotFound:
		return "NOT_FOUND"
	case KindTooManyRequests:
		return "TOO_MANY_REQUESTS"
	}
	return "INTERNAL_SERVER_ERROR"
}

// HTTPStatus returns the status code a Kind is rendered with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindInvalidID:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// Error is a classified, client-safe error.
type Error struct {
	Kind    Kind
	Code    string            // machine readable, e.g. "BLOG_NOT_FOUND"
	Message string            // safe to show to the client
	Fields  map[string]string // field level validation messages
	Err     error             // underlying cause, never rendered
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two *Error values by Code so that a sentinel still matches
// after being copied with WithCause or WithFields.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Kind == t.Kind
}

// WithCause returns a copy of e carrying cause.
func (e *Error) WithCause(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

// WithFields returns a copy of e carrying field messages.
func (e *Error) WithFields(fields map[string]string) *Error {
	cp := *e
	cp.Fields = fields
	return &cp
}

// ============================================
// CONSTRUCTORS
// ============================================

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Validation(message string) *Error {
	return New(KindValidation, KindValidation.String(), message)
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func InvalidID(id string) *Error {
	return &Error{
		Kind:    KindInvalidID,
		Code:    KindInvalidID.String(),
		Message: "malformatted id",
		Fields:  map[string]string{"id": id},
	}
}

// FromValidation converts ozzo-validation output into a KindValidation error.
// validation.Errors become field messages; the client message lists them in
// field order, e.g. "password: password missing; username: `username` is required".
func FromValidation(err error) error {
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		var internal validation.InternalError
		if errors.As(err, &internal) {
			return err
		}
		return Validation(err.Error())
	}

	fields := make(map[string]string, len(verrs))
	names := make([]string, 0, len(verrs))
	for name, ferr := range verrs {
		if ferr == nil {
			continue
		}
		fields[name] = ferr.Error()
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+fields[name])
	}

	return &Error{
		Kind:    KindValidation,
		Code:    KindValidation.String(),
		Message: strings.Join(parts, "; "),
		Fields:  fields,
		Err:     err,
	}
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf classifies any error; unclassified errors are KindInternal.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}
