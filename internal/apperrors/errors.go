package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for translation at the API boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindPermissionDenied
	KindNotFound
	KindConflict
	KindValidation
	KindInsufficientResource
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindPermissionDenied:
		return "permission_denied"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation_error"
	case KindInsufficientResource:
		return "insufficient_resource"
	}
	return "internal_error"
}

// HTTPStatus is the transport status paired with the envelope code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindPermissionDenied:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	case KindInsufficientResource:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// Error is a domain error with a stable numeric code.
// errors.Is compares codes, so a copy with a more specific message still
// matches its sentinel.
type Error struct {
	Kind    Kind
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithMessage returns a copy of e carrying msg.
func (e *Error) WithMessage(msg string) *Error {
	cp := *e
	cp.Message = msg
	return &cp
}

// Wrap returns a copy of e that wraps cause.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

func New(kind Kind, code int, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

const CodeSuccess = 200

var (
	ErrValidation      = New(KindValidation, 400, "invalid request")
	ErrUnauthenticated = New(KindUnauthenticated, 401, "not logged in")
	ErrAccountBanned   = New(KindPermissionDenied, 403, "account is banned")
	ErrNotFound        = New(KindNotFound, 404, "resource not found")
	ErrInternal        = New(KindInternal, 500, "internal server error")

	ErrUserNotFound      = New(KindNotFound, 1001, "user not found")
	ErrUserAlreadyExists = New(KindConflict, 1002, "user already exists")
	ErrWrongPassword     = New(KindUnauthenticated, 1003, "wrong password")

	ErrQuestionNotFound      = New(KindNotFound, 2001, "question not found")
	ErrCategoryNotFound      = New(KindNotFound, 2002, "category not found")
	ErrAlreadyLiked          = New(KindConflict, 2003, "question already liked")
	ErrNotLiked              = New(KindConflict, 2004, "question not liked")
	ErrAlreadyCollected      = New(KindConflict, 2005, "question already collected")
	ErrNotCollected          = New(KindConflict, 2006, "question not collected")
	ErrCategoryExists        = New(KindConflict, 2007, "category already exists")
	ErrCategoryInUse         = New(KindConflict, 2008, "category still has questions")
	ErrPermissionDenied      = New(KindPermissionDenied, 3001, "permission denied")
	ErrSessionNotFound       = New(KindNotFound, 4001, "mock interview not found")
	ErrAlreadyCompleted      = New(KindConflict, 4002, "mock interview already completed")
	ErrInsufficientQuestions = New(KindInsufficientResource, 4003, "not enough questions match the filters")
)

// Validation builds a validation error with a specific message.
func Validation(msg string) *Error { return ErrValidation.WithMessage(msg) }

// PermissionDenied builds a permission error with a specific message.
func PermissionDenied(msg string) *Error { return ErrPermissionDenied.WithMessage(msg) }

// From extracts the domain error from err. Anything that is not a domain
// error is reported as internal, wrapping the original.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal.Wrap(err)
}

func KindOf(err error) Kind {
	return From(err).Kind
}
