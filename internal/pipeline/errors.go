// Package pipeline turns a raw request payload into a sanitized username by
// validating the prompt, asking a generation provider for a candidate and
// normalizing whatever text comes back.
package pipeline

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindInvalidInput        ErrorKind = "invalid_input"
	KindProviderUnavailable ErrorKind = "provider_unavailable"
	KindProviderError       ErrorKind = "provider_error"
	KindEmptyResult         ErrorKind = "empty_result"
)

// Error is the only error type returned by Pipeline.Generate. Detail is meant
// for logs; callers facing end users should use UserMessage.
type Error struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so the Err* sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// UserMessage is safe to return to callers.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindInvalidInput:
		return e.Detail
	case KindEmptyResult:
		return "no identifier could be generated, try a different prompt"
	default:
		return "generation failed"
	}
}

func (e *Error) StatusCode() int {
	if e.Kind == KindInvalidInput {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

var (
	ErrInvalidInput        = &Error{Kind: KindInvalidInput}
	ErrProviderUnavailable = &Error{Kind: KindProviderUnavailable}
	ErrProviderError       = &Error{Kind: KindProviderError}
	ErrEmptyResult         = &Error{Kind: KindEmptyResult}
)

func InvalidInput(detail string) *Error {
	return &Error{Kind: KindInvalidInput, Detail: detail}
}

func Unavailable(detail string, err error) *Error {
	return &Error{Kind: KindProviderUnavailable, Detail: detail, Err: err}
}

func ProviderFailure(detail string, err error) *Error {
	return &Error{Kind: KindProviderError, Detail: detail, Err: err}
}

func EmptyResult(detail string) *Error {
	return &Error{Kind: KindEmptyResult, Detail: detail}
}

// KindOf reports the kind of a pipeline error, or "" when err is not one.
func KindOf(err error) ErrorKind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return ""
}
