// Package apperr classifies failures surfaced to the dashboard.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindQueryFailure Kind = iota
	KindNotFound
	KindInvalid
	KindConflict
)

// AppError carries a display message and the kind used to pick a status code.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func QueryFailure(msg string, err error) *AppError {
	return &AppError{Kind: KindQueryFailure, Message: msg, Err: err}
}

func Invalid(msg string) *AppError {
	return &AppError{Kind: KindInvalid, Message: msg}
}

func Conflict(msg string) *AppError {
	return &AppError{Kind: KindConflict, Message: msg}
}

// KindOf reports the kind of err. Unclassified errors are query failures.
func KindOf(err error) Kind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindQueryFailure
}

// StatusCode maps err to the HTTP status the API answers with.
func StatusCode(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalid:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
