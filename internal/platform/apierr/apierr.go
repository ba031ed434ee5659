package apierr

import (
	"fmt"
	"net/http"
)

const (
	CodeInvalidRequest = "invalid_request"
	CodeInternal       = "internal_error"
)

// Error carries the HTTP status and machine-readable code an API failure maps to.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Err != nil:
		return e.Err.Error()
	case e.Code != "":
		return e.Code
	default:
		return fmt.Sprintf("api error (%d)", e.Status)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func BadRequest(err error) *Error {
	return New(http.StatusBadRequest, CodeInvalidRequest, err)
}
