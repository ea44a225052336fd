package server

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned by handlers when the requested entry does not exist.
var ErrNotFound = errors.New("not found")

// requestError is a client error with an explicit status code.
type requestError struct {
	code int
	msg  string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{code: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}
