package api

import (
	"errors"
	"fmt"
)

// Error codes, one per failure class a call can hit.
const (
	CodeTransport = "TRANSPORT"
	CodeDecode    = "DECODE"
	CodeServer    = "SERVER"
)

// Error carries what the notification layer needs to show: a code for the
// failure class plus the user-facing title and message. Title and Message
// come from the server envelope when the server reported the failure.
type Error struct {
	Code    string
	Title   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func transportError(err error) *Error {
	return &Error{
		Code:    CodeTransport,
		Title:   "Connection failed",
		Message: "could not reach the server",
		Err:     err,
	}
}

func httpError(status int) *Error {
	return &Error{
		Code:    CodeTransport,
		Title:   "Request failed",
		Message: fmt.Sprintf("server returned status %d", status),
	}
}

func decodeError(err error) *Error {
	return &Error{
		Code:    CodeDecode,
		Title:   "Bad response",
		Message: "could not read the server response",
		Err:     err,
	}
}

func serverError(title, message string) *Error {
	if title == "" {
		title = "Request rejected"
	}
	return &Error{Code: CodeServer, Title: title, Message: message}
}

// AsError pulls the *Error out of err, synthesizing a transport-class one for
// foreign errors so callers always have a title and message to show.
func AsError(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &Error{
		Code:    CodeTransport,
		Title:   "Request failed",
		Message: err.Error(),
		Err:     err,
	}
}
