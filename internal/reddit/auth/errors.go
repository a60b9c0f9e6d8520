package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport means the token request could not be sent or its response
	// could not be received.
	ErrTransport = errors.New("transport error")

	// ErrMalformedResponse means the response body was not valid JSON or
	// lacked a well-typed access_token/expires_in.
	ErrMalformedResponse = errors.New("malformed response")
)

// AuthError is returned by Login and Refresh. Kind is one of ErrTransport or
// ErrMalformedResponse, so callers can test it with errors.Is.
type AuthError struct {
	Op   string
	Kind error
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *AuthError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func transportError(op string, err error) error {
	return &AuthError{Op: op, Kind: ErrTransport, Err: err}
}

func malformedError(op string, err error) error {
	return &AuthError{Op: op, Kind: ErrMalformedResponse, Err: err}
}
