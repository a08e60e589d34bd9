package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed call.
type Kind string

const (
	KindNetwork      Kind = "network"
	KindHTTP         Kind = "http"
	KindUnauthorized Kind = "unauthorized"
)

// ErrUnauthorized is matched by errors.Is for every Unauthorized Error.
var ErrUnauthorized = errors.New("unauthorized")

// Error is returned for every failed call: the request never got a
// response (network), got a non-2xx response (http), or the session could
// not be recovered (unauthorized).
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Code    string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindNetwork:
		if e.Err != nil {
			return fmt.Sprintf("network error: %v", e.Err)
		}
		return "network error"
	case KindUnauthorized:
		return "unauthorized: " + e.Message
	}
	if e.Code != "" {
		return fmt.Sprintf("http %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Kind == KindUnauthorized
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}

func unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Status: http.StatusUnauthorized, Message: message}
}

// IsUnauthorized reports whether err ended in a cleared session.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNetwork
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}
