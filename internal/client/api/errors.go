package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches a RequestError for a 404 answer.
var ErrNotFound = errors.New("not found")

// RequestError is returned for any failed call: a non-2xx status, a
// transport failure or an undecodable body.
type RequestError struct {
	// Message is the fixed, operation-specific text shown to users.
	Message string
	// Status is 0 when no response arrived.
	Status int
	// ServerMessage is the {message} field of the error body, if any.
	ServerMessage string
	Err           error
}

func (e *RequestError) Error() string {
	switch {
	case e.Status != 0 && e.ServerMessage != "":
		return fmt.Sprintf("%s: %d %s", e.Message, e.Status, e.ServerMessage)
	case e.Status != 0:
		return fmt.Sprintf("%s: %d %s", e.Message, e.Status, http.StatusText(e.Status))
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func (e *RequestError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status
	}
	return 0
}
