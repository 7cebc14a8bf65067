package stream

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrIncompleteStream is returned when the source is exhausted without a
	// "done" or "error" event: the server hung up.
	ErrIncompleteStream = errors.New("no stream result")

	// ErrCanceled is returned when the caller aborts the exchange.
	ErrCanceled = errors.New("stream canceled")
)

// TransportError is a failure of the network exchange itself: a non-success
// status, a success status without a streamable body, a failed read, or a
// timeout.
type TransportError struct {
	// StatusCode is zero when no response was received.
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return e.Message
	case e.StatusCode != 0:
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Message
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Unavailable reports whether the server signalled its upstream model is
// unavailable (HTTP 503).
func (e *TransportError) Unavailable() bool {
	return e.StatusCode == http.StatusServiceUnavailable
}

// DecodeError is a protocol violation: a data line that is not a JSON object,
// a payload without a usable type, or a payload whose fields do not match the
// event shape.
type DecodeError struct {
	EventType string
	Err       error
}

func (e *DecodeError) Error() string {
	if e.EventType != "" {
		return fmt.Sprintf("decoding %q event: %v", e.EventType, e.Err)
	}
	return fmt.Sprintf("decoding stream: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ServerError carries the message of an "error" event verbatim.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}
