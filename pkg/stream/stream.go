// Package stream implements the streaming operation shared by every graphchat
// streaming endpoint: it drives an sse.Decoder over one response body, routes
// each event to the caller's handlers in arrival order, and resolves exactly
// once to the "done" result or a terminal error.
package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/papercomputeco/graphchat/pkg/logger"
	"github.com/papercomputeco/graphchat/pkg/sse"
)

// Config configures a single Run.
type Config struct {
	// Name identifies the operation in logs (e.g. "init", "ask").
	Name string

	// Routes dispatches non-terminal events. Unknown types are ignored.
	Routes Routes

	// DecoderOptions are passed to sse.NewDecoder.
	DecoderOptions []sse.Option

	// Logger is the provided slog logger. Nil means no logging.
	Logger *slog.Logger
}

type donePayload[T any] struct {
	Result *T `json:"result"`
}

type errorPayload struct {
	Message *string `json:"message"`
}

const defaultServerErrorMessage = "Stream error"

// Run consumes body until a terminal event resolves the outcome or the body
// is exhausted, and always closes body before returning.
//
// The outcome is exactly one of: the "done" event's result, *TransportError,
// *DecodeError, *ServerError, ErrIncompleteStream, or ErrCanceled. Events
// after the first terminal event are never dispatched.
func Run[T any](ctx context.Context, body io.ReadCloser, cfg Config) (T, error) {
	var zero T

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.With("operation", cfg.Name)

	// Closing the body unblocks a pending Read when the caller aborts.
	stop := context.AfterFunc(ctx, func() { _ = body.Close() })
	defer func() {
		stop()
		_ = body.Close()
	}()

	dec := sse.NewDecoder(body, cfg.DecoderOptions...)
	dispatched := 0

	for {
		if err := ctx.Err(); err != nil {
			return zero, contextError(ctx)
		}

		ev, err := dec.Next()
		if err != nil {
			return zero, classifyReadError(ctx, err)
		}
		if ev == nil {
			// A canceled body may report a clean EOF once closed.
			if ctx.Err() != nil {
				return zero, contextError(ctx)
			}
			log.Debug("stream ended without result", "events", dispatched)
			return zero, ErrIncompleteStream
		}
		dispatched++

		switch ev.Type {
		case TypeDone:
			var done donePayload[T]
			if err := ev.Decode(&done); err != nil {
				return zero, &DecodeError{EventType: ev.Type, Err: err}
			}
			if done.Result == nil {
				return zero, &DecodeError{EventType: ev.Type, Err: errors.New("missing result")}
			}
			log.Debug("stream resolved", "events", dispatched)
			return *done.Result, nil

		case TypeError:
			var payload errorPayload
			if err := ev.Decode(&payload); err != nil {
				return zero, &DecodeError{EventType: ev.Type, Err: err}
			}
			msg := defaultServerErrorMessage
			if payload.Message != nil {
				msg = *payload.Message
			}
			log.Debug("stream failed", "events", dispatched, "message", msg)
			return zero, &ServerError{Message: msg}
		}

		route, ok := cfg.Routes[ev.Type]
		if !ok {
			log.Debug("ignoring event", "type", ev.Type)
			continue
		}

		log.Debug("dispatching event", "type", ev.Type)
		if err := route(ev); err != nil {
			return zero, &DecodeError{EventType: ev.Type, Err: err}
		}
	}
}

// classifyReadError maps a Decoder error onto the error taxonomy.
func classifyReadError(ctx context.Context, err error) error {
	var frameErr *sse.FrameError
	if errors.As(err, &frameErr) {
		return &DecodeError{Err: err}
	}

	if ctx.Err() != nil {
		return contextError(ctx)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TransportError{Message: "stream timed out", Err: err}
	}

	return &TransportError{Message: "reading stream", Err: err}
}

// contextError distinguishes a caller abort from a deadline. Deadlines are
// transport failures like any other timeout.
func contextError(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TransportError{Message: "stream timed out", Err: ctx.Err()}
	}
	return fmt.Errorf("%w: %w", ErrCanceled, context.Cause(ctx))
}
