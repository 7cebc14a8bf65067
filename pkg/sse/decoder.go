package sse

import (
	"errors"
	"io"
	"strings"
)

const defaultReadSize = 32 * 1024

// Decoder reads events from a source io.Reader, optionally writing all raw
// bytes verbatim to a destination io.Writer as they are pulled.
//
// ┌──────────────────┐
// │ source io.Reader │
// └──────────────────┘
// │
// ▼
// ┌──────────────────┐   ┌───────────────────┐
// │     Splitter     │──▶│ tee io.Writer     │
// └──────────────────┘   └───────────────────┘
// │ frames
// ▼
// ┌──────────────────┐
// │    ParseFrame    │
// └──────────────────┘
// │
// ▼
// ┌──────────────────┐
// │      Event       │
// └──────────────────┘
//
// A Decoder is owned by one stream and is not safe for concurrent use.
type Decoder struct {
	src      io.Reader
	tee      io.Writer
	strict   bool
	readSize int

	splitter Splitter
	frames   []string
	buf      []byte
	eof      bool
}

// Option configures a Decoder.
type Option func(*Decoder)

// WithTee writes every raw chunk pulled from the source to w before it is
// split. Used to record streams to disk.
func WithTee(w io.Writer) Option {
	return func(d *Decoder) {
		d.tee = w
	}
}

// WithStrictTail makes the Decoder fail with ErrUnterminatedFrame when the
// source ends with a non-blank, undelimited tail. By default such a tail is
// discarded.
func WithStrictTail(strict bool) Option {
	return func(d *Decoder) {
		d.strict = strict
	}
}

// WithReadSize sets the size of each pull from the source.
func WithReadSize(n int) Option {
	return func(d *Decoder) {
		if n > 0 {
			d.readSize = n
		}
	}
}

// NewDecoder returns a Decoder that parses events from src.
func NewDecoder(src io.Reader, opts ...Option) *Decoder {
	d := &Decoder{
		src:      src,
		readSize: defaultReadSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.buf = make([]byte, d.readSize)

	return d
}

// Next returns the next event from the source. It blocks until a complete
// frame is available (terminated by a blank line in the stream). Frames with
// no data line are skipped.
//
// Next returns nil, nil when the source is exhausted. Read errors from the
// source are returned as-is; malformed frames are returned as *FrameError.
func (d *Decoder) Next() (*Event, error) {
	for {
		for len(d.frames) > 0 {
			frame := d.frames[0]
			d.frames = d.frames[1:]

			ev, err := ParseFrame(frame)
			if err != nil {
				return nil, err
			}
			if ev != nil {
				return ev, nil
			}
		}

		if d.eof {
			return nil, nil
		}

		if err := d.fill(); err != nil {
			return nil, err
		}
	}
}

// fill performs one pull from the source and queues any completed frames.
func (d *Decoder) fill() error {
	n, err := d.src.Read(d.buf)
	if n > 0 {
		chunk := d.buf[:n]
		if d.tee != nil {
			if _, werr := d.tee.Write(chunk); werr != nil {
				return werr
			}
		}
		d.frames = append(d.frames, d.splitter.Feed(chunk)...)
	}

	if err == nil {
		return nil
	}
	if !errors.Is(err, io.EOF) {
		return err
	}

	d.eof = true
	tail := d.splitter.Flush()
	if d.strict && strings.TrimSpace(tail) != "" {
		return &FrameError{Frame: tail, Err: ErrUnterminatedFrame}
	}

	return nil
}
