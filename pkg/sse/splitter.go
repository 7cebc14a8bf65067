package sse

import (
	"bytes"
)

var (
	frameDelim = []byte("\n\n")
	crlf       = []byte("\r\n")
	lf         = []byte("\n")
)

// Splitter turns continuously appended chunks into complete frames. Splitting
// always runs on the cumulative pending buffer so a delimiter that straddles
// two chunks is still detected.
//
// After every Feed the pending buffer holds at most one unterminated frame.
type Splitter struct {
	pending []byte
}

// Feed appends chunk to the pending buffer and returns every frame that is
// now known to be complete, in stream order. Frames are returned without
// their trailing delimiter. Empty frames (runs of blank lines) are skipped.
func (s *Splitter) Feed(chunk []byte) []string {
	s.pending = append(s.pending, chunk...)

	// A "\r" at the end of one chunk and "\n" at the start of the next only
	// become a pair here, so normalise the whole pending buffer every time.
	if bytes.Contains(s.pending, crlf) {
		s.pending = bytes.ReplaceAll(s.pending, crlf, lf)
	}

	var frames []string
	for {
		idx := bytes.Index(s.pending, frameDelim)
		if idx < 0 {
			break
		}

		if idx > 0 {
			frames = append(frames, string(s.pending[:idx]))
		}
		s.pending = s.pending[idx+len(frameDelim):]
	}

	// Compact so the backing array does not keep every byte ever fed.
	if len(s.pending) == 0 {
		s.pending = nil
	} else if cap(s.pending) > 4*len(s.pending) {
		s.pending = append([]byte(nil), s.pending...)
	}

	return frames
}

// Pending returns the bytes held back as an unterminated frame.
func (s *Splitter) Pending() []byte {
	return s.pending
}

// Flush returns the unterminated tail and clears it. It is called once the
// source is exhausted.
func (s *Splitter) Flush() string {
	tail := string(s.pending)
	s.pending = nil
	return tail
}
