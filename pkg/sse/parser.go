package sse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/papercomputeco/graphchat/pkg/utils"
)

const dataField = "data:"

// ErrMissingType is returned when a data line decodes to a JSON object
// without a usable "type" field.
var ErrMissingType = errors.New("payload has no type")

// ErrUnterminatedFrame is returned by a strict Decoder when the source ends
// with a non-blank frame that was never delimited.
var ErrUnterminatedFrame = errors.New("unterminated frame at end of stream")

// FrameError reports a frame that could not be turned into an Event.
type FrameError struct {
	Frame string
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("malformed frame %q: %v", utils.Truncate(e.Frame, 120), e.Err)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// ParseFrame turns one frame into an Event. Lines that are not data lines
// (comments, "event:", "id:", "retry:") are ignored. Every data line must
// carry a JSON object with a string "type"; when a frame has several, the
// last one wins.
//
// ParseFrame returns nil, nil for frames with no data line, e.g. keep-alive
// comments.
func ParseFrame(frame string) (*Event, error) {
	var ev *Event

	for _, line := range strings.Split(frame, "\n") {
		value, ok := strings.CutPrefix(line, dataField)
		if !ok {
			continue
		}

		// Strip a single leading space after the colon.
		value = strings.TrimPrefix(value, " ")
		if strings.TrimSpace(value) == "" {
			continue
		}

		parsed, err := parseData([]byte(value))
		if err != nil {
			return nil, &FrameError{Frame: frame, Err: err}
		}
		ev = parsed
	}

	return ev, nil
}

func parseData(data []byte) (*Event, error) {
	var head struct {
		Type *string `json:"type"`
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("data is not a JSON object")
	}

	if err := json.Unmarshal(trimmed, &head); err != nil {
		return nil, err
	}

	if head.Type == nil || *head.Type == "" {
		return nil, ErrMissingType
	}

	return &Event{
		Type: *head.Type,
		Data: json.RawMessage(trimmed),
	}, nil
}
