// Package sse provides a minimal, purpose-built SSE (Server-Sent Events)
// decoder for the graphchat streaming endpoints. It turns an arbitrarily
// fragmented byte stream into typed events whose "data:" line carries a JSON
// object with a "type" field, and can optionally tee the raw bytes to a
// recorder.
//
// This package intentionally does NOT provide SSE writer or server
// capabilities.
//
// See the SSE specification:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

import "encoding/json"

// Event represents a single parsed event, reconstructed from one blank-line
// delimited frame of the upstream byte stream.
type Event struct {
	// Type is the value of the "type" field of the JSON payload.
	Type string

	// Data is the raw JSON object carried by the frame's data line.
	// Routers decode it into typed payloads.
	Data json.RawMessage
}

// Decode unmarshals the event payload into v.
func (e *Event) Decode(v any) error {
	return json.Unmarshal(e.Data, v)
}
