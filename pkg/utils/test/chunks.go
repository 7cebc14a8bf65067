package testutils

import (
	"io"
	"sort"
)

// ChunkReader is an io.Reader that hands out its parts one Read call at a
// time, simulating network chunk boundaries.
type ChunkReader struct {
	parts [][]byte

	// Err is returned once all parts are consumed. Defaults to io.EOF.
	Err error

	// Reads counts the Read calls that returned data.
	Reads int
}

// NewChunkReader creates a ChunkReader over the given parts.
func NewChunkReader(parts ...string) *ChunkReader {
	r := &ChunkReader{Err: io.EOF}
	for _, p := range parts {
		r.parts = append(r.parts, []byte(p))
	}
	return r
}

func (r *ChunkReader) Read(p []byte) (int, error) {
	for len(r.parts) > 0 && len(r.parts[0]) == 0 {
		r.parts = r.parts[1:]
	}
	if len(r.parts) == 0 {
		return 0, r.Err
	}

	n := copy(p, r.parts[0])
	r.parts[0] = r.parts[0][n:]
	r.Reads++
	return n, nil
}

// Close satisfies io.Closer so a ChunkReader can stand in for a response body.
func (r *ChunkReader) Close() error {
	return nil
}

// SplitAt cuts s at the given byte offsets. Offsets are sorted, and ones
// outside (0, len(s)) are dropped. Cuts may land inside a multi-byte rune.
func SplitAt(s string, offsets []int) []string {
	cuts := make([]int, 0, len(offsets))
	for _, o := range offsets {
		if o > 0 && o < len(s) {
			cuts = append(cuts, o)
		}
	}
	sort.Ints(cuts)

	parts := make([]string, 0, len(cuts)+1)
	prev := 0
	for _, c := range cuts {
		parts = append(parts, s[prev:c])
		prev = c
	}
	return append(parts, s[prev:])
}
