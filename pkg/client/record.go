package client

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// createRecording creates a file in dir named after the operation, the time
// and a random suffix, e.g. init-20260102T150405-3f2a.sse.
func createRecording(dir, name string) (io.WriteCloser, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating record directory %s: %w", dir, err)
	}

	file := fmt.Sprintf("%s-%s-%s.sse",
		name,
		time.Now().UTC().Format("20060102T150405"),
		uuid.NewString()[:8],
	)

	return os.Create(filepath.Join(dir, file))
}
