// Package client is the Go client for the graphchat HTTP API. Single-shot
// calls go through Submit; the two streaming calls (InitSessionStream and
// AskQuestionStream) open a server-push event stream with OpenStream and
// decode it with the shared stream.Run orchestrator.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/graphchat/pkg/logger"
	"github.com/papercomputeco/graphchat/pkg/sse"
	"github.com/papercomputeco/graphchat/pkg/stream"
	"github.com/papercomputeco/graphchat/pkg/utils"
)

const (
	defaultTimeout = 5 * time.Minute

	// maxErrorBody bounds how much of a failed response is read into an error.
	maxErrorBody = 64 * 1024

	headerRequestID = "X-Request-ID"
)

// Client talks to one graphchat server.
type Client struct {
	baseURL string

	// httpClient serves single-shot calls and carries the request timeout.
	httpClient *http.Client

	// streamClient serves streaming calls. Streams are bounded by the caller's
	// context, not by a client timeout.
	streamClient *http.Client

	logger      *slog.Logger
	strictTail  bool
	recordDir   string
	newRecorder func(dir, name string) (io.WriteCloser, error)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient bases both single-shot and streaming calls on hc. hc itself
// is never modified: single-shot calls use a copy that keeps hc's timeout
// unless WithTimeout overrides it, and streaming calls use a copy without one.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		single, streaming := *hc, *hc
		if single.Timeout == 0 {
			single.Timeout = defaultTimeout
		}
		streaming.Timeout = 0
		c.httpClient = &single
		c.streamClient = &streaming
	}
}

// WithTimeout sets the timeout of single-shot calls.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger. Defaults to logger.Nop().
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStrictTail makes streams fail when the body ends with an undelimited
// frame instead of discarding it.
func WithStrictTail(strict bool) Option {
	return func(c *Client) {
		c.strictTail = strict
	}
}

// WithRecordDir records the raw bytes of every stream to a file in dir.
func WithRecordDir(dir string) Option {
	return func(c *Client) {
		c.recordDir = dir
	}
}

// New creates a Client for the server at baseURL (scheme + host + port).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: defaultTimeout},
		streamClient: &http.Client{},
		logger:       logger.Nop(),
		newRecorder:  createRecording,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Submit performs a single-shot JSON request. body, when non-nil, is encoded
// as the JSON request body; out, when non-nil, receives the decoded response.
// Non-2xx responses are returned as *stream.TransportError.
func (c *Client) Submit(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := c.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// submitFile performs a single-shot multipart upload of one file field.
func (c *Client) submitFile(ctx context.Context, path, field, filename string, content io.Reader, out any) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	part, err := form.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("reading upload: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("closing form: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	c.logger.Debug("sending request",
		"method", req.Method,
		"path", req.URL.Path,
		"request_id", req.Header.Get(headerRequestID),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return requestError(req.Context(), err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// OpenStream opens a streaming exchange and returns the response body as the
// byte source. It fails immediately with *stream.TransportError if the
// response is not a success or carries no body.
func (c *Client) OpenStream(ctx context.Context, method, path string, body any) (io.ReadCloser, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	c.logger.Debug("opening stream",
		"method", method,
		"path", path,
		"request_id", req.Header.Get(headerRequestID),
	)

	resp, err := c.streamClient.Do(req)
	if err != nil {
		return nil, requestError(ctx, err)
	}

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}

	if resp.Body == nil || resp.Body == http.NoBody {
		return nil, &stream.TransportError{StatusCode: resp.StatusCode, Message: "response has no body"}
	}

	return resp.Body, nil
}

// runStream opens the stream at path and drives it through stream.Run.
func runStream[T any](ctx context.Context, c *Client, name, path string, body any, routes stream.Routes) (T, error) {
	var zero T

	src, err := c.OpenStream(ctx, http.MethodPost, path, body)
	if err != nil {
		return zero, err
	}

	opts := []sse.Option{sse.WithStrictTail(c.strictTail)}
	if c.recordDir != "" {
		rec, err := c.newRecorder(c.recordDir, name)
		if err != nil {
			src.Close()
			return zero, fmt.Errorf("creating stream recording: %w", err)
		}
		defer rec.Close()
		opts = append(opts, sse.WithTee(rec))
	}

	return stream.Run[T](ctx, src, stream.Config{
		Name:           name,
		Routes:         routes,
		DecoderOptions: opts,
		Logger:         c.logger,
	})
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set(headerRequestID, uuid.NewString())
	req.Header.Set("User-Agent", utils.UserAgent())

	return req, nil
}

// checkStatus turns a non-2xx response into a *stream.TransportError whose
// message is the response text, or "HTTP <status>" when it is empty.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &stream.TransportError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(raw)),
	}
}

func requestError(ctx context.Context, err error) error {
	if ctx.Err() != nil && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", stream.ErrCanceled, context.Cause(ctx))
	}
	return &stream.TransportError{Message: "sending request", Err: err}
}
