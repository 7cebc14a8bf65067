package testutils

import (
	"io"
	"net/http/httptest"
	"sync"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
)

// Response is a canned reply of a GraphServer route.
type Response struct {
	Status      int
	ContentType string
	Body        string
}

// Request is a request captured by a GraphServer.
type Request struct {
	Method    string
	Path      string
	URI       string
	Body      []byte
	Header    map[string][]string
	FileName  string
	FileBody  string
	RequestID string
}

// GraphServer is an in-process fake of the graphchat HTTP API. Routes are
// keyed by "METHOD /path" and answered with canned responses; every request
// is recorded.
type GraphServer struct {
	*httptest.Server

	app *fiber.App

	mu        sync.Mutex
	responses map[string]Response
	requests  []Request
}

// NewGraphServer starts a GraphServer. Callers must Close it.
func NewGraphServer() *GraphServer {
	s := &GraphServer{
		app: fiber.New(fiber.Config{
			DisableStartupMessage: true,
			Immutable:             true,
		}),
		responses: make(map[string]Response),
	}

	s.app.Use(s.handle)
	s.Server = httptest.NewServer(adaptor.FiberApp(s.app))

	return s
}

// Reply registers a canned JSON response.
func (s *GraphServer) Reply(method, path string, status int, body string) {
	s.set(method, path, Response{Status: status, ContentType: fiber.MIMEApplicationJSON, Body: body})
}

// Stream registers a canned event-stream response.
func (s *GraphServer) Stream(method, path, body string) {
	s.set(method, path, Response{Status: fiber.StatusOK, ContentType: "text/event-stream", Body: body})
}

// Set registers an arbitrary response.
func (s *GraphServer) Set(method, path string, resp Response) {
	s.set(method, path, resp)
}

// Requests returns a copy of the captured requests.
func (s *GraphServer) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent captured request.
func (s *GraphServer) LastRequest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

func (s *GraphServer) set(method, path string, resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[method+" "+path] = resp
}

func (s *GraphServer) handle(c *fiber.Ctx) error {
	req := Request{
		Method:    c.Method(),
		Path:      c.Path(),
		URI:       c.OriginalURL(),
		Body:      append([]byte(nil), c.Body()...),
		Header:    c.GetReqHeaders(),
		RequestID: c.Get("X-Request-ID"),
	}
	if fh, err := c.FormFile("file"); err == nil {
		req.FileName = fh.Filename
		if f, err := fh.Open(); err == nil {
			data, _ := io.ReadAll(f)
			_ = f.Close()
			req.FileBody = string(data)
		}
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	resp, ok := s.responses[req.Method+" "+req.Path]
	s.mu.Unlock()

	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Not Found"})
	}

	if resp.ContentType != "" {
		c.Set(fiber.HeaderContentType, resp.ContentType)
	}
	return c.Status(resp.Status).SendString(resp.Body)
}
