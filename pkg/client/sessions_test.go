package client_test

import (
	"context"
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/graphchat/pkg/client"
	"github.com/papercomputeco/graphchat/pkg/stream"
	"github.com/papercomputeco/graphchat/pkg/utils"
	testutils "github.com/papercomputeco/graphchat/pkg/utils/test"
)

var _ = Describe("Single-shot operations", func() {
	var (
		ctx    context.Context
		server *testutils.GraphServer
		c      *client.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		server = testutils.NewGraphServer()
		c = client.New(server.URL+"/", client.WithTimeout(10*time.Second))
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("Health", func() {
		It("succeeds when the server reports ok", func() {
			server.Reply("GET", "/health", 200, `{"status":"ok"}`)
			Expect(c.Health(ctx)).To(Succeed())
		})

		It("identifies the client build on every request", func() {
			server.Reply("GET", "/health", 200, `{"status":"ok"}`)
			Expect(c.Health(ctx)).To(Succeed())

			req := server.LastRequest()
			Expect(req.Header["User-Agent"]).To(ConsistOf(utils.UserAgent()))
			Expect(req.RequestID).NotTo(BeEmpty())
		})

		It("fails on any other status value", func() {
			server.Reply("GET", "/health", 200, `{"status":"degraded"}`)
			Expect(c.Health(ctx)).To(MatchError(ContainSubstring("degraded")))
		})
	})

	Describe("ListSessions", func() {
		It("lists sessions with the default limit", func() {
			server.Reply("GET", "/api/sessions", 200, `[{"id":"s1","topic":"graphs","created_at":"t"}]`)

			sessions, err := c.ListSessions(ctx, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(sessions).To(HaveLen(1))
			Expect(sessions[0].Topic).To(Equal("graphs"))
			Expect(server.LastRequest().URI).To(Equal("/api/sessions?limit=50"))
		})
	})

	Describe("GetGraph", func() {
		It("fetches a snapshot", func() {
			server.Reply("GET", "/api/sessions/s1/graph", 200,
				`{"nodes":[{"id":"n1","x":1.5,"y":2,"width":400,"node_type":"core"}],"edges":[{"id":"e1","source_node_id":"n1","target_node_id":"n2","edge_type":"direct","source_section_key":null}]}`)

			data, err := c.GetGraph(ctx, "s1")
			Expect(err).NotTo(HaveOccurred())
			Expect(data.Nodes[0].X).To(Equal(1.5))
			Expect(data.Edges[0].SourceSectionKey).To(BeNil())
		})

		It("returns the response text for a 404", func() {
			server.Reply("GET", "/api/sessions/missing/graph", 404, `{"detail":"Not Found"}`)

			_, err := c.GetGraph(ctx, "missing")

			var transportErr *stream.TransportError
			Expect(errors.As(err, &transportErr)).To(BeTrue())
			Expect(transportErr.StatusCode).To(Equal(404))
			Expect(err.Error()).To(ContainSubstring("Not Found"))
		})

		It("falls back to the status when the error body is empty", func() {
			server.Reply("GET", "/api/sessions/s1/graph", 500, "")

			_, err := c.GetGraph(ctx, "s1")
			Expect(err).To(MatchError("HTTP 500"))
		})
	})

	Describe("InitSession and Ask", func() {
		It("initializes without streaming", func() {
			server.Reply("POST", "/api/sessions/init", 200, `{"session":{"id":"s1"},"nodes":[],"edges":[]}`)

			res, err := c.InitSession(ctx, "graphs")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Session.ID).To(Equal("s1"))
		})

		It("asks without streaming", func() {
			server.Reply("POST", "/api/sessions/s1/ask", 200,
				`{"new_nodes":[],"new_edges":[],"redirect_hint":null,"counterexample":{"id":"c1","node_type":"counterexample"}}`)

			res, err := c.Ask(ctx, "s1", client.AskRequest{Question: "why?", NodeIDs: []string{"n1"}})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.RedirectHint).To(BeNil())
			Expect(res.Counterexample.ID).To(Equal("c1"))
			Expect(string(server.LastRequest().Body)).To(MatchJSON(`{"question":"why?","node_ids":["n1"],"selected_sections":[]}`))
		})

		It("rejects an overlong topic", func() {
			_, err := c.InitSession(ctx, strings.Repeat("x", 121))
			Expect(err).To(MatchError(client.ErrInvalidRequest))
		})
	})

	Describe("node updates", func() {
		It("patches the position with an optional width", func() {
			server.Reply("PATCH", "/api/sessions/s1/nodes/n1/position", 200, `{"ok":true}`)

			width := 420.0
			Expect(c.UpdateNodePosition(ctx, "s1", "n1", client.Position{X: 10, Y: 20, Width: &width})).To(Succeed())
			Expect(string(server.LastRequest().Body)).To(MatchJSON(`{"x":10,"y":20,"width":420}`))

			Expect(c.UpdateNodePosition(ctx, "s1", "n1", client.Position{X: 1, Y: 2})).To(Succeed())
			Expect(string(server.LastRequest().Body)).To(MatchJSON(`{"x":1,"y":2,"width":null}`))
		})

		It("rejects widths outside (80, 1200]", func() {
			for _, w := range []float64{80, 1200.5} {
				width := w
				err := c.UpdateNodePosition(ctx, "s1", "n1", client.Position{Width: &width})
				Expect(err).To(MatchError(client.ErrInvalidRequest))
			}
			Expect(server.Requests()).To(BeEmpty())
		})

		It("patches mastery within [0, 1]", func() {
			server.Reply("PATCH", "/api/sessions/s1/nodes/n1/mastery", 200, `{"ok":true}`)

			Expect(c.UpdateNodeMastery(ctx, "s1", "n1", 0.75)).To(Succeed())
			Expect(c.UpdateNodeMastery(ctx, "s1", "n1", 1.5)).To(MatchError(client.ErrInvalidRequest))
		})
	})

	Describe("UploadMaterial", func() {
		It("uploads a markdown file as multipart form data", func() {
			server.Reply("POST", "/api/sessions/s1/materials", 200, `{"id":"m1"}`)

			id, err := c.UploadMaterial(ctx, "s1", "/tmp/notes.md", strings.NewReader("# Notes"))
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal("m1"))

			req := server.LastRequest()
			Expect(req.FileName).To(Equal("notes.md"))
			Expect(req.FileBody).To(Equal("# Notes"))
		})

		It("rejects unsupported extensions", func() {
			_, err := c.UploadMaterial(ctx, "s1", "slides.pdf", strings.NewReader(""))
			Expect(err).To(MatchError(client.ErrInvalidRequest))
		})
	})

	Describe("review and quiz", func() {
		It("generates a review", func() {
			server.Reply("POST", "/api/sessions/s1/review", 200, `{"summary":"ok","gaps":["a"],"actions":["b"]}`)

			review, err := c.GenerateReview(ctx, "s1")
			Expect(err).NotTo(HaveOccurred())
			Expect(review.Gaps).To(Equal([]string{"a"}))
		})

		It("generates and grades quiz items", func() {
			server.Reply("POST", "/api/sessions/s1/quiz/generate", 200,
				`{"items":[{"quiz_id":"q1","question":"?","answer":"!","related_node_id":"n1","difficulty":"medium"}]}`)
			server.Reply("POST", "/api/sessions/s1/quiz/grade", 200, `{"correct":true,"feedback":"good","mastery_delta":0.05}`)

			items, err := c.GenerateQuiz(ctx, "s1", 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(string(server.LastRequest().Body)).To(MatchJSON(`{"count":3}`))

			grade, err := c.GradeQuiz(ctx, "s1", "q1", "!")
			Expect(err).NotTo(HaveOccurred())
			Expect(grade.Correct).To(BeTrue())
			Expect(grade.MasteryDelta).To(Equal(0.05))
			Expect(string(server.LastRequest().Body)).To(MatchJSON(`{"quiz_id":"q1","user_answer":"!"}`))
		})

		It("rejects a non-positive quiz count", func() {
			_, err := c.GenerateQuiz(ctx, "s1", 0)
			Expect(err).To(MatchError(client.ErrInvalidRequest))
		})
	})
})
