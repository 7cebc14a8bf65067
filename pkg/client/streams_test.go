package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/sync/errgroup"

	"github.com/papercomputeco/graphchat/pkg/client"
	"github.com/papercomputeco/graphchat/pkg/graph"
	"github.com/papercomputeco/graphchat/pkg/stream"
	testutils "github.com/papercomputeco/graphchat/pkg/utils/test"
)

const initStreamPath = "/api/sessions/init/stream"

const initStreamBody = "data: {\"type\":\"start\",\"nodes\":[],\"edges\":[],\"root_node_id\":\"n1\"}\n\n" +
	"data: {\"type\":\"token\",\"content\":\"Hi\",\"node_id\":\"n1\"}\n\n" +
	"data: {\"type\":\"done\",\"result\":{\"session\":{\"id\":\"s1\",\"topic\":\"graphs\",\"created_at\":\"t\"},\"nodes\":[{\"id\":\"n1\",\"title\":\"Graphs\",\"content\":\"Hi\",\"node_type\":\"core\"}],\"edges\":[]}}\n\n"

const askStreamBody = "data: {\"type\":\"start\",\"nodes\":[{\"id\":\"q1\",\"node_type\":\"question\"},{\"id\":\"a1\",\"node_type\":\"answer\"}],\"question_node_id\":\"q1\",\"answer_node_id\":\"a1\"}\n\n" +
	"data: {\"type\":\"question_title\",\"node_id\":\"q1\",\"title\":\"Why DAGs?\"}\n\n" +
	"data: {\"type\":\"token\",\"content\":\"Hel\"}\n\n" +
	"data: {\"type\":\"token\",\"content\":\"lo\"}\n\n" +
	"data: {\"type\":\"knowledge_start\",\"node\":{\"id\":\"k1\",\"node_type\":\"knowledge\"},\"edge\":{\"id\":\"e1\",\"source_node_id\":\"a1\",\"target_node_id\":\"k1\",\"edge_type\":\"direct\"}}\n\n" +
	"data: {\"type\":\"knowledge_start\"}\n\n" +
	"data: {\"type\":\"token\",\"content\":\"!\",\"node_id\":\"a1\"}\n\n" +
	"data: {\"type\":\"token\",\"content\":\"fact\"}\n\n" +
	"data: {\"type\":\"done\",\"result\":{\"new_nodes\":[{\"id\":\"q1\"},{\"id\":\"a1\"},{\"id\":\"k1\"}],\"new_edges\":[{\"id\":\"e1\"}],\"redirect_hint\":\"try recursion\"}}\n\n"

var _ = Describe("Streaming operations", func() {
	var (
		ctx    context.Context
		server *testutils.GraphServer
		c      *client.Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		server = testutils.NewGraphServer()
		c = client.New(server.URL)
	})

	AfterEach(func() {
		server.Close()
	})

	Describe("InitSessionStream", func() {
		It("dispatches start and token then resolves to the done result", func() {
			server.Stream("POST", initStreamPath, initStreamBody)

			var starts []client.InitStart
			var tokens [][2]string
			res, err := c.InitSessionStream(ctx, "  graphs ", client.InitHandlers{
				OnStart: func(s client.InitStart) { starts = append(starts, s) },
				OnToken: func(content, nodeID string) { tokens = append(tokens, [2]string{content, nodeID}) },
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(starts).To(HaveLen(1))
			Expect(starts[0].RootNodeID).To(Equal("n1"))
			Expect(starts[0].Nodes).NotTo(BeNil())
			Expect(tokens).To(Equal([][2]string{{"Hi", "n1"}}))

			Expect(res.Session).To(Equal(graph.Session{ID: "s1", Topic: "graphs", CreatedAt: "t"}))
			Expect(res.Nodes).To(HaveLen(1))
			Expect(res.Nodes[0].NodeType).To(Equal(graph.NodeCore))

			req := server.LastRequest()
			Expect(req.Method).To(Equal("POST"))
			Expect(string(req.Body)).To(MatchJSON(`{"topic":"graphs"}`))
			Expect(req.Header["Accept"]).To(ContainElement("text/event-stream"))
			Expect(req.RequestID).NotTo(BeEmpty())
		})

		It("fills missing start collections with empty slices", func() {
			server.Stream("POST", initStreamPath,
				"data: {\"type\":\"start\",\"root_node_id\":\"n1\"}\n\ndata: {\"type\":\"done\",\"result\":{}}\n\n")

			var start client.InitStart
			_, err := c.InitSessionStream(ctx, "graphs", client.InitHandlers{
				OnStart: func(s client.InitStart) { start = s },
				OnToken: func(string, string) {},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(start.Nodes).To(BeEmpty())
			Expect(start.Nodes).NotTo(BeNil())
			Expect(start.Edges).NotTo(BeNil())
		})

		It("delivers only the first start event", func() {
			server.Stream("POST", initStreamPath,
				"data: {\"type\":\"start\",\"nodes\":[],\"edges\":[],\"root_node_id\":\"n1\"}\n\n"+
					"data: {\"type\":\"start\",\"nodes\":[],\"edges\":[],\"root_node_id\":\"n2\"}\n\n"+
					"data: {\"type\":\"done\",\"result\":{\"session\":{\"id\":\"s1\"},\"nodes\":[],\"edges\":[]}}\n\n")

			var roots []string
			_, err := c.InitSessionStream(ctx, "graphs", client.InitHandlers{
				OnStart: func(s client.InitStart) { roots = append(roots, s.RootNodeID) },
				OnToken: func(string, string) {},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(roots).To(Equal([]string{"n1"}))
		})

		It("rejects with the server message on an error event", func() {
			server.Stream("POST", initStreamPath, "data: {\"type\":\"error\",\"message\":\"upstream unavailable\"}\n\n")

			_, err := c.InitSessionStream(ctx, "graphs", client.InitHandlers{OnToken: func(string, string) {}})

			var serverErr *stream.ServerError
			Expect(errors.As(err, &serverErr)).To(BeTrue())
			Expect(serverErr.Message).To(Equal("upstream unavailable"))
		})

		It("reports a stream without done as incomplete", func() {
			server.Stream("POST", initStreamPath,
				"data: {\"type\":\"start\",\"root_node_id\":\"n1\"}\n\ndata: {\"type\":\"token\",\"content\":\"x\"}\n\n")

			_, err := c.InitSessionStream(ctx, "graphs", client.InitHandlers{OnToken: func(string, string) {}})
			Expect(err).To(MatchError(stream.ErrIncompleteStream))
		})

		It("fails with the response text on a non-success status", func() {
			server.Reply("POST", initStreamPath, 503, "LLM_UNAVAILABLE: timeout")

			_, err := c.InitSessionStream(ctx, "graphs", client.InitHandlers{OnToken: func(string, string) {}})

			var transportErr *stream.TransportError
			Expect(errors.As(err, &transportErr)).To(BeTrue())
			Expect(transportErr.StatusCode).To(Equal(503))
			Expect(transportErr.Unavailable()).To(BeTrue())
			Expect(err.Error()).To(Equal("LLM_UNAVAILABLE: timeout"))
		})

		It("fails when a success response carries no body", func() {
			server.Stream("POST", initStreamPath, "")

			_, err := c.InitSessionStream(ctx, "graphs", client.InitHandlers{OnToken: func(string, string) {}})

			var transportErr *stream.TransportError
			Expect(errors.As(err, &transportErr)).To(BeTrue())
		})

		It("requires a token handler", func() {
			_, err := c.InitSessionStream(ctx, "graphs", client.InitHandlers{})
			Expect(err).To(MatchError(client.ErrNoTokenHandler))
			Expect(server.Requests()).To(BeEmpty())
		})

		It("validates the topic before sending", func() {
			_, err := c.InitSessionStream(ctx, "   ", client.InitHandlers{OnToken: func(string, string) {}})
			Expect(err).To(MatchError(client.ErrInvalidRequest))
			Expect(server.Requests()).To(BeEmpty())
		})

		It("surfaces an aborted exchange as canceled", func() {
			server.Stream("POST", initStreamPath, initStreamBody)
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := c.InitSessionStream(cctx, "graphs", client.InitHandlers{OnToken: func(string, string) {}})
			Expect(err).To(MatchError(stream.ErrCanceled))
		})

		It("records the raw stream when a record dir is set", func() {
			dir := GinkgoT().TempDir()
			server.Stream("POST", initStreamPath, initStreamBody)
			c = client.New(server.URL, client.WithRecordDir(dir))

			_, err := c.InitSessionStream(ctx, "graphs", client.InitHandlers{OnToken: func(string, string) {}})
			Expect(err).NotTo(HaveOccurred())

			files, err := filepath.Glob(filepath.Join(dir, "init-*.sse"))
			Expect(err).NotTo(HaveOccurred())
			Expect(files).To(HaveLen(1))

			raw, err := os.ReadFile(files[0])
			Expect(err).NotTo(HaveOccurred())
			Expect(string(raw)).To(Equal(initStreamBody))
		})

		It("fails on a truncated tail in strict mode", func() {
			server.Stream("POST", initStreamPath, "data: {\"type\":\"done\",\"result\":{}}")
			c = client.New(server.URL, client.WithStrictTail(true))

			_, err := c.InitSessionStream(ctx, "graphs", client.InitHandlers{OnToken: func(string, string) {}})

			var decodeErr *stream.DecodeError
			Expect(errors.As(err, &decodeErr)).To(BeTrue())
		})
	})

	Describe("AskQuestionStream", func() {
		It("routes every ask event and accumulates tokens on a board", func() {
			server.Stream("POST", "/api/sessions/s1/ask/stream", askStreamBody)

			board := graph.NewBoard()
			var order []string
			res, err := c.AskQuestionStream(ctx, "s1", client.AskRequest{Question: "why?"}, client.AskHandlers{
				OnStart: func(s client.AskStart) {
					order = append(order, "start")
					board.Start(s.Nodes, s.Edges, s.AnswerNodeID)
				},
				OnQuestionTitle: func(t client.QuestionTitle) {
					order = append(order, "title")
					board.SetTitle(t.NodeID, t.Title)
				},
				OnKnowledgeStart: func(k client.KnowledgeStart) {
					order = append(order, "knowledge")
					board.AddKnowledge(k.Node, k.Edge)
				},
				OnToken: func(content, nodeID string) {
					order = append(order, "token")
					board.AppendToken(content, nodeID)
				},
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(order).To(Equal([]string{"start", "title", "token", "token", "knowledge", "token", "token"}))
			Expect(board.Text("a1")).To(Equal("Hello!"))
			Expect(board.Text("k1")).To(Equal("fact"))
			q, _ := board.Node("q1")
			Expect(q.Title).To(Equal("Why DAGs?"))

			Expect(res.NewNodes).To(HaveLen(3))
			Expect(res.NewEdges).To(HaveLen(1))
			Expect(res.RedirectHint).To(HaveValue(Equal("try recursion")))
			Expect(res.Counterexample).To(BeNil())
		})

		It("sends empty collections rather than null", func() {
			server.Stream("POST", "/api/sessions/s1/ask/stream", "data: {\"type\":\"done\",\"result\":{\"new_nodes\":[],\"new_edges\":[]}}\n\n")

			_, err := c.AskQuestionStream(ctx, "s1", client.AskRequest{Question: " why? "}, client.AskHandlers{OnToken: func(string, string) {}})
			Expect(err).NotTo(HaveOccurred())

			var body map[string]any
			Expect(json.Unmarshal(server.LastRequest().Body, &body)).To(Succeed())
			Expect(body["question"]).To(Equal("why?"))
			Expect(body["node_ids"]).To(Equal([]any{}))
			Expect(body["selected_sections"]).To(Equal([]any{}))
		})

		It("rejects an empty question and session", func() {
			h := client.AskHandlers{OnToken: func(string, string) {}}

			_, err := c.AskQuestionStream(ctx, "s1", client.AskRequest{}, h)
			Expect(err).To(MatchError(client.ErrInvalidRequest))

			_, err = c.AskQuestionStream(ctx, "", client.AskRequest{Question: "q"}, h)
			Expect(err).To(MatchError(client.ErrInvalidRequest))
		})
	})

	It("leaves a caller-supplied http.Client untouched", func() {
		hc := &http.Client{}
		c = client.New(server.URL, client.WithHTTPClient(hc), client.WithTimeout(2*time.Second))
		server.Stream("POST", initStreamPath, initStreamBody)

		_, err := c.InitSessionStream(ctx, "graphs", client.InitHandlers{OnToken: func(string, string) {}})
		Expect(err).NotTo(HaveOccurred())
		Expect(hc.Timeout).To(BeZero())
	})

	It("runs independent operations concurrently", func() {
		server.Stream("POST", initStreamPath, initStreamBody)
		server.Stream("POST", "/api/sessions/s1/ask/stream", askStreamBody)

		var (
			initRes  graph.InitResult
			askRes   graph.AskResult
			initText = graph.NewBoard()
			askText  = graph.NewBoard()
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			initRes, err = c.InitSessionStream(gctx, "graphs", client.InitHandlers{
				OnToken: func(content, nodeID string) { initText.AppendToken(content, nodeID) },
			})
			return err
		})
		g.Go(func() error {
			var err error
			askRes, err = c.AskQuestionStream(gctx, "s1", client.AskRequest{Question: "why?"}, client.AskHandlers{
				OnStart: func(s client.AskStart) { askText.Start(s.Nodes, s.Edges, s.AnswerNodeID) },
				OnToken: func(content, nodeID string) { askText.AppendToken(content, nodeID) },
			})
			return err
		})
		Expect(g.Wait()).To(Succeed())

		Expect(initRes.Session.ID).To(Equal("s1"))
		Expect(askRes.NewNodes).To(HaveLen(3))
		Expect(initText.Text("n1")).To(Equal("Hi"))
		Expect(askText.Text("a1")).To(Equal("Hello!fact"))
	})
})
