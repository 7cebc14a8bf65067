package graph_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/graphchat/pkg/graph"
)

var _ = Describe("Board", func() {
	var b *graph.Board

	BeforeEach(func() {
		b = graph.NewBoard()
	})

	It("concatenates tokens for the same node in arrival order", func() {
		b.Start([]graph.Node{{ID: "n1", Title: "Root"}}, nil, "n1")

		b.AppendToken("Hel", "n1")
		b.AppendToken("lo", "n1")
		b.AppendToken("!", "n1")

		Expect(b.Text("n1")).To(Equal("Hello!"))
		n, ok := b.Node("n1")
		Expect(ok).To(BeTrue())
		Expect(n.Content).To(Equal("Hello!"))
	})

	It("routes tokens without a node id to the start anchor", func() {
		b.Start(nil, nil, "answer")

		Expect(b.AppendToken("a", "")).To(Equal("answer"))
		Expect(b.Text("answer")).To(Equal("a"))
	})

	It("moves the default node to the latest knowledge node", func() {
		b.Start([]graph.Node{{ID: "q"}, {ID: "a"}}, nil, "a")
		b.AppendToken("answer ", "")

		edge := graph.Edge{ID: "e1", SourceNodeID: "a", TargetNodeID: "k1"}
		b.AddKnowledge(graph.Node{ID: "k1", NodeType: graph.NodeKnowledge}, &edge)
		b.AppendToken("fact", "")

		Expect(b.Current()).To(Equal("k1"))
		Expect(b.Text("a")).To(Equal("answer "))
		Expect(b.Text("k1")).To(Equal("fact"))
		Expect(b.Edges()).To(ConsistOf(edge))
	})

	It("keeps tokens for interleaved nodes separate", func() {
		b.Start([]graph.Node{{ID: "x"}, {ID: "y"}}, nil, "")
		b.AppendToken("1", "x")
		b.AppendToken("A", "y")
		b.AppendToken("2", "x")
		b.AppendToken("B", "y")

		Expect(b.Text("x")).To(Equal("12"))
		Expect(b.Text("y")).To(Equal("AB"))
	})

	It("applies streamed titles", func() {
		b.Start([]graph.Node{{ID: "q", Title: "..."}}, nil, "")
		b.SetTitle("q", "Why graphs?")

		n, _ := b.Node("q")
		Expect(n.Title).To(Equal("Why graphs?"))
	})

	It("preserves introduction order", func() {
		b.Start([]graph.Node{{ID: "b"}, {ID: "a"}}, nil, "")
		b.AddKnowledge(graph.Node{ID: "c"}, nil)
		b.Start([]graph.Node{{ID: "a", Title: "updated"}}, nil, "")

		ids := []string{}
		for _, n := range b.Nodes() {
			ids = append(ids, n.ID)
		}
		Expect(ids).To(Equal([]string{"b", "a", "c"}))
	})

	It("settles to the authoritative result", func() {
		b.Start([]graph.Node{{ID: "n1"}}, nil, "n1")
		b.AppendToken("draft", "")
		b.Settle([]graph.Node{{ID: "n1", Content: "final"}}, []graph.Edge{{ID: "e"}})

		n, _ := b.Node("n1")
		Expect(n.Content).To(Equal("final"))
		Expect(b.Edges()).To(HaveLen(1))
	})
})
