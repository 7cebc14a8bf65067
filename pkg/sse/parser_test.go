package sse_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/graphchat/pkg/sse"
)

var _ = Describe("ParseFrame", func() {
	It("parses a typed data line", func() {
		ev, err := sse.ParseFrame(`data: {"type":"token","content":"Hi","node_id":"n1"}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Type).To(Equal("token"))
		Expect(string(ev.Data)).To(Equal(`{"type":"token","content":"Hi","node_id":"n1"}`))

		var payload struct {
			Content string `json:"content"`
			NodeID  string `json:"node_id"`
		}
		Expect(ev.Decode(&payload)).To(Succeed())
		Expect(payload.Content).To(Equal("Hi"))
		Expect(payload.NodeID).To(Equal("n1"))
	})

	It("ignores comment and non-data lines", func() {
		ev, err := sse.ParseFrame(": keep-alive\nevent: message\nid: 7\ndata: {\"type\":\"done\"}")
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Type).To(Equal("done"))
	})

	It("returns no event for a frame without data lines", func() {
		ev, err := sse.ParseFrame(": ping")
		Expect(err).NotTo(HaveOccurred())
		Expect(ev).To(BeNil())
	})

	It("accepts a data field with no space after the colon", func() {
		ev, err := sse.ParseFrame(`data:{"type":"start"}`)
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Type).To(Equal("start"))
	})

	It("keeps the last data line of a frame", func() {
		ev, err := sse.ParseFrame("data: {\"type\":\"start\"}\ndata: {\"type\":\"token\",\"content\":\"x\"}")
		Expect(err).NotTo(HaveOccurred())
		Expect(ev.Type).To(Equal("token"))
	})

	It("fails on malformed JSON", func() {
		_, err := sse.ParseFrame(`data: {"type":"token",`)
		Expect(err).To(HaveOccurred())

		var frameErr *sse.FrameError
		Expect(errors.As(err, &frameErr)).To(BeTrue())
		Expect(frameErr.Frame).To(Equal(`data: {"type":"token",`))
	})

	It("fails on a non-object payload", func() {
		_, err := sse.ParseFrame("data: [DONE]")
		Expect(err).To(HaveOccurred())
	})

	It("fails when the type field is missing or empty", func() {
		_, err := sse.ParseFrame(`data: {"content":"x"}`)
		Expect(err).To(MatchError(sse.ErrMissingType))

		_, err = sse.ParseFrame(`data: {"type":""}`)
		Expect(err).To(MatchError(sse.ErrMissingType))
	})

	It("fails when type is not a string", func() {
		_, err := sse.ParseFrame(`data: {"type":3}`)
		Expect(err).To(HaveOccurred())
	})
})
