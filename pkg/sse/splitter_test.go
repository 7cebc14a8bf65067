package sse_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/graphchat/pkg/sse"
)

var _ = Describe("Splitter", func() {
	var s *sse.Splitter

	BeforeEach(func() {
		s = &sse.Splitter{}
	})

	It("yields a frame once its delimiter arrives", func() {
		Expect(s.Feed([]byte("data: {\"type\":\"a\"}"))).To(BeEmpty())
		Expect(s.Pending()).To(Equal([]byte("data: {\"type\":\"a\"}")))

		frames := s.Feed([]byte("\n\n"))
		Expect(frames).To(Equal([]string{"data: {\"type\":\"a\"}"}))
		Expect(s.Pending()).To(BeEmpty())
	})

	It("detects a delimiter split across chunks", func() {
		Expect(s.Feed([]byte("data: x\n"))).To(BeEmpty())
		Expect(s.Feed([]byte("\ndata: y"))).To(Equal([]string{"data: x"}))
		Expect(string(s.Pending())).To(Equal("data: y"))
	})

	It("returns several frames from one chunk in order", func() {
		frames := s.Feed([]byte("data: 1\n\ndata: 2\n\ndata: 3"))
		Expect(frames).To(Equal([]string{"data: 1", "data: 2"}))
		Expect(string(s.Pending())).To(Equal("data: 3"))
	})

	It("keeps at most one partial frame pending", func() {
		s.Feed([]byte("data: 1\n\ndata: 2\n\n"))
		Expect(s.Pending()).To(BeEmpty())
	})

	It("skips empty frames from extra blank lines", func() {
		frames := s.Feed([]byte("\n\n\n\ndata: 1\n\n"))
		Expect(frames).To(Equal([]string{"data: 1"}))
	})

	It("normalises CRLF even when split across chunks", func() {
		Expect(s.Feed([]byte("data: 1\r\n\r"))).To(BeEmpty())
		Expect(s.Feed([]byte("\ndata: 2\r\n\r\n"))).To(Equal([]string{"data: 1", "data: 2"}))
	})

	It("does not split inside a multi-byte character", func() {
		text := "data: {\"type\":\"token\",\"content\":\"héllo 世界\"}\n\n"
		Expect(s.Feed([]byte(text[:27]))).To(BeEmpty())
		frames := s.Feed([]byte(text[27:]))
		Expect(frames).To(HaveLen(1))
		Expect(frames[0]).To(ContainSubstring("héllo 世界"))
	})

	It("flushes and clears the unterminated tail", func() {
		s.Feed([]byte("data: 1\n\ndata: partial"))
		Expect(s.Flush()).To(Equal("data: partial"))
		Expect(s.Pending()).To(BeEmpty())
		Expect(s.Flush()).To(BeEmpty())
	})
})
