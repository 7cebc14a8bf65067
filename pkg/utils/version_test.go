package utils

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("version", func() {
	BeforeEach(func() {
		orig := []string{Version, Sha, Buildtime}
		Version, Sha, Buildtime = "v1.2.3", "abc123", "2026-01-02"
		DeferCleanup(func() { Version, Sha, Buildtime = orig[0], orig[1], orig[2] })
	})

	It("builds the user agent from the version and sha", func() {
		Expect(UserAgent()).To(Equal("graphchat/v1.2.3 (abc123)"))
	})

	It("summarizes the build", func() {
		Expect(VersionInfo()).To(Equal("Version: v1.2.3\nSha: abc123\nBuilt at: 2026-01-02\n"))
	})
})
