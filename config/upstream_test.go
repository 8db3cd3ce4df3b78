package config

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseUpstream", func() {
	suiteBeforeEach()

	DescribeTable("valid upstreams",
		func(in string, expected Upstream) {
			result, err := ParseUpstream(in)

			Expect(err).Should(Succeed())
			Expect(result).Should(Equal(expected))
		},
		Entry("ipv4 without port", "10.0.0.1", Upstream{Host: "10.0.0.1", Port: 53}),
		Entry("ipv4 with port", "127.0.0.1:5350", Upstream{Host: "127.0.0.1", Port: 5350}),
		Entry("ipv6 with port", "[::1]:5350", Upstream{Host: "::1", Port: 5350}),
		Entry("ipv6 without port", "[::1]", Upstream{Host: "::1", Port: 53}),
		Entry("host name", "hnsdoh.example:53", Upstream{Host: "hnsdoh.example", Port: 53}),
		Entry("empty", "", Upstream{}),
	)

	DescribeTable("invalid upstreams",
		func(in string) {
			_, err := ParseUpstream(in)

			Expect(err).Should(HaveOccurred())
		},
		Entry("port out of range", "127.0.0.1:77777"),
		Entry("port not a number", "127.0.0.1:dns"),
		Entry("wrong host", "under_score!.example:53"),
	)

	Describe("String", func() {
		It("should join host and port", func() {
			Expect(Upstream{Host: "::1", Port: 53}.String()).Should(Equal("[::1]:53"))
		})

		It("should describe the default value", func() {
			Expect(Upstream{}.String()).Should(Equal("no upstream"))
		})
	})

	Describe("UnmarshalText", func() {
		It("should wrap parse errors", func() {
			var u Upstream

			err := u.UnmarshalText([]byte("127.0.0.1:dns"))
			Expect(err).Should(MatchError(ContainSubstring("can't convert upstream")))
		})
	})
})
