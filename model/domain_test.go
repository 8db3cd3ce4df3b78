package model_test

import (
	"errors"
	"strings"

	"github.com/htools/sitecheck/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Domain", func() {
	DescribeTable("valid names",
		func(input, name, tld string) {
			d, err := model.ParseDomain(input)
			Expect(err).Should(Succeed())
			Expect(d.String()).Should(Equal(name))
			Expect(d.TLD()).Should(Equal(tld))
		},
		Entry("top-level name", "htools", "htools", "htools"),
		Entry("sub domain", "www.htools", "www.htools", "htools"),
		Entry("trailing dot", "www.htools.", "www.htools", "htools"),
		Entry("upper case", "WWW.HTools", "www.htools", "htools"),
		Entry("dash and underscore", "my-site_1.hns-tld", "my-site_1.hns-tld", "hns-tld"),
		Entry("longest label", strings.Repeat("a", 63)+".htools", strings.Repeat("a", 63)+".htools", "htools"),
	)

	DescribeTable("invalid names",
		func(input string) {
			_, err := model.ParseDomain(input)

			var inputErr *model.InputError
			Expect(errors.As(err, &inputErr)).Should(BeTrue())
			Expect(inputErr.Input).Should(Equal(input))
		},
		Entry("empty", ""),
		Entry("only a dot", "."),
		Entry("empty label", "www..htools"),
		Entry("slash", "htools/../etc"),
		Entry("space", "ht ools"),
		Entry("semicolon", "htools;rm"),
		Entry("unicode", "hänsel"),
		Entry("too long", strings.Repeat("a.", 127)+"abc"),
		Entry("label too long", strings.Repeat("a", 64)+".htools"),
		Entry("top-level label too long", "www."+strings.Repeat("h", 64)),
	)

	It("should derive FQDN and TLSA name", func() {
		d := model.MustParseDomain("www.htools")

		Expect(d.FQDN()).Should(Equal("www.htools."))
		Expect(d.TLSAName()).Should(Equal("_443._tcp.www.htools"))
		Expect(d.IsZero()).Should(BeFalse())
		Expect(model.Domain{}.IsZero()).Should(BeTrue())
	})

	It("should panic in MustParseDomain for bad input", func() {
		Expect(func() { model.MustParseDomain("bad domain") }).Should(Panic())
	})
})
