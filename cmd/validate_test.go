package cmd

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/htools/sitecheck/helpertest"
)

var _ = Describe("Validate command", func() {
	var tmpDir *helpertest.TmpFolder

	BeforeEach(func() {
		tmpDir = helpertest.NewTmpFolder("config")
		DeferCleanup(tmpDir.Clean)
	})

	When("Validate is called with not existing configuration file", func() {
		It("should terminate with error", func() {
			c := NewRootCommand()
			c.SetArgs([]string{"validate", "--config", "/notexisting/path.yaml"})

			Expect(c.Execute()).Should(MatchError("configuration path does not exist"))
		})
	})

	When("Validate is called with existing valid configuration file", func() {
		It("should terminate without error", func() {
			cfgFile := tmpDir.CreateStringFile("config.yaml",
				"resolver:",
				"  upstream: 127.0.0.1:5350",
				"ledger:",
				"  url: http://127.0.0.1:12037",
			)

			c := NewRootCommand()
			c.SetArgs([]string{"validate", "--config", cfgFile.Path})

			Expect(c.Execute()).Should(Succeed())
		})
	})

	When("Validate is called with existing invalid configuration file", func() {
		It("should terminate with error", func() {
			cfgFile := tmpDir.CreateStringFile("config.yaml",
				"probe:",
				"  port: 0",
			)

			c := NewRootCommand()
			c.SetArgs([]string{"validate", "--config", cfgFile.Path})

			Expect(c.Execute()).Should(MatchError(ContainSubstring("probe.port must be set")))
		})
	})
})
