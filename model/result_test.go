package model_test

import (
	"encoding/json"
	"strings"

	"github.com/htools/sitecheck/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Report", func() {
	var report *model.Report

	BeforeEach(func() {
		report = &model.Report{Domain: "htools"}

		for i, name := range model.CheckNames() {
			report.Checks = append(report.Checks, model.NamedResult{
				Name:   name,
				Result: model.DiagnosticResult{OK: i%2 == 0, Title: string(name)},
			})
		}
	})

	It("should list all seven checks", func() {
		Expect(model.CheckNames()).Should(HaveLen(7))
	})

	It("should find results by name", func() {
		res, ok := report.Result(model.CheckTreeUpdated)
		Expect(ok).Should(BeTrue())
		Expect(res.Title).Should(Equal("treeUpdated"))

		_, ok = report.Result("unknown")
		Expect(ok).Should(BeFalse())
	})

	It("should list failed checks in order", func() {
		Expect(report.Failed()).Should(Equal([]model.CheckName{model.CheckTreeUpdated, model.CheckDnssecChainValid, model.CheckWebserverContent}))
	})

	Describe("MarshalJSON", func() {
		It("should keep the check order", func() {
			b, err := json.Marshal(report)
			Expect(err).Should(Succeed())

			s := string(b)
			last := -1

			for _, key := range []string{
				`"domain"`, `"ipAddress"`, `"dsExists"`, `"treeUpdated"`, `"nsDnssecEnabled"`,
				`"dnssecChainValid"`, `"tlsaExists"`, `"webserverContent"`, `"correctTlsa"`,
				`"delv"`, `"dnsvizProbe"`, `"dnsvizGraph"`,
			} {
				idx := strings.Index(s, key)
				Expect(idx).Should(BeNumerically(">", last), key)
				last = idx
			}
		})

		It("should write null for missing values and omit empty remediation", func() {
			b, err := json.Marshal(report)
			Expect(err).Should(Succeed())

			var decoded map[string]interface{}
			Expect(json.Unmarshal(b, &decoded)).Should(Succeed())

			Expect(decoded).Should(HaveKeyWithValue("ipAddress", BeNil()))
			Expect(decoded).Should(HaveKeyWithValue("delv", BeNil()))
			Expect(decoded["dsExists"]).ShouldNot(HaveKey("solution"))
			Expect(decoded["dsExists"]).Should(HaveKeyWithValue("ok", true))
		})

		It("should include collaborator output", func() {
			trace := "; fully validated"
			report.Delv = &trace
			report.IPAddress = "1.2.3.4"

			b, err := json.Marshal(report)
			Expect(err).Should(Succeed())
			Expect(string(b)).Should(ContainSubstring(`"delv":"; fully validated"`))
			Expect(string(b)).Should(ContainSubstring(`"ipAddress":"1.2.3.4"`))
		})

		It("should escape check names used as keys", func() {
			report.Checks = append(report.Checks, model.NamedResult{
				Name:   model.CheckName(`odd"name`),
				Result: model.DiagnosticResult{OK: true, Title: "odd"},
			})

			b, err := json.Marshal(report)
			Expect(err).Should(Succeed())
			Expect(json.Valid(b)).Should(BeTrue())

			var decoded map[string]interface{}
			Expect(json.Unmarshal(b, &decoded)).Should(Succeed())
			Expect(decoded).Should(HaveKey(`odd"name`))
		})
	})
})
