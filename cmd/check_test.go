package cmd

import (
	"bytes"
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"

	"github.com/htools/sitecheck/api"
	"github.com/htools/sitecheck/config"
	"github.com/htools/sitecheck/helpertest"
	"github.com/htools/sitecheck/model"
)

type validatorMock struct {
	mock.Mock
}

func (m *validatorMock) Validate(ctx context.Context, domain string) (*model.Report, error) {
	args := m.Called(ctx, domain)

	report, _ := args.Get(0).(*model.Report)

	return report, args.Error(1)
}

var _ = Describe("Check command", func() {
	var (
		validator *validatorMock
		usedCfg   *config.Config
		out       bytes.Buffer
	)

	BeforeEach(func() {
		out.Reset()

		tmpDir := helpertest.NewTmpFolder("config")
		DeferCleanup(tmpDir.Clean)
		configPath = tmpDir.JoinPath("missing.yml")

		validator = &validatorMock{}

		original := newValidator
		newValidator = func(c *config.Config) api.Validator {
			usedCfg = c

			return validator
		}

		DeferCleanup(func() { newValidator = original })
	})

	run := func(args ...string) error {
		c := NewCheckCommand()
		c.SetOut(&out)
		c.SetArgs(args)

		return c.Execute()
	}

	report := &model.Report{
		Domain: "htools",
		Checks: []model.NamedResult{
			{Name: model.CheckDSExists, Result: model.DiagnosticResult{OK: true}},
			{Name: model.CheckTreeUpdated, Result: model.DiagnosticResult{OK: false}},
		},
	}

	It("should print the report", func() {
		validator.On("Validate", mock.Anything, "htools").Return(report, nil)

		Expect(run("htools")).Should(Succeed())

		var decoded map[string]interface{}
		Expect(json.Unmarshal(out.Bytes(), &decoded)).Should(Succeed())
		Expect(decoded).Should(HaveKeyWithValue("domain", "htools"))
		Expect(decoded).Should(HaveKey("treeUpdated"))
	})

	It("should fail in strict mode if a check fails", func() {
		validator.On("Validate", mock.Anything, "htools").Return(report, nil)

		Expect(run("--strict", "htools")).Should(MatchError(ContainSubstring("treeUpdated")))
	})

	It("should disable the tools on request", func() {
		validator.On("Validate", mock.Anything, "htools").Return(report, nil)

		Expect(run("--no-tools", "htools")).Should(Succeed())
		Expect(usedCfg.Tools.Enable).Should(BeFalse())
	})

	It("should return validation errors", func() {
		validator.On("Validate", mock.Anything, "bad domain").
			Return(nil, &model.InputError{Input: "bad domain", Reason: "illegal label"})

		Expect(run("bad domain")).Should(MatchError(ContainSubstring("invalid domain name")))
		Expect(out.Len()).Should(BeZero())
	})

	It("should require exactly one domain", func() {
		Expect(run()).Should(HaveOccurred())
	})
})
