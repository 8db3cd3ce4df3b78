package cmd

import (
	"net"
	"os"
	"syscall"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/htools/sitecheck/api"
	"github.com/htools/sitecheck/config"
	"github.com/htools/sitecheck/helpertest"
)

const basePort = 5000

var _ = Describe("Serve command", func() {
	var (
		tmpDir *helpertest.TmpFolder
		port   string
	)

	BeforeEach(func() {
		port = helpertest.GetStringPort(basePort)
		tmpDir = helpertest.NewTmpFolder("config")
		DeferCleanup(tmpDir.Clean)

		configPath = defaultConfigPath

		original := newValidator
		newValidator = func(*config.Config) api.Validator {
			return &validatorMock{}
		}

		DeferCleanup(func() { newValidator = original })
	})

	useConfig := func(lines ...string) {
		cfgFile := tmpDir.CreateStringFile("config.yaml", lines...)

		os.Setenv(configFileEnvVar, cfgFile.Path)
		DeferCleanup(func() { os.Unsetenv(configFileEnvVar) })
	}

	When("Serve command is called with valid config", func() {
		It("should start without error and terminate with signal", func() {
			useConfig(
				"http:",
				"  addr: 127.0.0.1:"+port,
			)

			errChan := make(chan error)
			By("start server", func() {
				go func() {
					// it is a blocking function, call async
					errChan <- startServer(newServeCommand(), []string{})
				}()
			})

			By("check HTTP port is open", func() {
				Eventually(func(g Gomega) {
					conn, err := net.DialTimeout("tcp", "127.0.0.1:"+port, 200*time.Millisecond)
					g.Expect(err).Should(Succeed())
					defer conn.Close()
				}).Should(Succeed())
			})

			By("terminate with signal", func() {
				signals <- syscall.SIGINT

				Eventually(errChan).Should(Receive(BeNil()))
			})
		})
	})

	When("the port is already in use", func() {
		It("should fail if server start fails", func() {
			listener, err := net.Listen("tcp", "127.0.0.1:"+port)
			Expect(err).Should(Succeed())
			DeferCleanup(listener.Close)

			useConfig(
				"http:",
				"  addr: 127.0.0.1:"+port,
			)

			errChan := make(chan error)
			go func() {
				errChan <- startServer(newServeCommand(), []string{})
			}()

			var startError error
			Eventually(errChan, "10s").Should(Receive(&startError))
			Expect(startError).Should(MatchError(ContainSubstring("address already in use")))
		})
	})

	When("Serve command is called with invalid config", func() {
		It("should fail to start and report error", func() {
			useConfig(
				"ledger:",
				"  maxWalkDepth: 0",
			)

			Expect(startServer(newServeCommand(), []string{})).
				Should(MatchError(ContainSubstring("unable to load configuration")))
		})
	})
})
