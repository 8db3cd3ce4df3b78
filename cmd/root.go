package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/htools/sitecheck/config"
	"github.com/htools/sitecheck/log"
)

const (
	defaultConfigPath = "./config.yml"
	configFileEnvVar  = "SITECHECK_CONFIG_FILE"
)

//nolint:gochecknoglobals
var (
	version    = "undefined"
	buildTime  = "undefined"
	configPath string
	cfg        *config.Config
)

// NewRootCommand creates new root command
func NewRootCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "sitecheck",
		Short: "sitecheck diagnoses the DNSSEC and DANE setup of Handshake domains",
		Long: `Checks whether a Handshake domain is ready for browsing with DANE:
DS record on chain, name tree propagation, DNSSEC signing and validation,
TLSA record and the certificate served over HTTPS.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(cmd, args)
		},
	}

	c.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to config file")

	c.AddCommand(
		newServeCommand(),
		NewCheckCommand(),
		NewValidateCommand(),
		NewHealthcheckCommand(),
		NewVersionCommand(),
	)

	return c
}

// initConfig loads the configuration from configPath or the file named by SITECHECK_CONFIG_FILE.
// A missing file is replaced by defaults and environment overrides.
func initConfig() error {
	return loadConfig(false)
}

func loadConfig(mandatory bool) error {
	if path, found := os.LookupEnv(configFileEnvVar); found {
		configPath = path
	}

	loaded, err := config.LoadConfig(configPath, mandatory)
	if err != nil {
		return fmt.Errorf("unable to load configuration: %w", err)
	}

	cfg = loaded

	log.ConfigureLogger(cfg.Log)

	return nil
}

// Execute starts the command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
