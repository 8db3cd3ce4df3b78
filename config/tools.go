package config

import "github.com/sirupsen/logrus"

// Tools configures the external DNSSEC diagnostic tools (delv and dnsviz)
// whose output is embedded in the report
type Tools struct {
	Enable bool   `yaml:"enable" default:"true"`
	Delv   string `yaml:"delv" default:"delv"`
	Dnsviz string `yaml:"dnsviz" default:"dnsviz"`
	// Server is the resolver queried by the tools
	Server Upstream `yaml:"server" default:"103.196.38.38:53"`
	// AnchorFile is the delv trust anchor file (-a)
	AnchorFile string `yaml:"anchorFile" default:"hsd-ksk"`
	// TrustedKeysFile is the dnsviz trusted keys file (-t)
	TrustedKeysFile string `yaml:"trustedKeysFile" default:"tk.txt"`
	// AssetBaseURL replaces the local dnsviz share path in the rendered graph
	AssetBaseURL string   `yaml:"assetBaseUrl" default:"https://unruffled-hawking-ce37a9.netlify.app"`
	WorkDir      string   `yaml:"workDir"`
	Timeout      Duration `yaml:"timeout" default:"30s"`
}

// IsEnabled implements `config.Configurable`.
func (c *Tools) IsEnabled() bool {
	return c.Enable
}

// LogConfig implements `config.Configurable`.
func (c *Tools) LogConfig(logger *logrus.Entry) {
	logger.Infof("delv: %s", c.Delv)
	logger.Infof("dnsviz: %s", c.Dnsviz)
	logger.Infof("server: %s", c.Server)
	logger.Infof("anchor file: %s", c.AnchorFile)
	logger.Infof("trusted keys file: %s", c.TrustedKeysFile)
	logger.Infof("asset base url: %s", c.AssetBaseURL)

	if c.WorkDir != "" {
		logger.Infof("work dir: %s", c.WorkDir)
	}

	logger.Infof("timeout: %s", c.Timeout)
}
