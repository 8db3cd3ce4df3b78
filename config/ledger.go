package config

import "github.com/sirupsen/logrus"

// Ledger configures the connection to the hsd full node
type Ledger struct {
	URL     string   `yaml:"url" default:"http://127.0.0.1:12037"`
	APIKey  string   `yaml:"apiKey"`
	Timeout Duration `yaml:"timeout" default:"10s"`
	// MaxWalkDepth caps the number of transactions visited while searching the last record update
	MaxWalkDepth uint `yaml:"maxWalkDepth" default:"64"`
}

// IsEnabled implements `config.Configurable`.
func (c *Ledger) IsEnabled() bool {
	return c.URL != ""
}

// LogConfig implements `config.Configurable`.
func (c *Ledger) LogConfig(logger *logrus.Entry) {
	logger.Infof("url: %s", c.URL)

	if c.APIKey != "" {
		logger.Info("api key: ********")
	}

	logger.Infof("timeout: %s", c.Timeout)
	logger.Infof("max walk depth: %d", c.MaxWalkDepth)
}
