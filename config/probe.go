package config

import "github.com/sirupsen/logrus"

// Probe configures the TLS handshake against the resolved address
type Probe struct {
	Port    uint16   `yaml:"port" default:"443"`
	Timeout Duration `yaml:"timeout" default:"3s"`
}

// IsEnabled implements `config.Configurable`.
func (c *Probe) IsEnabled() bool {
	return true
}

// LogConfig implements `config.Configurable`.
func (c *Probe) LogConfig(logger *logrus.Entry) {
	logger.Infof("port: %d", c.Port)
	logger.Infof("timeout: %s", c.Timeout)
}
