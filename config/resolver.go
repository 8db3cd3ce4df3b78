package config

import "github.com/sirupsen/logrus"

// Resolver configures the DNSSEC validating recursive resolver that is asked
// for the address and TLSA records. It must set the AD flag on validated answers.
type Resolver struct {
	Upstream Upstream `yaml:"upstream" default:"127.0.0.1:5350"`
	Timeout  Duration `yaml:"timeout" default:"5s"`
	// UDPSize is the EDNS0 buffer size of sent queries
	UDPSize uint16 `yaml:"udpSize" default:"4096"`
}

// IsEnabled implements `config.Configurable`.
func (c *Resolver) IsEnabled() bool {
	return !c.Upstream.IsDefault()
}

// LogConfig implements `config.Configurable`.
func (c *Resolver) LogConfig(logger *logrus.Entry) {
	logger.Infof("upstream: %s", c.Upstream)
	logger.Infof("timeout: %s", c.Timeout)
	logger.Infof("udp size: %d", c.UDPSize)
}
