package config

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// HTTP configures the API listener
type HTTP struct {
	Addr        string   `yaml:"addr" default:":3001"`
	CORSOrigins []string `yaml:"corsOrigins" default:"[\"*\"]"`
	// RequestTimeout bounds one /check request, the whole validation included
	RequestTimeout Duration `yaml:"requestTimeout" default:"2m"`
}

// IsEnabled implements `config.Configurable`.
func (c *HTTP) IsEnabled() bool {
	return c.Addr != ""
}

// LogConfig implements `config.Configurable`.
func (c *HTTP) LogConfig(logger *logrus.Entry) {
	logger.Infof("addr: %s", c.Addr)
	logger.Infof("cors origins: %s", strings.Join(c.CORSOrigins, ", "))
	logger.Infof("request timeout: %s", c.RequestTimeout)
}
