package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/creasty/defaults"
	"github.com/hashicorp/go-multierror"
	"github.com/knadh/koanf"
	"github.com/sirupsen/logrus"

	"github.com/htools/sitecheck/log"
)

// Configurable is implemented by every config section
type Configurable interface {
	// IsEnabled returns true when the section is active
	IsEnabled() bool

	// LogConfig logs the section values
	LogConfig(*logrus.Entry)
}

// Config main configuration
type Config struct {
	Log      log.Config `yaml:"log"`
	Resolver Resolver   `yaml:"resolver"`
	Ledger   Ledger     `yaml:"ledger"`
	Probe    Probe      `yaml:"probe"`
	Tools    Tools      `yaml:"tools"`
	HTTP     HTTP       `yaml:"http"`
	Metrics  Metrics    `yaml:"metrics"`
}

// NewDefaultConfig returns a Config with every default applied
func NewDefaultConfig() (*Config, error) {
	cfg := new(Config)

	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("can't apply default values: %w", err)
	}

	return cfg, nil
}

// LoadConfig creates new config from YAML file and SITECHECK_ environment variables.
// A missing file is only an error if mandatory is set.
func LoadConfig(path string, mandatory bool) (*Config, error) {
	cfg, err := NewDefaultConfig()
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := loadFile(k, path); err != nil {
				return nil, fmt.Errorf("can't read config file '%s': %w", path, err)
			}
		} else if mandatory || !errors.Is(statErr, os.ErrNotExist) {
			return nil, fmt.Errorf("can't read config file '%s': %w", path, statErr)
		}
	}

	if err := loadEnvironment(k); err != nil {
		return nil, fmt.Errorf("can't read environment: %w", err)
	}

	if err := unmarshalKoanf(k, cfg); err != nil {
		return nil, fmt.Errorf("wrong file structure: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *Config) validate() error {
	var mErr *multierror.Error

	if cfg.Resolver.Upstream.IsDefault() {
		mErr = multierror.Append(mErr, errors.New("resolver.upstream must be set"))
	}

	if !cfg.Resolver.Timeout.IsAboveZero() {
		mErr = multierror.Append(mErr, errors.New("resolver.timeout must be above zero"))
	}

	if u, err := url.Parse(cfg.Ledger.URL); err != nil || u.Scheme == "" || u.Host == "" {
		mErr = multierror.Append(mErr, fmt.Errorf("ledger.url '%s' is not an absolute URL", cfg.Ledger.URL))
	}

	if cfg.Ledger.MaxWalkDepth == 0 {
		mErr = multierror.Append(mErr, errors.New("ledger.maxWalkDepth must be above zero"))
	}

	if !cfg.Probe.Timeout.IsAboveZero() {
		mErr = multierror.Append(mErr, errors.New("probe.timeout must be above zero"))
	}

	if cfg.Probe.Port == 0 {
		mErr = multierror.Append(mErr, errors.New("probe.port must be set"))
	}

	if cfg.Tools.Enable && !cfg.Tools.Timeout.IsAboveZero() {
		mErr = multierror.Append(mErr, errors.New("tools.timeout must be above zero"))
	}

	return mErr.ErrorOrNil()
}

// Sections returns every config section with its name, in log order
func (cfg *Config) Sections() []struct {
	Name    string
	Section Configurable
} {
	return []struct {
		Name    string
		Section Configurable
	}{
		{"resolver", &cfg.Resolver},
		{"ledger", &cfg.Ledger},
		{"probe", &cfg.Probe},
		{"tools", &cfg.Tools},
		{"http", &cfg.HTTP},
		{"metrics", &cfg.Metrics},
	}
}

// LogConfig logs all enabled sections
func (cfg *Config) LogConfig(logger *logrus.Entry) {
	for _, s := range cfg.Sections() {
		if !s.Section.IsEnabled() {
			logger.Infof("%s: disabled", s.Name)

			continue
		}

		logger.Infof("%s:", s.Name)
		s.Section.LogConfig(logger.WithField("prefix", s.Name))
	}
}
