package validator

import (
	"github.com/htools/sitecheck/bridge"
	"github.com/htools/sitecheck/config"
	"github.com/htools/sitecheck/dane"
	"github.com/htools/sitecheck/ledger"
	"github.com/htools/sitecheck/resolver"
)

// NewFromConfig creates a validator with the gateways configured by cfg
func NewFromConfig(cfg *config.Config) *Validator {
	return New(
		ledger.NewGateway(cfg.Ledger),
		resolver.NewGateway(cfg.Resolver),
		dane.NewProber(cfg.Probe),
		bridge.New(cfg.Tools),
	)
}
