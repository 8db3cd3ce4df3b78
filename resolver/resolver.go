package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"

	"github.com/htools/sitecheck/config"
	"github.com/htools/sitecheck/log"
	"github.com/htools/sitecheck/model"
	"github.com/htools/sitecheck/util"
)

const resolverLogger = "resolver"

// ResolutionError is returned if the upstream resolver could not answer a query
type ResolutionError struct {
	Name  string
	Qtype uint16
	Rcode int
	Err   error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("can't resolve %s %s: %s", dns.TypeToString[e.Qtype], e.Name, e.Err)
	}

	return fmt.Sprintf("can't resolve %s %s: upstream returned %s",
		dns.TypeToString[e.Qtype], e.Name, dns.RcodeToString[e.Rcode])
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Gateway asks a DNSSEC validating recursive resolver for the records of a domain
type Gateway struct {
	cfg      config.Resolver
	client   upstreamClient
	upstream string
}

// NewGateway creates a gateway for the configured upstream resolver
func NewGateway(cfg config.Resolver) *Gateway {
	return &Gateway{
		cfg:      cfg,
		client:   newDNSUpstreamClient(cfg.Timeout.ToDuration()),
		upstream: cfg.Upstream.String(),
	}
}

// LookupAddress queries the A records of domain
func (g *Gateway) LookupAddress(ctx context.Context, domain model.Domain) (*model.Answer, error) {
	return g.lookup(ctx, domain.FQDN(), dns.TypeA)
}

// LookupTLSA queries the TLSA records of the HTTPS endpoint of domain
func (g *Gateway) LookupTLSA(ctx context.Context, domain model.Domain) (*model.Answer, error) {
	return g.lookup(ctx, dns.Fqdn(domain.TLSAName()), dns.TypeTLSA)
}

func (g *Gateway) lookup(ctx context.Context, name string, qType uint16) (*model.Answer, error) {
	logger := log.FromCtx(ctx).WithField("prefix", resolverLogger)

	msg := newQuery(name, qType, g.cfg.UDPSize)

	start := time.Now()

	response, err := g.client.exchange(ctx, msg, g.upstream)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"upstream": g.upstream,
			"question": util.QuestionToString(msg.Question),
		}).Debugf("upstream call failed: %v", err)

		return nil, &ResolutionError{Name: name, Qtype: qType, Err: err}
	}

	logger.WithFields(logrus.Fields{
		"upstream":      g.upstream,
		"question":      util.QuestionToString(msg.Question),
		"answer":        util.AnswerToString(response.Answer),
		"return_code":   dns.RcodeToString[response.Rcode],
		"authenticated": response.AuthenticatedData,
		"duration_ms":   time.Since(start).Milliseconds(),
	}).Debug("received response from upstream")

	switch response.Rcode {
	case dns.RcodeSuccess, dns.RcodeNameError, dns.RcodeYXDomain:
	default:
		return nil, &ResolutionError{Name: name, Qtype: qType, Rcode: response.Rcode}
	}

	return &model.Answer{
		Name:          name,
		Qtype:         qType,
		Rcode:         response.Rcode,
		Authenticated: response.AuthenticatedData,
		Answer:        response.Answer,
		Authority:     response.Ns,
	}, nil
}

func newQuery(name string, qType uint16, udpSize uint16) *dns.Msg {
	msg := new(dns.Msg)
	msg.SetQuestion(name, qType)
	msg.RecursionDesired = true
	// ask the resolver to report its validation result
	msg.AuthenticatedData = true
	msg.SetEdns0(udpSize, true)

	return msg
}

// IsResolutionError returns true if err is or wraps a ResolutionError
func IsResolutionError(err error) bool {
	var resErr *ResolutionError

	return errors.As(err, &resErr)
}
