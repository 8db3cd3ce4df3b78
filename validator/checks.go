package validator

import (
	"context"
	"fmt"
	"strings"

	"github.com/htools/sitecheck/dane"
	"github.com/htools/sitecheck/log"
	"github.com/htools/sitecheck/model"
	"github.com/htools/sitecheck/util"
)

const (
	refURLPointDomain = "https://blog.htools.work/posts/hns-pdns-nginx-part-1/#point-domain-to-dns-server"
	refURLDNSSEC      = "https://blog.htools.work/posts/hns-pdns-nginx-part-1/"
	refURLWebserver   = "https://blog.htools.work/posts/hns-pdns-nginx-part-2/"
	refURLTLSA        = "https://blog.htools.work/posts/hns-pdns-nginx-part-3/"
	refURLTree        = "https://hsd-dev.org/protocol/summary.html"
	refURLPowerDNS    = "https://doc.powerdns.com/authoritative/dnssec/index.html"
	refURLARecord     = "https://www.cloudflare.com/en-in/learning/dns/dns-records/dns-a-record"
	refURLTLSAGen     = "https://ssl-tools.net/tlsa-generator"
)

const (
	solutionCreateA   = "Create an A record with an IP address."
	titleNoA          = "No A record set"
	titleNoTLSA       = "No TLSA record set"
	titleNotServing   = "Web server is not serving content over HTTPS"
	currentNotServing = "The web server is not serving a website over HTTPS."
	solutionServe     = "Make sure port 443 is open, and the web server is running with a self-signed " +
		"certificate configured properly."
)

type check struct {
	name     model.CheckName
	evaluate func(ctx context.Context, p *Prerequisites) (model.DiagnosticResult, error)
}

// checks returns all checks in report order
func (v *Validator) checks() []check {
	return []check{
		{model.CheckDSExists, dsExists},
		{model.CheckTreeUpdated, treeUpdated},
		{model.CheckNSDnssecEnabled, nsDnssecEnabled},
		{model.CheckDnssecChainValid, dnssecChainValid},
		{model.CheckTLSAExists, tlsaExists},
		{model.CheckWebserverContent, v.webserverContent},
		{model.CheckCorrectTLSA, v.correctTLSA},
	}
}

func dsExists(_ context.Context, p *Prerequisites) (model.DiagnosticResult, error) {
	const desc = "DS records are placed on chain to verify the authenticity of child zones."

	if p.Chain.Resource == nil {
		return model.DiagnosticResult{}, fmt.Errorf("%w: resource", ErrMissingState)
	}

	if !p.Chain.Resource.HasDS() {
		return model.DiagnosticResult{
			OK:          false,
			Title:       "No DS record found on chain",
			Description: desc,
			Current:     "No record found.",
			Solution:    "Add the DS record from your nameserver on the blockchain.",
			RefURL:      refURLPointDomain,
		}, nil
	}

	records := p.Chain.Resource.DS(p.Domain.TLD())
	lines := make([]string, len(records))

	for i, ds := range records {
		lines[i] = ds.String()
	}

	return model.DiagnosticResult{
		OK:          true,
		Title:       "DS record exists on chain",
		Description: desc,
		Current:     strings.Join(lines, "\n"),
	}, nil
}

func treeUpdated(_ context.Context, p *Prerequisites) (model.DiagnosticResult, error) {
	const desc = "The data structure that stores DNS records is updated once every 36 blocks (~4 times a day)."

	if p.Chain.CurrentHeight == 0 {
		return model.DiagnosticResult{}, fmt.Errorf("%w: current height", ErrMissingState)
	}

	if p.Chain.LatestUpdateHeight == 0 {
		return model.DiagnosticResult{}, fmt.Errorf("%w: latest update height", ErrMissingState)
	}

	status := ComputeTreeStatus(p.Chain.CurrentHeight, p.Chain.LatestUpdateHeight)

	switch status.State {
	case TreeSynced:
		return model.DiagnosticResult{
			OK:          true,
			Title:       "Urkel tree is synced and updated",
			Description: desc,
			Current: fmt.Sprintf("Latest records on chain are being served to resolvers for the past %d blocks.",
				status.Elapsed),
		}, nil

	case TreeCommitted:
		return model.DiagnosticResult{
			OK:          false,
			Title:       "Urkel tree recently updated",
			Description: desc,
			Current: fmt.Sprintf("Latest records on chain are committed to the tree, but some light clients "+
				"may still be using old records for another %d blocks.", status.RemainingBlocks),
			Solution: fmt.Sprintf("Wait for another ~%d minutes and try again.", status.RemainingMinutes()),
			RefURL:   refURLTree,
		}, nil

	default:
		return model.DiagnosticResult{
			OK:          false,
			Title:       "Urkel tree not yet updated",
			Description: desc,
			Current:     fmt.Sprintf("The last tree update was %d blocks ago.", status.Elapsed),
			Solution:    fmt.Sprintf("Wait for another ~%d minutes and try again.", status.RemainingMinutes()),
			RefURL:      refURLTree,
		}, nil
	}
}

func nsDnssecEnabled(_ context.Context, p *Prerequisites) (model.DiagnosticResult, error) {
	const desc = "Nameservers sign all answers when DNSSEC is enabled."

	if p.Resolution.Address == nil {
		return model.DiagnosticResult{}, fmt.Errorf("%w: address answer", ErrMissingState)
	}

	if p.Resolution.Address.Signed() {
		return model.DiagnosticResult{
			OK:          true,
			Title:       "Nameserver has DNSSEC enabled",
			Description: desc,
			Current:     "All records are signed.",
		}, nil
	}

	return model.DiagnosticResult{
		OK:          false,
		Title:       "Nameserver does not have DNSSEC enabled",
		Description: desc,
		Current:     "Records are not signed.",
		Solution:    "Enable DNSSEC on your nameserver. Then set DS records on the blockchain.",
		RefURL:      refURLPowerDNS,
	}, nil
}

func dnssecChainValid(_ context.Context, p *Prerequisites) (model.DiagnosticResult, error) {
	const desc = "DNSSEC has a chain of trust from the root zone to the signature of each record."

	answer := p.Resolution.Address
	if answer == nil {
		return model.DiagnosticResult{}, fmt.Errorf("%w: address answer", ErrMissingState)
	}

	if !answer.IsAnswer() {
		return model.DiagnosticResult{
			OK:          false,
			Title:       titleNoA,
			Description: desc,
			Current: fmt.Sprintf("No IP address was returned when querying %s. Could not test for DNSSEC.",
				p.Domain),
			Solution: solutionCreateA,
			RefURL:   refURLARecord,
		}, nil
	}

	if answer.Authenticated {
		return model.DiagnosticResult{
			OK:          true,
			Title:       "DNSSEC trust chain is valid",
			Description: desc,
			Current:     "The chain of trust is fully validated.",
		}, nil
	}

	return model.DiagnosticResult{
		OK:          false,
		Title:       "DNSSEC trust chain is broken",
		Description: desc,
		Current:     "The chain of trust is broken. See graph for more details",
		Solution:    "Find the broken link and make sure the correct DS records are set.",
		RefURL:      refURLDNSSEC,
	}, nil
}

func tlsaExists(_ context.Context, p *Prerequisites) (model.DiagnosticResult, error) {
	const desc = "A TLSA record consists of a hash of a certificate that's used by the web server " +
		"and is used for browsing with DANE/HTTPS."

	if p.Resolution.TLSA == nil {
		return model.DiagnosticResult{}, fmt.Errorf("%w: tlsa answer", ErrMissingState)
	}

	record := p.Resolution.TLSARecord()
	if !p.Resolution.TLSA.IsAnswer() || record == nil {
		return model.DiagnosticResult{
			OK:          false,
			Title:       titleNoTLSA,
			Description: desc,
			Current:     fmt.Sprintf("No TLSA record found for domain %s", p.Domain),
			Solution:    fmt.Sprintf("Add a TLSA record at %s.", p.Domain.TLSAName()),
			RefURL:      refURLTLSA,
		}, nil
	}

	return model.DiagnosticResult{
		OK:          true,
		Title:       "TLSA record is set",
		Description: desc,
		Current:     util.RRData(record),
	}, nil
}

func (v *Validator) webserverContent(ctx context.Context, p *Prerequisites) (model.DiagnosticResult, error) {
	const desc = "A web server serves websites over HTTP(S)."

	if p.Resolution.Address == nil {
		return model.DiagnosticResult{}, fmt.Errorf("%w: address answer", ErrMissingState)
	}

	address := p.Resolution.ResolvedAddress()
	if address == "" {
		return noAddressResult(desc, p.Domain), nil
	}

	if _, ok := v.prober.FetchLeafCertificate(ctx, address, p.Domain.String()); !ok {
		return notServingResult(desc), nil
	}

	return model.DiagnosticResult{
		OK:          true,
		Title:       "Web server is serving content over HTTPS",
		Description: desc,
		Current:     "The web server is using a certificate and serves content over HTTPS.",
	}, nil
}

func (v *Validator) correctTLSA(ctx context.Context, p *Prerequisites) (model.DiagnosticResult, error) {
	const desc = "The hash in the TLSA record should match the certificate used by the web server."

	if p.Resolution.Address == nil {
		return model.DiagnosticResult{}, fmt.Errorf("%w: address answer", ErrMissingState)
	}

	if p.Resolution.TLSA == nil {
		return model.DiagnosticResult{}, fmt.Errorf("%w: tlsa answer", ErrMissingState)
	}

	address := p.Resolution.ResolvedAddress()
	if address == "" {
		return noAddressResult(desc, p.Domain), nil
	}

	cert, ok := v.prober.FetchLeafCertificate(ctx, address, p.Domain.String())
	if !ok {
		return notServingResult(desc), nil
	}

	suggested, err := dane.SuggestedRecord(cert)
	if err != nil {
		return model.DiagnosticResult{}, fmt.Errorf("can't calculate server TLSA hash: %w", err)
	}

	record := p.Resolution.TLSARecord()
	if record == nil {
		return model.DiagnosticResult{
			OK:          false,
			Title:       titleNoTLSA,
			Description: desc,
			Current:     fmt.Sprintf("No TLSA record found for domain %s", p.Domain),
			Solution:    fmt.Sprintf("Add this TLSA record at %s:\n%s", p.Domain.TLSAName(), suggested),
			RefURL:      refURLTLSA,
		}, nil
	}

	if dane.VerifyRecord(cert, record) {
		return model.DiagnosticResult{
			OK:          true,
			Title:       "TLSA record matches certificate",
			Description: desc,
			Current:     util.RRData(record),
		}, nil
	}

	log.FromCtx(ctx).WithField("prefix", validatorLogger).
		Debugf("tlsa record '%s' does not match served certificate '%s'", util.RRData(record), suggested)

	return model.DiagnosticResult{
		OK:          false,
		Title:       "TLSA record does not match certificate",
		Description: desc,
		Current: fmt.Sprintf("DNS has record: %s\n but does not match the certificate used by the web server.",
			util.RRData(record)),
		Solution: "Correct the TLSA record to match the certificate:\n" + suggested,
		RefURL:   refURLTLSAGen,
	}, nil
}

func noAddressResult(desc string, domain model.Domain) model.DiagnosticResult {
	return model.DiagnosticResult{
		OK:          false,
		Title:       titleNoA,
		Description: desc,
		Current:     fmt.Sprintf("No IP address was returned when querying %s.", domain),
		Solution:    solutionCreateA,
		RefURL:      refURLARecord,
	}
}

func notServingResult(desc string) model.DiagnosticResult {
	return model.DiagnosticResult{
		OK:          false,
		Title:       titleNotServing,
		Description: desc,
		Current:     currentNotServing,
		Solution:    solutionServe,
		RefURL:      refURLWebserver,
	}
}
