package validator

import (
	"context"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/mock"

	"github.com/htools/sitecheck/model"
)

type mockChain struct {
	mock.Mock
}

func (m *mockChain) CurrentHeight(ctx context.Context) (int64, error) {
	args := m.Called(ctx)

	return args.Get(0).(int64), args.Error(1)
}

func (m *mockChain) LatestUpdate(ctx context.Context, label string) (model.Update, error) {
	args := m.Called(ctx, label)

	return args.Get(0).(model.Update), args.Error(1)
}

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) LookupAddress(ctx context.Context, domain model.Domain) (*model.Answer, error) {
	args := m.Called(ctx, domain)

	answer, _ := args.Get(0).(*model.Answer)

	return answer, args.Error(1)
}

func (m *mockResolver) LookupTLSA(ctx context.Context, domain model.Domain) (*model.Answer, error) {
	args := m.Called(ctx, domain)

	answer, _ := args.Get(0).(*model.Answer)

	return answer, args.Error(1)
}

type mockProber struct {
	mock.Mock
}

func (m *mockProber) FetchLeafCertificate(ctx context.Context, address, serverName string) ([]byte, bool) {
	args := m.Called(ctx, address, serverName)

	cert, _ := args.Get(0).([]byte)

	return cert, args.Bool(1)
}

type mockTools struct {
	mock.Mock
}

func (m *mockTools) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *mockTools) TraceChain(ctx context.Context, domain model.Domain) (string, error) {
	args := m.Called(ctx, domain)

	return args.String(0), args.Error(1)
}

func (m *mockTools) Probe(ctx context.Context, domain model.Domain) (string, error) {
	args := m.Called(ctx, domain)

	return args.String(0), args.Error(1)
}

func (m *mockTools) Graph(ctx context.Context, probe string) (string, error) {
	args := m.Called(ctx, probe)

	return args.String(0), args.Error(1)
}

func mustRR(s string) dns.RR {
	rr, err := dns.NewRR(s)
	if err != nil {
		panic(err)
	}

	return rr
}

func signedAddressAnswer(authenticated bool) *model.Answer {
	return &model.Answer{
		Name:          "example.",
		Qtype:         dns.TypeA,
		Rcode:         dns.RcodeSuccess,
		Authenticated: authenticated,
		Answer: []dns.RR{
			mustRR("example. 300 IN A 10.0.0.1"),
			mustRR("example. 300 IN RRSIG A 13 1 300 20300101000000 20200101000000 12345 example. dGVzdA=="),
		},
	}
}

func emptyAnswer(qType uint16, rcode int) *model.Answer {
	return &model.Answer{Qtype: qType, Rcode: rcode}
}

func tlsaAnswer(record string) *model.Answer {
	return &model.Answer{
		Name:   "_443._tcp.example.",
		Qtype:  dns.TypeTLSA,
		Rcode:  dns.RcodeSuccess,
		Answer: []dns.RR{mustRR("_443._tcp.example. 300 IN TLSA " + record)},
	}
}

func dsResource() *model.Resource {
	return &model.Resource{Records: []model.Record{
		{Type: model.RecordTypeDS, KeyTag: 12345, Algorithm: 13, DigestType: 2,
			Digest: "0c72ac70b745ac19998811b131d662c9ac69dbdbe7cb23e5b514b56664c5d3d6"},
		{Type: model.RecordTypeNS, NS: "ns1.example."},
	}}
}
