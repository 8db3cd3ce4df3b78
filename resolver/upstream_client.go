package resolver

import (
	"context"
	"time"

	"github.com/miekg/dns"
)

type upstreamClient interface {
	exchange(ctx context.Context, msg *dns.Msg, upstream string) (*dns.Msg, error)
}

type dnsUpstreamClient struct {
	tcpClient, udpClient *dns.Client
}

func newDNSUpstreamClient(timeout time.Duration) *dnsUpstreamClient {
	return &dnsUpstreamClient{
		tcpClient: &dns.Client{
			Net:     "tcp",
			Timeout: timeout,
		},
		udpClient: &dns.Client{
			Net:     "udp",
			Timeout: timeout,
		},
	}
}

// exchange sends msg over UDP and repeats it over TCP if the answer was truncated
func (r *dnsUpstreamClient) exchange(ctx context.Context, msg *dns.Msg, upstream string) (*dns.Msg, error) {
	response, _, err := r.udpClient.ExchangeContext(ctx, msg, upstream)
	if err != nil {
		return nil, err
	}

	if !response.Truncated {
		return response, nil
	}

	response, _, err = r.tcpClient.ExchangeContext(ctx, msg, upstream)

	return response, err
}
