package dane

import (
	"context"
	"crypto/tls"
	"net"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/htools/sitecheck/config"
	"github.com/htools/sitecheck/log"
)

const proberLogger = "dane"

// Prober fetches the certificate a web server presents
type Prober struct {
	port    uint16
	timeout time.Duration
}

// NewProber creates a prober for the configured port and timeout
func NewProber(cfg config.Probe) *Prober {
	return &Prober{
		port:    cfg.Port,
		timeout: cfg.Timeout.ToDuration(),
	}
}

// FetchLeafCertificate performs a TLS handshake with address using serverName as SNI
// and returns the DER of the leaf certificate. The chain is not validated.
// Any failure returns false.
func (p *Prober) FetchLeafCertificate(ctx context.Context, address, serverName string) ([]byte, bool) {
	logger := log.FromCtx(ctx).WithFields(logrus.Fields{
		"prefix":      proberLogger,
		"address":     address,
		"server_name": serverName,
	})

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	dialer := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: p.timeout},
		Config: &tls.Config{
			ServerName: serverName,
			// the certificate is pinned by DNS, not by a CA
			InsecureSkipVerify: true, //nolint:gosec
		},
	}

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(address, strconv.Itoa(int(p.port))))
	if err != nil {
		logger.Debugf("tls handshake failed: %v", err)

		return nil, false
	}

	defer conn.Close()

	tlsConn, ok := conn.(*tls.Conn)
	if !ok {
		return nil, false
	}

	peerCerts := tlsConn.ConnectionState().PeerCertificates
	if len(peerCerts) == 0 {
		logger.Debug("no certificates received from server")

		return nil, false
	}

	return peerCerts[0].Raw, true
}
