package helpertest

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/http/httptest"

	"github.com/htools/sitecheck/util"
	"github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// TLSTestServer is an HTTPS endpoint serving a freshly generated self-signed certificate
type TLSTestServer struct {
	*httptest.Server

	Certificate tls.Certificate
}

// NewTLSTestServer starts an HTTPS server on 127.0.0.1 with a self-signed certificate for hosts
func NewTLSTestServer(hosts ...string) *TLSTestServer {
	cert, err := util.TLSGenerateSelfSignedCert(append([]string{"127.0.0.1"}, hosts...))
	Expect(err).Should(Succeed())

	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	srv.TLS = &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
	srv.StartTLS()

	ginkgo.DeferCleanup(srv.Close)

	return &TLSTestServer{Server: srv, Certificate: cert}
}

// Leaf returns the DER of the served certificate
func (s *TLSTestServer) Leaf() []byte {
	return s.Certificate.Certificate[0]
}

// HostPort splits the listener address
func (s *TLSTestServer) HostPort() (string, string) {
	host, port, err := net.SplitHostPort(s.Listener.Addr().String())
	Expect(err).Should(Succeed())

	return host, port
}
