package resolver

import (
	"net"
	"sync/atomic"

	"github.com/miekg/dns"

	"github.com/htools/sitecheck/config"
	"github.com/htools/sitecheck/util"
)

// MockUDPUpstreamServer is an in-process DNS server on 127.0.0.1.
// It answers on UDP and on TCP at the same port.
type MockUDPUpstreamServer struct {
	callCount    int32
	tcpCallCount int32
	udp, tcp     *dns.Server
	answerFn     func(request *dns.Msg) (response *dns.Msg)
	truncateUDP  bool
}

func NewMockUDPUpstreamServer() *MockUDPUpstreamServer {
	return &MockUDPUpstreamServer{}
}

func (t *MockUDPUpstreamServer) WithAnswerRR(answers ...string) *MockUDPUpstreamServer {
	t.answerFn = func(request *dns.Msg) (response *dns.Msg) {
		msg := new(dns.Msg)

		for _, a := range answers {
			rr, err := dns.NewRR(a)
			util.FatalOnError("can't create RR", err)

			msg.Answer = append(msg.Answer, rr)
		}

		return msg
	}

	return t
}

func (t *MockUDPUpstreamServer) WithAnswerMsg(answer *dns.Msg) *MockUDPUpstreamServer {
	t.answerFn = func(request *dns.Msg) (response *dns.Msg) {
		return answer.Copy()
	}

	return t
}

func (t *MockUDPUpstreamServer) WithAnswerError(errorCode int) *MockUDPUpstreamServer {
	t.answerFn = func(request *dns.Msg) (response *dns.Msg) {
		msg := new(dns.Msg)
		msg.Rcode = errorCode

		return msg
	}

	return t
}

func (t *MockUDPUpstreamServer) WithAnswerFn(fn func(request *dns.Msg) (response *dns.Msg)) *MockUDPUpstreamServer {
	t.answerFn = fn

	return t
}

// WithTruncatedUDP answers every UDP query with an empty truncated response
func (t *MockUDPUpstreamServer) WithTruncatedUDP() *MockUDPUpstreamServer {
	t.truncateUDP = true

	return t
}

func (t *MockUDPUpstreamServer) GetCallCount() int {
	return int(atomic.LoadInt32(&t.callCount))
}

// GetTCPCallCount returns the number of queries received over TCP
func (t *MockUDPUpstreamServer) GetTCPCallCount() int {
	return int(atomic.LoadInt32(&t.tcpCallCount))
}

func (t *MockUDPUpstreamServer) Close() {
	if t.udp != nil {
		_ = t.udp.Shutdown()
	}

	if t.tcp != nil {
		_ = t.tcp.Shutdown()
	}
}

func (t *MockUDPUpstreamServer) handle(w dns.ResponseWriter, msg *dns.Msg) {
	atomic.AddInt32(&t.callCount, 1)

	_, isTCP := w.LocalAddr().(*net.TCPAddr)
	if isTCP {
		atomic.AddInt32(&t.tcpCallCount, 1)
	}

	response := t.answerFn(msg)

	// nil should indicate an error
	if response == nil {
		_, _ = w.Write([]byte("dummy"))

		return
	}

	rCode := response.Rcode
	authenticated := response.AuthenticatedData
	response.SetReply(msg)

	if rCode != 0 {
		response.Rcode = rCode
	}

	response.AuthenticatedData = authenticated

	if t.truncateUDP && !isTCP {
		response.Truncated = true
		response.Answer = nil
		response.Ns = nil
	}

	_ = w.WriteMsg(response)
}

func (t *MockUDPUpstreamServer) Start() config.Upstream {
	pc, err := net.ListenPacket("udp4", "127.0.0.1:0")
	util.FatalOnError("can't create connection: ", err)

	ln, err := net.Listen("tcp4", pc.LocalAddr().String())
	util.FatalOnError("can't create listener: ", err)

	handler := dns.HandlerFunc(t.handle)

	udpStarted := make(chan struct{})
	tcpStarted := make(chan struct{})

	t.udp = &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(udpStarted) }}
	t.tcp = &dns.Server{Listener: ln, Handler: handler, NotifyStartedFunc: func() { close(tcpStarted) }}

	go func() { _ = t.udp.ActivateAndServe() }()
	go func() { _ = t.tcp.ActivateAndServe() }()

	<-udpStarted
	<-tcpStarted

	upstream, err := config.ParseUpstream(pc.LocalAddr().String())
	util.FatalOnError("can't convert address: ", err)

	return upstream
}
