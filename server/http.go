package server

import (
	"context"
	"net"
	"net/http"
	"time"
)

type httpServer struct {
	inner http.Server

	name string
}

func newHTTPServer(name string, handler http.Handler) *httpServer {
	const (
		readHeaderTimeout = 20 * time.Second
		readTimeout       = 20 * time.Second
	)

	return &httpServer{
		inner: http.Server{
			ReadTimeout:       readTimeout,
			ReadHeaderTimeout: readHeaderTimeout,

			Handler: handler,
		},

		name: name,
	}
}

func (s *httpServer) String() string {
	return s.name
}

func (s *httpServer) Serve(l net.Listener) error {
	return s.inner.Serve(l)
}

func (s *httpServer) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
