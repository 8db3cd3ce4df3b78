package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/htools/sitecheck/api"
	"github.com/htools/sitecheck/config"
	"github.com/htools/sitecheck/log"
	"github.com/htools/sitecheck/metrics"
)

// Server serves the HTTP API
type Server struct {
	cfg        *config.Config
	listener   net.Listener
	httpServer *httpServer
	httpMux    *chi.Mux

	stopTrigger func()
}

func logger() *logrus.Entry {
	return log.PrefixedLog("server")
}

// NewServer creates new server instance with passed config. The listener is bound immediately.
func NewServer(cfg *config.Config, validator api.Validator) (*Server, error) {
	listener, err := net.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		return nil, fmt.Errorf("start http listener on %s failed: %w", cfg.HTTP.Addr, err)
	}

	router := createRouter(cfg)

	if cfg.Metrics.IsEnabled() {
		metrics.StartCollection()
		router.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	api.RegisterEndpoints(router, validator)

	server := &Server{
		cfg:        cfg,
		listener:   listener,
		httpServer: newHTTPServer("http", router),
		httpMux:    router,
	}

	server.printConfiguration()

	return server, nil
}

func createRouter(cfg *config.Config) *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.Recoverer)

	configureCorsHandler(router, cfg.HTTP.CORSOrigins)

	if cfg.HTTP.RequestTimeout.IsAboveZero() {
		router.Use(middleware.Timeout(cfg.HTTP.RequestTimeout.ToDuration()))
	}

	return router
}

func configureCorsHandler(router *chi.Mux, origins []string) {
	crs := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
	router.Use(crs.Handler)
}

// Addr returns the address the server listens on
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Start starts the server. Serve errors are sent to errCh.
func (s *Server) Start(errCh chan<- error) {
	logger().Info("Starting server")

	go func() {
		logger().Infof("%s server is up and running on addr %s", s.httpServer, s.listener.Addr())

		if err := s.httpServer.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("start %s listener failed: %w", s.httpServer, err)
		}
	}()

	s.stopTrigger = onConfigurationSignal(s.printConfiguration)
}

// Stop stops the server, waiting for running requests until ctx is done
func (s *Server) Stop(ctx context.Context) error {
	logger().Info("Stopping server")

	if s.stopTrigger != nil {
		s.stopTrigger()
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("stop %s listener failed: %w", s.httpServer, err)
	}

	return nil
}

func (s *Server) printConfiguration() {
	logger().Info("current configuration:")

	s.cfg.LogConfig(logger())

	logger().Info("runtime information:")

	// force garbage collector
	runtime.GC()
	debug.FreeOSMemory()

	// gather memory stats
	var m runtime.MemStats

	runtime.ReadMemStats(&m)

	logger().Infof("MEM Alloc =        %10v MB", toMB(m.Alloc))
	logger().Infof("MEM HeapAlloc =    %10v MB", toMB(m.HeapAlloc))
	logger().Infof("MEM Sys =          %10v MB", toMB(m.Sys))
	logger().Infof("MEM NumGC =        %10v", m.NumGC)
	logger().Infof("RUN NumCPU =       %10d", runtime.NumCPU())
	logger().Infof("RUN NumGoroutine = %10d", runtime.NumGoroutine())
}

func toMB(b uint64) uint64 {
	const bytesInKB = 1024

	return b / bytesInKB / bytesInKB
}
