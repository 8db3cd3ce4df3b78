package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//nolint:gochecknoglobals
var (
	reg       = prometheus.NewRegistry()
	startOnce sync.Once
)

// RegisterMetric registers prometheus collector
func RegisterMetric(c prometheus.Collector) {
	_ = reg.Register(c)
}

// StartCollection registers the runtime collectors and subscribes to the event bus.
// Calling it more than once has no effect.
func StartCollection() {
	startOnce.Do(func() {
		_ = reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		_ = reg.Register(collectors.NewGoCollector())

		RegisterEventListeners()
	})
}

// Handler exposes the registry in the prometheus text format
func Handler() http.Handler {
	return promhttp.InstrumentMetricHandler(reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
}
