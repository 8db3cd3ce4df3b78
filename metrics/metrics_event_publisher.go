package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/htools/sitecheck/evt"
	"github.com/htools/sitecheck/util"

	"github.com/prometheus/client_golang/prometheus"
)

// RegisterEventListeners registers all metric handlers by the event bus
func RegisterEventListeners() {
	registerValidationEventListeners()
	registerApplicationEventListeners()
}

func registerApplicationEventListeners() {
	v := versionNumberGauge()
	RegisterMetric(v)

	subscribe(evt.ApplicationStarted, func(version, buildTime string) {
		v.WithLabelValues(version, buildTime).Set(1)
	})
}

func versionNumberGauge() *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sitecheck_build_info",
			Help: "Version number and build info",
		}, []string{"version", "build_time"},
	)
}

func registerValidationEventListeners() {
	validationCount := validationTotal()
	validationDuration := validationDurationHistogram()
	checkCount := checkTotal()

	RegisterMetric(validationCount)
	RegisterMetric(validationDuration)
	RegisterMetric(checkCount)

	subscribe(evt.ValidationFinished, func(outcome string, duration time.Duration) {
		validationCount.WithLabelValues(outcome).Inc()
		validationDuration.Observe(duration.Seconds())
	})

	subscribe(evt.CheckEvaluated, func(check string, ok bool) {
		checkCount.WithLabelValues(check, strconv.FormatBool(ok)).Inc()
	})
}

func validationTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitecheck_validation_total",
			Help: "Number of validation runs by outcome",
		}, []string{"outcome"},
	)
}

func validationDurationHistogram() prometheus.Histogram {
	return prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sitecheck_validation_duration_seconds",
			Help:    "Duration of validation runs",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)
}

func checkTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sitecheck_check_total",
			Help: "Number of evaluated checks by name and verdict",
		}, []string{"check", "ok"},
	)
}

func subscribe(topic string, fn interface{}) {
	util.FatalOnError(fmt.Sprintf("can't subscribe topic '%s'", topic), evt.Bus().Subscribe(topic, fn))
}
