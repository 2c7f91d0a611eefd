package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "svgasset"

// Metrics holds the per-run collectors on a private registry, so a build can
// be pushed to a gateway without process-wide state.
type Metrics struct {
	Registry *prometheus.Registry

	files    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	finalize *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Tracked files processed, by processor and outcome.",
		}, []string{"processor", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "file_duration_seconds",
			Help:      "Time spent transforming and writing one file.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"processor"}),
		finalize: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "finalize_total",
			Help:      "Finalize runs, by processor and outcome.",
		}, []string{"processor", "outcome"}),
	}
	m.Registry.MustRegister(m.files, m.duration, m.finalize)
	return m
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) ObserveFile(processor string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.files.WithLabelValues(processor, outcome(err)).Inc()
	m.duration.WithLabelValues(processor).Observe(d.Seconds())
}

func (m *Metrics) ObserveFinalize(processor string, err error) {
	if m == nil {
		return
	}
	m.finalize.WithLabelValues(processor, outcome(err)).Inc()
}

// Expose serves the registry on :port/metrics in the background.
func Expose(port int, g prometheus.Gatherer) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
	}()
}

// Push sends the registry to a Prometheus push gateway under job.
func Push(ctx context.Context, url, job string, g prometheus.Gatherer) error {
	return push.New(url, job).Gatherer(g).PushContext(ctx)
}
