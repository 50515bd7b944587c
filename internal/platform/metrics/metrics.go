package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "codemaster"

// 10ms -> 30s
var callBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

type Metrics struct {
	registry *prometheus.Registry

	RemoteCalls        *prometheus.CounterVec
	RemoteCallDuration *prometheus.HistogramVec
	TestResults        *prometheus.CounterVec
	Jobs               *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RemoteCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "executor_calls_total",
			Help:      "Remote executor calls by language and outcome",
		}, []string{"language", "outcome"}),
		RemoteCallDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "executor_call_seconds",
			Help:      "Remote executor call latency",
			Buckets:   callBuckets,
		}, []string{"language"}),
		TestResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "test_results_total",
			Help:      "Test case results by language and verdict",
		}, []string{"language", "verdict"}),
		Jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "execution_jobs_total",
			Help:      "Asynchronous execution jobs by final status",
		}, []string{"status"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RemoteCalls,
		m.RemoteCallDuration,
		m.TestResults,
		m.Jobs,
	)
	return m
}

func (m *Metrics) ObserveCall(language, outcome string, d time.Duration) {
	m.RemoteCalls.WithLabelValues(language, outcome).Inc()
	m.RemoteCallDuration.WithLabelValues(language).Observe(d.Seconds())
}

func (m *Metrics) ObserveResult(language string, passed bool) {
	verdict := "failed"
	if passed {
		verdict = "passed"
	}
	m.TestResults.WithLabelValues(language, verdict).Inc()
}

func (m *Metrics) ObserveJob(status string) {
	m.Jobs.WithLabelValues(status).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
