// Package metrics constructs the prometheus collectors for the node.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "ledger"

// Ledger is the behavior required to report on the state of the node.
type Ledger interface {
	QueryChainLength() int
	QueryMempoolLength() int
}

// Metrics holds the collectors updated by the web middleware and the node.
type Metrics struct {
	registry *prometheus.Registry

	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	errors    prometheus.Counter
	panics    prometheus.Counter
	mined     prometheus.Counter
	consensus *prometheus.CounterVec
}

// New constructs the collectors on their own registry. The ledger gauges
// are read from the provided value at scrape time.
func New(ledger Ledger) *Metrics {
	m := Metrics{
		registry: prometheus.NewRegistry(),

		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of API requests.",
		}, []string{"method", "path", "status"}),

		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		}, []string{"method", "path"}),

		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Total number of requests that returned an error.",
		}),

		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "panics_total",
			Help:      "Total number of requests that panicked.",
		}),

		mined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "blocks_mined_total",
			Help:      "Total number of blocks mined by this node.",
		}),

		consensus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "chain",
			Name:      "consensus_total",
			Help:      "Total number of consensus runs by outcome.",
		}, []string{"replaced"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.errors,
		m.panics,
		m.mined,
		m.consensus,
	)

	if ledger != nil {
		m.registry.MustRegister(
			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "chain",
				Name:      "length",
				Help:      "Number of blocks in the chain including genesis.",
			}, func() float64 { return float64(ledger.QueryChainLength()) }),

			prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "mempool",
				Name:      "length",
				Help:      "Number of transactions waiting to be mined.",
			}, func() float64 { return float64(ledger.QueryMempoolLength()) }),
		)
	}

	return &m
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records a completed request.
func (m *Metrics) ObserveRequest(method string, path string, status int, took time.Duration) {
	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, path).Observe(took.Seconds())
}

// AddError increments the error count.
func (m *Metrics) AddError() {
	m.errors.Inc()
}

// AddPanic increments the panic count.
func (m *Metrics) AddPanic() {
	m.panics.Inc()
}

// AddMinedBlock increments the mined block count.
func (m *Metrics) AddMinedBlock() {
	m.mined.Inc()
}

// AddConsensus records the outcome of a consensus run.
func (m *Metrics) AddConsensus(replaced bool) {
	m.consensus.WithLabelValues(strconv.FormatBool(replaced)).Inc()
}
