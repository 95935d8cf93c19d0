package objstore

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects request counts, latencies and downloaded bytes for a
// Client. A nil *Metrics records nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	bytes    prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg when it is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flatfiles",
			Subsystem: "objstore",
			Name:      "requests_total",
			Help:      "Total number of object store requests, partitioned by operation and status code.",
		}, []string{"op", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flatfiles",
			Subsystem: "objstore",
			Name:      "request_duration_seconds",
			Help:      "Histogram of object store request latencies.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		bytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flatfiles",
			Subsystem: "objstore",
			Name:      "downloaded_bytes_total",
			Help:      "Total number of object bytes downloaded.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.requests, m.latency, m.bytes)
	}
	return m
}

// observe records one finished request. status is zero when no response
// was received.
func (m *Metrics) observe(op string, status int, d time.Duration) {
	if m == nil {
		return
	}
	code := "error"
	if status != 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(op, code).Inc()
	m.latency.WithLabelValues(op).Observe(d.Seconds())
}

func (m *Metrics) addBytes(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.bytes.Add(float64(n))
}
