package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	electrumRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "walletsync7000",
		Subsystem: "electrum_client",
		Name:      "operations_total",
		Help:      "Count of electrum server operations.",
	}, []string{"operation", "network", "status"})
	electrumRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "walletsync7000",
		Subsystem: "electrum_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of electrum server operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "network", "status"})
)

// ElectrumClient tracks metrics for calls to the electrum backend.
type ElectrumClient struct {
	network string
}

// NewElectrumClient constructs a metrics collector for electrum calls.
func NewElectrumClient(network string) *ElectrumClient {
	if network == "" {
		network = "unknown"
	}
	return &ElectrumClient{network: network}
}

// Observe records a single electrum call outcome and duration.
func (m ElectrumClient) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	electrumRequestsTotal.WithLabelValues(operation, m.network, status).Inc()
	electrumRequestDuration.WithLabelValues(operation, m.network, status).Observe(time.Since(started).Seconds())
}
