package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "walletsync7000",
		Subsystem: "wallet_store",
		Name:      "operations_total",
		Help:      "Count of wallet store operations.",
	}, []string{"operation", "network", "status"})
	storeOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "walletsync7000",
		Subsystem: "wallet_store",
		Name:      "operation_duration_seconds",
		Help:      "Duration of wallet store operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "network", "status"})
)

// WalletStore tracks metrics for persistent store operations.
type WalletStore struct {
	network string
}

// NewWalletStore constructs a metrics collector for store operations.
func NewWalletStore(network string) *WalletStore {
	if network == "" {
		network = "unknown"
	}
	return &WalletStore{network: network}
}

// Observe records a single store operation outcome and duration.
func (m WalletStore) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}

	storeOperationsTotal.WithLabelValues(operation, m.network, status).Inc()
	storeOperationDuration.WithLabelValues(operation, m.network, status).Observe(time.Since(started).Seconds())
}
