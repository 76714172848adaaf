package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics exports synchronization outcomes.
type SyncMetrics struct {
	documents *prometheus.CounterVec
	runs      *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewSyncMetrics creates the sync collectors and registers them with reg.
func NewSyncMetrics(reg prometheus.Registerer) (*SyncMetrics, error) {
	m := &SyncMetrics{
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_sync_documents_total",
			Help: "Documents processed by catalog synchronization, by outcome",
		}, []string{"outcome"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_sync_runs_total",
			Help: "Catalog synchronization runs, by result",
		}, []string{"result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "catalog_sync_duration_seconds",
			Help:    "Wall time of catalog synchronization runs",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}
	for _, c := range []prometheus.Collector{m.documents, m.runs, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *SyncMetrics) observeRun(result string, seconds float64) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(result).Inc()
	m.duration.Observe(seconds)
}

func (m *SyncMetrics) addDocuments(accepted, rejected int) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues("accepted").Add(float64(accepted))
	m.documents.WithLabelValues("rejected").Add(float64(rejected))
}
