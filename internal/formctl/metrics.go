package formctl

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	fetchTotal     *prometheus.CounterVec
	staleTotal     *prometheus.CounterVec
	submitTotal    *prometheus.CounterVec
	submitDuration *prometheus.HistogramVec
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		fetchTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "materai",
			Subsystem: "form",
			Name:      "option_fetch_total",
			Help:      "Total number of option fetches by field and result.",
		}, []string{"field", "result"}),
		staleTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "materai",
			Subsystem: "form",
			Name:      "option_fetch_stale_total",
			Help:      "Option fetches whose result was dropped because a newer fetch superseded them.",
		}, []string{"field"}),
		submitTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "materai",
			Subsystem: "form",
			Name:      "submit_total",
			Help:      "Total number of submissions by result.",
		}, []string{"result"}),
		submitDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "materai",
			Subsystem: "form",
			Name:      "submit_duration_seconds",
			Help:      "Latency of encode + store for a submission.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"result"}),
	}
})

func fetchResult(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
