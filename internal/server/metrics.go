package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	pageRenders    *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	datasetRecords prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		pageRenders: f.NewCounterVec(prometheus.CounterOpts{
			Name: "devtimeline_page_renders_total",
			Help: "Pages rendered, by page.",
		}, []string{"page"}),
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "devtimeline_render_duration_seconds",
			Help:    "Time spent rendering a page.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}, []string{"page"}),
		datasetRecords: f.NewGauge(prometheus.GaugeOpts{
			Name: "devtimeline_dataset_records",
			Help: "Records in the loaded dataset.",
		}),
	}
}
