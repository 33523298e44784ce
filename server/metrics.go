package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are the collectors exported on /metrics.
type Metrics struct {
	Generated *prometheus.CounterVec
	Duration  *prometheus.HistogramVec
	Pages     *prometheus.CounterVec
	Previews  prometheus.GaugeFunc
}

func newMetrics(reg prometheus.Registerer, previews *PreviewStore) *Metrics {
	m := &Metrics{
		Generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrdocs",
			Name:      "reports_generated_total",
			Help:      "Report generation requests by report, mode and outcome.",
		}, []string{"report", "mode", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hrdocs",
			Name:      "report_generation_seconds",
			Help:      "Time spent generating a report.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"report"}),
		Pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hrdocs",
			Name:      "report_pages_total",
			Help:      "Pages produced by report.",
		}, []string{"report"}),
		Previews: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "hrdocs",
			Name:      "previews_stored",
			Help:      "Preview documents waiting to be released.",
		}, func() float64 { return float64(previews.Len()) }),
	}
	reg.MustRegister(m.Generated, m.Duration, m.Pages, m.Previews)
	return m
}
