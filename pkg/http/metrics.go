package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeApplied  = "applied"
	outcomeRejected = "rejected"
)

// Metrics holds the counters served on /metrics. Each server gets its own
// registry so several servers can live in one test binary.
type Metrics struct {
	Registry *prometheus.Registry
	Intents  *prometheus.CounterVec
	Exports  *prometheus.CounterVec
	Uploads  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Intents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tracker",
			Name:      "intents_total",
			Help:      "Intents dispatched to the tracker, by intent and outcome.",
		}, []string{"intent", "outcome"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tracker",
			Name:      "exports_total",
			Help:      "CSV exports served, by collection.",
		}, []string{"collection"}),
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tracker",
			Name:      "photo_uploads_total",
			Help:      "Photo uploads, by outcome.",
		}, []string{"outcome"}),
	}
	m.Registry.MustRegister(m.Intents, m.Exports, m.Uploads)
	return m
}

func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
}

func (rs *RestfulServer) countUpload(outcome string) {
	if rs.Metrics != nil {
		rs.Metrics.Uploads.WithLabelValues(outcome).Inc()
	}
}
