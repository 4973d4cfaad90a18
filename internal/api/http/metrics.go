package http

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the HTTP collectors.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	denials  *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "homecrm",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "homecrm",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		denials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "homecrm",
			Name:      "authorization_denials_total",
			Help:      "Requests rejected by identity resolution or route policy.",
		}, []string{"route", "reason"}),
	}
	for name, c := range map[string]prometheus.Collector{
		"requests": m.requests,
		"latency":  m.latency,
		"denials":  m.denials,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register %s collector: %w", name, err)
		}
	}
	return m, nil
}
