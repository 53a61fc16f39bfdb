package sntp

import (
	"errors"
	"time"

	"github.com/AndrewLester/sntp/internal/ntp"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts queries on its own registry so a one-shot run can dump them
// for the node_exporter textfile collector.
type Metrics struct {
	registry    *prometheus.Registry
	reqCounter  *prometheus.CounterVec
	durationHis *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	reqCounter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sntp",
		Subsystem: "queries",
		Name:      "total",
		Help:      "The total number of sntp queries by result",
	}, []string{"server", "result"})

	durationHis := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sntp",
		Subsystem: "query",
		Name:      "duration_seconds",
		Help:      "Time from dial to decoded reply",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	}, []string{"server"})

	registry := prometheus.NewRegistry()
	registry.MustRegister(reqCounter, durationHis)

	return &Metrics{
		registry:    registry,
		reqCounter:  reqCounter,
		durationHis: durationHis,
	}
}

func (m *Metrics) observe(server string, elapsed time.Duration, err error) {
	m.reqCounter.WithLabelValues(server, resultLabel(err)).Inc()
	if err == nil {
		m.durationHis.WithLabelValues(server).Observe(elapsed.Seconds())
	}
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNoResponse):
		return "no_response"
	case errors.Is(err, ntp.ErrMalformedMessage):
		return "malformed"
	default:
		return "transport"
	}
}

func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
