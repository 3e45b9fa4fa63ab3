// Package metrics holds the Prometheus collectors of the HTTP gateway.
//
// Collectors are registered on a caller-supplied registry instead of the
// global default, so several gateways (and tests) can coexist in one
// process. The CLI reads them back with Summarize for its stats command.
package metrics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "depositkeeper"

type GatewayMetrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	fallbacks *prometheus.CounterVec
}

// NewGatewayMetrics creates the collectors and registers them on reg.
func NewGatewayMetrics(reg prometheus.Registerer) (*GatewayMetrics, error) {
	m := &GatewayMetrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "requests_total",
				Help:      "Total number of backend requests by method, mode and status",
			},
			[]string{"method", "mode", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "request_duration_seconds",
				Help:      "Duration of backend requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "mode"},
		),
		fallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "gateway",
				Name:      "fallbacks_total",
				Help:      "Number of reads answered with placeholder data",
			},
			[]string{"mode"},
		),
	}

	for _, c := range []prometheus.Collector{m.requests, m.duration, m.fallbacks} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register gateway metrics: %w", err)
		}
	}
	return m, nil
}

// ObserveRequest records one finished request. status is the HTTP status
// code, or "error" when no response arrived.
func (m *GatewayMetrics) ObserveRequest(method, mode, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, mode, status).Inc()
	m.duration.WithLabelValues(method, mode).Observe(d.Seconds())
}

func (m *GatewayMetrics) ObserveFallback(mode string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(mode).Inc()
}

// Summarize renders the counters of g as sorted "name{labels} value" lines.
// Histograms are reported by their sample count.
func Summarize(g prometheus.Gatherer) ([]string, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), namespace+"_") {
			continue
		}
		for _, metric := range mf.GetMetric() {
			var value float64
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				value = metric.GetCounter().GetValue()
			case dto.MetricType_HISTOGRAM:
				value = float64(metric.GetHistogram().GetSampleCount())
			default:
				continue
			}
			lines = append(lines, fmt.Sprintf("%s%s %g", mf.GetName(), labelString(metric.GetLabel()), value))
		}
	}
	sort.Strings(lines)
	return lines, nil
}

func labelString(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts, fmt.Sprintf("%s=%q", p.GetName(), p.GetValue()))
	}
	return "{" + strings.Join(parts, ",") + "}"
}
