package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector bakesight-dashboard 的 Prometheus 指标
// nil Collector 的所有方法都是 no-op
type Collector struct {
	centralRequests *prometheus.CounterVec
	centralDuration *prometheus.HistogramVec
	sourceDegraded  *prometheus.CounterVec
	alertMutations  *prometheus.CounterVec
}

// NewCollector 创建并注册指标
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		centralRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bakesight",
			Name:      "central_requests_total",
			Help:      "Requests issued to the central API, by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		centralDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bakesight",
			Name:      "central_request_duration_seconds",
			Help:      "Latency of central API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		sourceDegraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bakesight",
			Name:      "alert_source_degraded_total",
			Help:      "Alert aggregations where a best-effort source failed and contributed nothing.",
		}, []string{"source"}),
		alertMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bakesight",
			Name:      "alert_mutations_total",
			Help:      "Alert state transitions requested through the dashboard.",
		}, []string{"operation", "outcome"}),
	}
	reg.MustRegister(c.centralRequests, c.centralDuration, c.sourceDegraded, c.alertMutations)
	return c
}

// ObserveCentral 记录一次 central API 请求
func (c *Collector) ObserveCentral(endpoint, outcome string, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.centralRequests.WithLabelValues(endpoint, outcome).Inc()
	c.centralDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// SourceDegraded 记录降级的数据源
func (c *Collector) SourceDegraded(source string) {
	if c == nil {
		return
	}
	c.sourceDegraded.WithLabelValues(source).Inc()
}

// AlertMutation 记录报警状态变更
func (c *Collector) AlertMutation(operation string, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.alertMutations.WithLabelValues(operation, outcome).Inc()
}
