package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const metricsNamespace = "kafgov_console"

// Registry collects the console's own metrics, served at /metrics.
var (
	Registry = prometheus.NewRegistry()

	ProxyRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "gateway",
			Name:      "proxy_requests_total",
			Help:      "Counter of requests proxied to the governance backend.",
		}, []string{"method", "status"})

	LiveRelayGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "gateway",
			Name:      "live_relays_active",
			Help:      "Number of active live snapshot relay sessions.",
		})

	UpstreamErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "gateway",
			Name:      "upstream_errors_total",
			Help:      "Counter of failed upstream requests and dials.",
		})
)

func init() {
	Registry.MustRegister(ProxyRequestCounter)
	Registry.MustRegister(LiveRelayGauge)
	Registry.MustRegister(UpstreamErrorCounter)
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}
