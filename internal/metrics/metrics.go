// Package metrics exposes device counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/truthsignal-device/internal/logic"
)

// Message results used as the "result" label.
const (
	ResultAlert   = "alert"
	ResultIgnored = "ignored"
)

var states = []logic.ConnectivityState{
	logic.StateNetworkDown,
	logic.StateBrokerDown,
	logic.StateConnected,
}

// Metrics holds the device collectors. Each instance owns its registry so
// tests can build as many as they like.
type Metrics struct {
	reg *prometheus.Registry

	// AlertsTotal counts alert sequences played
	AlertsTotal prometheus.Counter

	// MessagesTotal counts inbound notifications by result
	MessagesTotal *prometheus.CounterVec

	// ConnectFailuresTotal counts failed broker connection attempts
	ConnectFailuresTotal prometheus.Counter

	// NetworkRecoveriesTotal counts network link cycles
	NetworkRecoveriesTotal prometheus.Counter

	// ConnectivityState is 1 for the current state and 0 for the others
	ConnectivityState *prometheus.GaugeVec
}

// New registers the device collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		AlertsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "truthsignal_alerts_total",
			Help: "Total number of alert sequences played",
		}),
		MessagesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "truthsignal_messages_total",
			Help: "Total number of notifications received, by result",
		}, []string{"result"}),
		ConnectFailuresTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "truthsignal_broker_connect_failures_total",
			Help: "Total number of failed broker connection attempts",
		}),
		NetworkRecoveriesTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "truthsignal_network_recoveries_total",
			Help: "Total number of times the network link was cycled",
		}),
		ConnectivityState: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "truthsignal_connectivity_state",
			Help: "Current connectivity state (1 for the active state)",
		}, []string{"state"}),
	}
}

// RecordMessage counts one notification.
func (m *Metrics) RecordMessage(verified bool) {
	if verified {
		m.MessagesTotal.WithLabelValues(ResultAlert).Inc()
		return
	}
	m.MessagesTotal.WithLabelValues(ResultIgnored).Inc()
}

// SetState marks s as the active connectivity state.
func (m *Metrics) SetState(s logic.ConnectivityState) {
	for _, st := range states {
		v := 0.0
		if st == s {
			v = 1
		}
		m.ConnectivityState.WithLabelValues(string(st)).Set(v)
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}
