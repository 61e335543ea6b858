// Package metrics exposes the server's prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buzzd_rooms_created_total",
		Help: "Rooms created since process start.",
	})

	RoomsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "buzzd_rooms_live",
		Help: "Rooms currently registered.",
	})

	Buzzes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "buzzd_buzzes_total",
		Help: "Buzzes accepted into a ledger.",
	})

	ConnectionsLive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "buzzd_connections_live",
		Help: "Open signal connections.",
	})

	Events = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "buzzd_events_total",
		Help: "Inbound signal events by type.",
	}, []string{"type"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
