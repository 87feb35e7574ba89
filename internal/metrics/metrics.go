package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flips_active_sessions",
		Help: "Number of table sessions held in memory.",
	})

	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flips_connected_clients",
		Help: "Number of open websocket connections.",
	})

	GamesCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flips_games_completed_total",
		Help: "Games that reached the ended phase.",
	})

	ChipsAnted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flips_chips_anted_total",
		Help: "Chips collected into pots.",
	})
)
