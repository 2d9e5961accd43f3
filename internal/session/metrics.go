// path: internal/session/metrics.go
package session

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	movesProposed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chess",
		Subsystem: "session",
		Name:      "moves_proposed_total",
		Help:      "Move proposals received, legal or not.",
	})
	movesApplied = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "chess",
		Subsystem: "session",
		Name:      "moves_applied_total",
		Help:      "Moves that passed legality and were committed.",
	})
	movesRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chess",
		Subsystem: "session",
		Name:      "moves_rejected_total",
		Help:      "Move proposals rejected, by reason.",
	}, []string{"reason"})
	activeGames = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "chess",
		Subsystem: "session",
		Name:      "active_games",
		Help:      "Games currently held by the manager.",
	})
)

func init() {
	prometheus.MustRegister(movesProposed, movesApplied, movesRejected, activeGames)
}
