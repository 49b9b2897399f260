// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors for the room engine, registered on the default registry and
// served from /metrics.
var (
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "hearts_active_rooms",
		Help: "Number of rooms currently held in the registry.",
	})
	GamesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hearts_games_started_total",
		Help: "Games that reached PLAYING.",
	})
	GamesFinished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hearts_games_finished_total",
		Help: "Games that reached FINISHED.",
	})
	RoundsDealt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hearts_rounds_dealt_total",
		Help: "Rounds dealt across all rooms.",
	})
	TricksResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hearts_tricks_resolved_total",
		Help: "Completed tricks across all rooms.",
	})
	RejectedPlays = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hearts_rejected_plays_total",
		Help: "Play attempts refused by turn or legality checks.",
	})
)
