package mazeprotocol

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels recorded for each command.
const (
	OutcomeDone  = "done"
	OutcomeData  = "data"
	OutcomeNope  = "nope"
	OutcomeOver  = "over"
	OutcomeFault = "fault"
)

// Metrics holds the Prometheus collectors updated by a Client. A nil
// *Metrics records nothing.
type Metrics struct {
	commands *prometheus.CounterVec
	latency  *prometheus.HistogramVec
	moves    *prometheus.CounterVec
	sessions *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mazec_commands_total",
			Help: "Commands sent to the maze server by command word and response outcome.",
		}, []string{"command", "outcome"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mazec_command_duration_seconds",
			Help:    "Round-trip time of maze server commands.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		}, []string{"command"}),
		moves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mazec_moves_total",
			Help: "Move attempts by direction and result.",
		}, []string{"direction", "result"}),
		sessions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mazec_sessions_total",
			Help: "Sessions by how they ended.",
		}, []string{"end"}),
	}
}

func (m *Metrics) observeCommand(command, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command, outcome).Inc()
	m.latency.WithLabelValues(command).Observe(elapsed.Seconds())
}

func (m *Metrics) observeMove(d Direction, result string) {
	if m == nil {
		return
	}
	m.moves.WithLabelValues(d.String(), result).Inc()
}

func (m *Metrics) observeSessionEnd(end string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(end).Inc()
}

func outcomeOf(kind ResponseKind) string {
	switch kind {
	case ResponseDone:
		return OutcomeDone
	case ResponseData:
		return OutcomeData
	case ResponseNope:
		return OutcomeNope
	case ResponseOver:
		return OutcomeOver
	}
	return OutcomeFault
}
