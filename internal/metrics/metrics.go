package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Service bundles the agent's prometheus collectors. Each Service owns its
// registry so isolated test instances never collide on registration.
type Service struct {
	Registry *prometheus.Registry

	TxSubmitted prometheus.Counter
	TxConfirmed prometheus.Counter
	TxReverted  prometheus.Counter
	TxTimedOut  prometheus.Counter

	SequencesCompleted prometheus.Counter
	SequencesAborted   prometheus.Counter

	ConfirmationSeconds prometheus.Histogram
}

func New() *Service {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Service{
		Registry: registry,
		TxSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "vault_agent_tx_submitted_total",
			Help: "Signed transactions broadcast to the network.",
		}),
		TxConfirmed: factory.NewCounter(prometheus.CounterOpts{
			Name: "vault_agent_tx_confirmed_total",
			Help: "Transactions confirmed with a success receipt.",
		}),
		TxReverted: factory.NewCounter(prometheus.CounterOpts{
			Name: "vault_agent_tx_reverted_total",
			Help: "Transactions mined with a failure (revert) receipt.",
		}),
		TxTimedOut: factory.NewCounter(prometheus.CounterOpts{
			Name: "vault_agent_tx_timeout_total",
			Help: "Confirmation waits that expired without a receipt.",
		}),
		SequencesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "vault_agent_sequences_completed_total",
			Help: "Multi-step sequences in which every step confirmed.",
		}),
		SequencesAborted: factory.NewCounter(prometheus.CounterOpts{
			Name: "vault_agent_sequences_aborted_total",
			Help: "Multi-step sequences aborted after a step failure.",
		}),
		ConfirmationSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "vault_agent_confirmation_seconds",
			Help:    "Time between broadcast and receipt.",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}
}
