package simulation

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	epochFinished = "finished"
	epochFailed   = "failed"
)

// simMetrics lives on a registry of its own so several networks can run in one
// process.
type simMetrics struct {
	registry *prometheus.Registry

	blocks          prometheus.Counter
	registrations   prometheus.Counter
	burnAdjustments prometheus.Counter
	epochs          *prometheus.CounterVec
	issuance        prometheus.Gauge
	totalStake      prometheus.Gauge
	pending         *prometheus.GaugeVec
}

func newSimMetrics() *simMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &simMetrics{
		registry: reg,
		blocks: factory.NewCounter(prometheus.CounterOpts{
			Name: "subspacesim_blocks_total",
			Help: "Blocks stepped",
		}),
		registrations: factory.NewCounter(prometheus.CounterOpts{
			Name: "subspacesim_registrations_total",
			Help: "Modules registered",
		}),
		burnAdjustments: factory.NewCounter(prometheus.CounterOpts{
			Name: "subspacesim_burn_adjustments_total",
			Help: "Registration burn adjustments",
		}),
		epochs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "subspacesim_epochs_total",
			Help: "Subnet epochs by outcome",
		}, []string{"netuid", "status"}),
		issuance: factory.NewGauge(prometheus.GaugeOpts{
			Name: "subspacesim_issuance",
			Help: "Total issuance in base units",
		}),
		totalStake: factory.NewGauge(prometheus.GaugeOpts{
			Name: "subspacesim_total_stake",
			Help: "Total stake in base units",
		}),
		pending: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "subspacesim_pending_emission",
			Help: "Pending emission per subnet in base units",
		}, []string{"netuid"}),
	}
}

func (m *simMetrics) recordEpoch(netuid, status string) {
	m.epochs.WithLabelValues(netuid, status).Inc()
}

func (m *simMetrics) recordPending(netuid uint16, pending uint64) {
	m.pending.WithLabelValues(strconv.FormatUint(uint64(netuid), 10)).Set(float64(pending))
}

// Gatherer exposes the metrics of the network, e.g. for
// prometheus.WriteToTextfile.
func (n *Network) Gatherer() prometheus.Gatherer {
	return n.metrics.registry
}
