package workflows

import "github.com/prometheus/client_golang/prometheus"

const (
	saveKindNormal  = "normal"
	saveKindVersion = "version"
)

type metrics struct {
	saves    *prometheus.CounterVec
	archived prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stepwise",
				Subsystem: "workflows",
				Name:      "saves_total",
				Help:      "Workflow definition saves by kind.",
			},
			[]string{"kind"},
		),
		archived: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "stepwise",
				Subsystem: "workflows",
				Name:      "archived_snapshots_total",
				Help:      "Step lists written to the historical ledger.",
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.saves, m.archived)
	}
	return m
}
