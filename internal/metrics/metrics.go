// Package metrics exposes the service's operational counters on the
// default prometheus registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Scans = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zanovi_scans_total",
		Help: "Resolved EAN scans by intent and outcome.",
	}, []string{"intent", "outcome"})

	CounterMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "zanovi_stock_counter_mutations_total",
		Help: "Atomic stock counter mutations by direction.",
	}, []string{"direction"})

	SnapshotRebuilds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zanovi_snapshot_rebuilds_total",
		Help: "Inventory aggregation passes.",
	})

	BuybackExports = promauto.NewCounter(prometheus.CounterOpts{
		Name: "zanovi_buyback_exports_total",
		Help: "Buyback protocol documents generated.",
	})
)
