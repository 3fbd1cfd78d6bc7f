// Package metrics exposes prometheus counters for the monitor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CyclesTotal counts monitor cycle invocations.
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "solwatch",
		Name:      "monitor_cycles_total",
		Help:      "Number of monitor cycles run.",
	})

	// PlansEvaluated counts per-plan evaluations across all cycles.
	PlansEvaluated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "solwatch",
		Name:      "plans_evaluated_total",
		Help:      "Number of plan evaluations performed.",
	})

	// PlanFailures counts plan evaluations that ended in an error.
	PlanFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "solwatch",
		Name:      "plan_failures_total",
		Help:      "Number of plan evaluations that failed.",
	})

	// TradesOpened counts executed entry swaps.
	TradesOpened = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "solwatch",
		Name:      "trades_opened_total",
		Help:      "Number of positions opened by the monitor.",
	})

	// TradesClosed counts executed exit swaps.
	TradesClosed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "solwatch",
		Name:      "trades_closed_total",
		Help:      "Number of positions closed by the monitor.",
	})
)
