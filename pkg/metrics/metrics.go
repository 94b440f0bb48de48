// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "repair_desk",
		Subsystem: "query_cache",
		Name:      "lookups_total",
		Help:      "Query cache lookups broken down by key kind and result.",
	}, []string{"kind", "result"})

	cacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "repair_desk",
		Subsystem: "query_cache",
		Name:      "invalidations_total",
		Help:      "Query cache invalidations broken down by key kind.",
	}, []string{"kind"})

	staleDiscards = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "repair_desk",
		Subsystem: "query_cache",
		Name:      "stale_discards_total",
		Help:      "Fetch results dropped because the key was invalidated while in flight.",
	}, []string{"kind"})

	gateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "repair_desk",
		Subsystem: "access_gate",
		Name:      "decisions_total",
		Help:      "Admin access gate outcomes broken down by state.",
	}, []string{"state"})
)

func CacheHit(kind string)  { cacheLookups.WithLabelValues(kind, "hit").Inc() }
func CacheMiss(kind string) { cacheLookups.WithLabelValues(kind, "miss").Inc() }

func CacheInvalidated(kind string) { cacheInvalidations.WithLabelValues(kind).Inc() }

func StaleDiscarded(kind string) { staleDiscards.WithLabelValues(kind).Inc() }

func GateDecision(state string) { gateDecisions.WithLabelValues(state).Inc() }

// Handler exposes the default registry.
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
