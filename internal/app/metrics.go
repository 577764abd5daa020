package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "scoreboard"

var (
	// 10µs -> ~80ms
	standingsBuckets = prometheus.ExponentialBuckets(0.00001, 2, 14)

	standingsDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "standings_seconds",
		Help:      "Histogram for the standings computation time",
		Buckets:   standingsBuckets,
	})

	clockTicks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "clock_ticks_total",
		Help:      "Number of replay clock ticks processed",
	})

	replaysEnded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "replays_ended_total",
		Help:      "Number of replays that ran to the end of the contest",
	})

	replaysActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "replays_active",
		Help:      "Number of replay rooms currently open",
	})

	viewersConnected = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "viewers_connected",
		Help:      "Number of connected scoreboard viewers",
	})
)

// RegisterMetrics registers the replay collectors with reg
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		standingsDuration,
		clockTicks,
		replaysEnded,
		replaysActive,
		viewersConnected,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func observeStandings(start time.Time) {
	standingsDuration.Observe(time.Since(start).Seconds())
}
