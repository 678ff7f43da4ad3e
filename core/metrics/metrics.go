package metrics

import (
	"context"
	"net/http"
	"time"

	"vonatinfo/core/reconcile"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vonatinfo"

// Collector holds every metric of the service.
type Collector struct {
	reg *prometheus.Registry

	Polls        *prometheus.CounterVec
	PollFailures *prometheus.CounterVec
	Candidates   *prometheus.GaugeVec
	PollDuration *prometheus.HistogramVec
	SkippedTicks *prometheus.CounterVec

	MergeOutcomes *prometheus.CounterVec
	Evictions     *prometheus.CounterVec
	RosterSize    prometheus.Gauge
	CycleDuration prometheus.Histogram
	LastPublish   prometheus.Gauge

	EventsPublished prometheus.Counter
	EventErrors     prometheus.Counter
	EventsConnected prometheus.Gauge
}

// NewCollector creates a Collector with its own registry, including the Go
// runtime and process collectors.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_polls_total",
			Help:      "Upstream polls per feed.",
		}, []string{"feed"}),
		PollFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_poll_failures_total",
			Help:      "Failed upstream polls per feed.",
		}, []string{"feed"}),
		Candidates: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_candidates",
			Help:      "Candidates produced by the last poll per feed.",
		}, []string{"feed"}),
		PollDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "feed_poll_duration_seconds",
			Help:      "Duration of one poll including enrichment.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"feed"}),
		SkippedTicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_skipped_ticks_total",
			Help:      "Ticks skipped because the previous poll was still running.",
		}, []string{"feed"}),
		MergeOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merge_outcomes_total",
			Help:      "Merge results per source and outcome.",
		}, []string{"source", "outcome"}),
		Evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evictions_total",
			Help:      "Records removed by the sweeper per reason.",
		}, []string{"reason"}),
		RosterSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "roster_size",
			Help:      "Trips in the published snapshot.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Duration of merge, sweep and publish.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 15),
		}),
		LastPublish: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_published_timestamp_seconds",
			Help:      "Unix time of the last published snapshot.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Messages published to NATS.",
		}),
		EventErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_publish_errors_total",
			Help:      "Failed NATS publishes.",
		}),
		EventsConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "events_connected",
			Help:      "1 if the NATS connection is up, 0 otherwise.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.Polls, c.PollFailures, c.Candidates, c.PollDuration, c.SkippedTicks,
		c.MergeOutcomes, c.Evictions, c.RosterSize, c.CycleDuration, c.LastPublish,
		c.EventsPublished, c.EventErrors, c.EventsConnected,
	)
	return c
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// ObservePoll records one upstream poll.
func (c *Collector) ObservePoll(feed string, candidates int, err error, took time.Duration) {
	c.Polls.WithLabelValues(feed).Inc()
	c.PollDuration.WithLabelValues(feed).Observe(took.Seconds())
	if err != nil {
		c.PollFailures.WithLabelValues(feed).Inc()
	}
	c.Candidates.WithLabelValues(feed).Set(float64(candidates))
}

// SkippedTick records a tick dropped by the overlap guard.
func (c *Collector) SkippedTick(feed string) {
	c.SkippedTicks.WithLabelValues(feed).Inc()
}

// Name implements reconcile.Sink.
func (c *Collector) Name() string { return "metrics" }

// OnCycle implements reconcile.Sink.
func (c *Collector) OnCycle(_ context.Context, cycle reconcile.Cycle) error {
	for outcome, n := range cycle.Stats {
		c.MergeOutcomes.WithLabelValues(cycle.Source, string(outcome)).Add(float64(n))
	}
	for _, ev := range cycle.Evicted {
		c.Evictions.WithLabelValues(string(ev.Reason)).Inc()
	}
	c.CycleDuration.Observe(cycle.Duration.Seconds())
	if cycle.Snapshot != nil {
		c.RosterSize.Set(float64(cycle.Snapshot.Len()))
		c.LastPublish.Set(float64(cycle.Snapshot.PublishedAt().Unix()))
	}
	return nil
}

// EventPublished records one NATS publish outcome.
func (c *Collector) EventPublished(err error) {
	if err != nil {
		c.EventErrors.Inc()
		return
	}
	c.EventsPublished.Inc()
}

// EventsConnectedSet records the NATS connection state.
func (c *Collector) EventsConnectedSet(connected bool) {
	if connected {
		c.EventsConnected.Set(1)
		return
	}
	c.EventsConnected.Set(0)
}
