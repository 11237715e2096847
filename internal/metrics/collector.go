// Package metrics exposes Prometheus instrumentation for the ingestion API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all metrics for the ingestion service.
type Collector struct {
	trackRequests prometheus.Counter
	trackErrors   prometheus.Counter
	trackDuration prometheus.Histogram

	batchRequests prometheus.Counter
	batchErrors   prometheus.Counter
	batchSize     prometheus.Histogram

	eventsAccepted prometheus.Counter
	eventsRejected prometheus.Counter
}

// NewCollector registers and returns the ingestion metrics.
func NewCollector() *Collector {
	return NewCollectorWith(prometheus.DefaultRegisterer)
}

// NewCollectorWith registers the metrics against reg. Tests pass a private
// registry so repeated construction does not collide.
func NewCollectorWith(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		trackRequests: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "analytics",
			Subsystem: "ingest",
			Name:      "track_event_requests_total",
			Help:      "Total number of single-event track requests",
		}),
		trackErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "analytics",
			Subsystem: "ingest",
			Name:      "track_event_errors_total",
			Help:      "Total number of rejected single-event track requests",
		}),
		trackDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "analytics",
			Subsystem: "ingest",
			Name:      "track_event_duration_seconds",
			Help:      "Time spent handling a track request",
			Buckets:   prometheus.DefBuckets,
		}),
		batchRequests: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "analytics",
			Subsystem: "ingest",
			Name:      "batch_requests_total",
			Help:      "Total number of batch track requests",
		}),
		batchErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "analytics",
			Subsystem: "ingest",
			Name:      "batch_errors_total",
			Help:      "Total number of rejected batch track requests",
		}),
		batchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "analytics",
			Subsystem: "ingest",
			Name:      "batch_size_events",
			Help:      "Events per batch request",
			Buckets:   []float64{1, 5, 10, 25, 50, 100},
		}),
		eventsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "analytics",
			Subsystem: "ingest",
			Name:      "events_accepted_total",
			Help:      "Total number of events accepted",
		}),
		eventsRejected: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "analytics",
			Subsystem: "ingest",
			Name:      "events_rejected_total",
			Help:      "Total number of events rejected by validation",
		}),
	}
}

func (c *Collector) IncTrackRequests()                 { c.trackRequests.Inc() }
func (c *Collector) IncTrackErrors()                   { c.trackErrors.Inc() }
func (c *Collector) ObserveTrackDuration(secs float64) { c.trackDuration.Observe(secs) }
func (c *Collector) IncBatchRequests()                 { c.batchRequests.Inc() }
func (c *Collector) IncBatchErrors()                   { c.batchErrors.Inc() }
func (c *Collector) ObserveBatchSize(n int)            { c.batchSize.Observe(float64(n)) }
func (c *Collector) IncEventsAccepted()                { c.eventsAccepted.Inc() }
func (c *Collector) IncEventsRejected()                { c.eventsRejected.Inc() }
