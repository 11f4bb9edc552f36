package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the app's Prometheus registry and instruments
type Collector struct {
	reg *prometheus.Registry

	JourneysPlanned  prometheus.Counter
	JourneyOptions   prometheus.Histogram
	PlanDuration     prometheus.Histogram
	FareCalculations prometheus.Counter

	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	WSClients      prometheus.Gauge
	SimulatorTicks prometheus.Counter

	HTTPRequests *prometheus.CounterVec // route label
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		JourneysPlanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "valleyyatra_journeys_planned_total",
			Help: "Total journey planning requests served.",
		}),
		JourneyOptions: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "valleyyatra_journey_options",
			Help:    "Number of itinerary options returned per planning request.",
			Buckets: prometheus.LinearBuckets(0, 1, 6),
		}),
		PlanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "valleyyatra_plan_duration_seconds",
			Help:    "Duration of journey planning computations.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
		FareCalculations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "valleyyatra_fare_calculations_total",
			Help: "Total journey fare calculations performed.",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "valleyyatra_cache_hits_total",
			Help: "Total Redis cache hits.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "valleyyatra_cache_misses_total",
			Help: "Total Redis cache misses.",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "valleyyatra_ws_clients",
			Help: "Currently connected WebSocket clients.",
		}),
		SimulatorTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "valleyyatra_simulator_ticks_total",
			Help: "Total real-time simulator ticks.",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "valleyyatra_http_requests_total",
			Help: "HTTP requests by route pattern.",
		}, []string{"route"}),
	}

	reg.MustRegister(
		c.JourneysPlanned, c.JourneyOptions, c.PlanDuration, c.FareCalculations,
		c.CacheHits, c.CacheMisses,
		c.WSClients, c.SimulatorTicks,
		c.HTTPRequests,
	)

	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}
