package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	HTTPRequests      *prometheus.CounterVec
	RankRequests      *prometheus.CounterVec
	WeightAdjustments *prometheus.CounterVec
	RescoreDuration   prometheus.Histogram
	RescoredSeeds     prometheus.Counter
	ExportBytes       prometheus.Gauge
	ExportFailures    prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seeds_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		RankRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seeds_rank_requests_total",
			Help: "Board rankings served, by strategy.",
		}, []string{"strategy"}),
		WeightAdjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seeds_weight_adjustments_total",
			Help: "Board weight edits, labelled by whether other dimensions were reduced.",
		}, []string{"capped"}),
		RescoreDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "seeds_rescore_duration_seconds",
			Help:    "Time spent rescoring one board.",
			Buckets: prometheus.DefBuckets,
		}),
		RescoredSeeds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seeds_rescored_seeds_total",
			Help: "Seeds whose cached score changed during a rescore.",
		}),
		ExportBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "seeds_export_bytes",
			Help: "Size of the last successful export.",
		}),
		ExportFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seeds_export_failures_total",
			Help: "Exports that failed to build or upload.",
		}),
	}
	reg.MustRegister(
		m.HTTPRequests, m.RankRequests, m.WeightAdjustments,
		m.RescoreDuration, m.RescoredSeeds,
		m.ExportBytes, m.ExportFailures,
	)
	return m
}

func (m *Metrics) ObserveRequest(method, route string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ObserveRank(strategy string) {
	if m == nil {
		return
	}
	m.RankRequests.WithLabelValues(strategy).Inc()
}

func (m *Metrics) ObserveWeightAdjustment(capped bool) {
	if m == nil {
		return
	}
	m.WeightAdjustments.WithLabelValues(strconv.FormatBool(capped)).Inc()
}

func (m *Metrics) ObserveRescore(d time.Duration, changed int) {
	if m == nil {
		return
	}
	m.RescoreDuration.Observe(d.Seconds())
	m.RescoredSeeds.Add(float64(changed))
}

func (m *Metrics) ObserveExport(bytes int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.ExportFailures.Inc()
		return
	}
	m.ExportBytes.Set(float64(bytes))
}
