package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		ArrowsScored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arrowsync_arrows_scored_total",
			Help: "The total number of arrow entries recorded locally.",
		}),
		MatchesDecided: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arrowsync_matches_decided_total",
			Help: "The total number of matches that reached a decided state.",
		}),
		FlushRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arrowsync_flush_runs_total",
			Help: "The total number of sync queue flush attempts.",
		}),
		FlushFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arrowsync_flush_failures_total",
			Help: "The total number of flushes stopped by a delivery failure.",
		}),
		FlushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "arrowsync_flush_duration_seconds",
			Help:    "The duration of individual queue flushes.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arrowsync_queue_depth",
			Help: "The number of submissions currently waiting in the sync queue.",
		}),
		NotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arrowsync_notifications_sent_total",
			Help: "The total number of decided-match notifications successfully sent.",
		}),
		NotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arrowsync_notifications_failed_total",
			Help: "The total number of decided-match notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arrowsync_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.ArrowsScored,
		s.MatchesDecided,
		s.FlushRuns,
		s.FlushFailures,
		s.FlushDuration,
		s.QueueDepth,
		s.NotifSent,
		s.NotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncArrowsScored() {
	s.ArrowsScored.Inc()
}

func (s *Service) IncMatchesDecided() {
	s.MatchesDecided.Inc()
}

func (s *Service) IncFlushRuns() {
	s.FlushRuns.Inc()
}

func (s *Service) IncFlushFailures() {
	s.FlushFailures.Inc()
}

func (s *Service) ObserveFlushDuration(duration float64) {
	s.FlushDuration.Observe(duration)
}

func (s *Service) SetQueueDepth(depth float64) {
	s.QueueDepth.Set(depth)
}

func (s *Service) IncNotifSent() {
	s.NotifSent.Inc()
}

func (s *Service) IncNotifFailed() {
	s.NotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
