package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	ArrowsScored       prometheus.Counter
	MatchesDecided     prometheus.Counter
	FlushRuns          prometheus.Counter
	FlushFailures      prometheus.Counter
	FlushDuration      prometheus.Histogram
	QueueDepth         prometheus.Gauge
	NotifSent          prometheus.Counter
	NotifFailed        prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}
