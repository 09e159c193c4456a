package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncArrowsScored()
	IncMatchesDecided()
	IncFlushRuns()
	IncFlushFailures()
	ObserveFlushDuration(duration float64)
	SetQueueDepth(depth float64)
	IncNotifSent()
	IncNotifFailed()
	SetStartupTime(duration float64)
}
