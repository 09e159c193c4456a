package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu             sync.Mutex
	arrowsScored   int
	matchesDecided int
	flushRuns      int
	flushFailures  int
	flushDurations []float64
	queueDepth     float64
	notifSent      int
	notifFailed    int
	startupTime    float64
}

var _ Metrics = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		flushDurations: make([]float64, 0),
	}
}

func (m *Mock) IncArrowsScored() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.arrowsScored++
}

func (m *Mock) IncMatchesDecided() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matchesDecided++
}

func (m *Mock) IncFlushRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushRuns++
}

func (m *Mock) IncFlushFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushFailures++
}

func (m *Mock) ObserveFlushDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flushDurations = append(m.flushDurations, duration)
}

func (m *Mock) SetQueueDepth(depth float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queueDepth = depth
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// ArrowsScored returns the number of times IncArrowsScored was called.
func (m *Mock) ArrowsScored() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.arrowsScored
}

// MatchesDecided returns the number of times IncMatchesDecided was called.
func (m *Mock) MatchesDecided() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.matchesDecided
}

// FlushRuns returns the number of times IncFlushRuns was called.
func (m *Mock) FlushRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushRuns
}

// FlushFailures returns the number of times IncFlushFailures was called.
func (m *Mock) FlushFailures() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flushFailures
}

// QueueDepth returns the last value passed to SetQueueDepth.
func (m *Mock) QueueDepth() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queueDepth
}

// NotifSent returns the number of times IncNotifSent was called.
func (m *Mock) NotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent
}

// NotifFailed returns the number of times IncNotifFailed was called.
func (m *Mock) NotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed
}
