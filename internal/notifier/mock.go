package notifier

import "sync"

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendMatchDecidedFunc  func(result *MatchResult, dryRun bool) error
	SendMatchDecidedCalls []struct {
		Result *MatchResult
		DryRun bool
	}
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendMatchDecided(result *MatchResult, dryRun bool) error {
	m.mu.Lock()
	m.SendMatchDecidedCalls = append(m.SendMatchDecidedCalls, struct {
		Result *MatchResult
		DryRun bool
	}{result, dryRun})
	fn := m.SendMatchDecidedFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(result, dryRun)
	}
	return nil
}

// Calls returns a copy of the recorded SendMatchDecided calls.
func (m *Mock) Calls() []struct {
	Result *MatchResult
	DryRun bool
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]struct {
		Result *MatchResult
		DryRun bool
	}, len(m.SendMatchDecidedCalls))
	copy(out, m.SendMatchDecidedCalls)
	return out
}
