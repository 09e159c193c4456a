package gateway

import (
	"context"
	"fmt"
	"sync"
)

// Mock is a mock implementation of the Client interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Spies for method calls
	CreateMatchFunc       func(req CreateMatchRequest) (string, error)
	CreateTeamFunc        func(req CreateTeamRequest) (string, error)
	CreateParticipantFunc func(req CreateParticipantRequest) (string, error)
	UpsertArcherFunc      func(req UpsertArcherRequest) error
	SubmitSetFunc         func(req SubmitSetRequest) error
	FetchMatchFunc        func(matchID string) (*Match, error)

	// Call records
	CreateMatchCalls       []CreateMatchRequest
	CreateTeamCalls        []CreateTeamRequest
	CreateParticipantCalls []CreateParticipantRequest
	UpsertArcherCalls      []UpsertArcherRequest
	SubmitSetCalls         []SubmitSetRequest
	FetchMatchCalls        []string
}

var _ Client = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) CreateMatch(_ context.Context, req CreateMatchRequest) (string, error) {
	m.mu.Lock()
	m.CreateMatchCalls = append(m.CreateMatchCalls, req)
	fn := m.CreateMatchFunc
	n := len(m.CreateMatchCalls)
	m.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	return fmt.Sprintf("match-%d", n), nil
}

func (m *Mock) CreateTeam(_ context.Context, req CreateTeamRequest) (string, error) {
	m.mu.Lock()
	m.CreateTeamCalls = append(m.CreateTeamCalls, req)
	fn := m.CreateTeamFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	return fmt.Sprintf("team-%d", req.TeamNumber), nil
}

func (m *Mock) CreateParticipant(_ context.Context, req CreateParticipantRequest) (string, error) {
	m.mu.Lock()
	m.CreateParticipantCalls = append(m.CreateParticipantCalls, req)
	fn := m.CreateParticipantFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	return fmt.Sprintf("participant-%d", req.SeatPosition), nil
}

func (m *Mock) UpsertArcher(_ context.Context, req UpsertArcherRequest) error {
	m.mu.Lock()
	m.UpsertArcherCalls = append(m.UpsertArcherCalls, req)
	fn := m.UpsertArcherFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	return nil
}

func (m *Mock) SubmitSet(_ context.Context, req SubmitSetRequest) error {
	m.mu.Lock()
	m.SubmitSetCalls = append(m.SubmitSetCalls, req)
	fn := m.SubmitSetFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(req)
	}
	return nil
}

func (m *Mock) FetchMatch(_ context.Context, matchID string) (*Match, error) {
	m.mu.Lock()
	m.FetchMatchCalls = append(m.FetchMatchCalls, matchID)
	fn := m.FetchMatchFunc
	m.mu.Unlock()
	if fn != nil {
		return fn(matchID)
	}
	return &Match{MatchID: matchID}, nil
}
