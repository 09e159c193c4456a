package gateway

import "context"

// Client is the HTTP/JSON contract with the central tournament server.
// All calls are network round-trips; callers must treat failures as
// retryable unless documented otherwise.
type Client interface {
	CreateMatch(ctx context.Context, req CreateMatchRequest) (string, error)
	CreateTeam(ctx context.Context, req CreateTeamRequest) (string, error)
	CreateParticipant(ctx context.Context, req CreateParticipantRequest) (string, error)
	UpsertArcher(ctx context.Context, req UpsertArcherRequest) error
	SubmitSet(ctx context.Context, req SubmitSetRequest) error
	FetchMatch(ctx context.Context, matchID string) (*Match, error)
}
