package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// APIClient is the HTTP implementation of the Client interface.
type APIClient struct {
	httpClient *http.Client
	BaseURL    string
	apiKey     string
}

// NewClient creates a gateway client for the given server. The API key is
// sent as a bearer token on every request; pass "" for unauthenticated
// development servers.
func NewClient(baseURL, apiKey string) Client {
	return &APIClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		BaseURL:    baseURL,
		apiKey:     apiKey,
	}
}

var _ Client = (*APIClient)(nil)

func (c *APIClient) CreateMatch(ctx context.Context, req CreateMatchRequest) (string, error) {
	var resp createMatchResponse
	if err := c.post(ctx, "/v1/matches", req, &resp); err != nil {
		return "", fmt.Errorf("create match: %w", err)
	}
	log.Info("Created match on server", "matchID", resp.MatchID, "kind", req.Kind, "forceNew", req.ForceNew)
	return resp.MatchID, nil
}

func (c *APIClient) CreateTeam(ctx context.Context, req CreateTeamRequest) (string, error) {
	var resp createTeamResponse
	path := fmt.Sprintf("/v1/matches/%s/teams", req.MatchID)
	if err := c.post(ctx, path, req, &resp); err != nil {
		return "", fmt.Errorf("create team %d: %w", req.TeamNumber, err)
	}
	log.Info("Created team on server", "matchID", req.MatchID, "teamID", resp.TeamID, "teamNumber", req.TeamNumber)
	return resp.TeamID, nil
}

func (c *APIClient) CreateParticipant(ctx context.Context, req CreateParticipantRequest) (string, error) {
	var resp createParticipantResponse
	path := fmt.Sprintf("/v1/matches/%s/participants", req.MatchID)
	if err := c.post(ctx, path, req, &resp); err != nil {
		return "", fmt.Errorf("create participant at seat %d: %w", req.SeatPosition, err)
	}
	log.Info("Created participant on server", "matchID", req.MatchID, "participantID", resp.ParticipantID, "seat", req.SeatPosition)
	return resp.ParticipantID, nil
}

func (c *APIClient) UpsertArcher(ctx context.Context, req UpsertArcherRequest) error {
	if err := c.post(ctx, "/v1/archers", req, nil); err != nil {
		return fmt.Errorf("upsert archer %s: %w", req.Key, err)
	}
	log.Debug("Upserted archer profile", "key", req.Key)
	return nil
}

func (c *APIClient) SubmitSet(ctx context.Context, req SubmitSetRequest) error {
	path := fmt.Sprintf("/v1/matches/%s/sets", req.MatchID)
	if err := c.post(ctx, path, req, nil); err != nil {
		return fmt.Errorf("submit set %d for participant %s: %w", req.SetNumber, req.ParticipantID, err)
	}
	log.Debug("Submitted set", "matchID", req.MatchID, "participantID", req.ParticipantID, "set", req.SetNumber)
	return nil
}

func (c *APIClient) FetchMatch(ctx context.Context, matchID string) (*Match, error) {
	url := c.BaseURL + "/v1/matches/" + matchID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	log.Debug("Fetching match from server", "url", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status fetching match", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	var m Match
	if err := json.NewDecoder(resp.Body).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to decode match response: %w", err)
	}
	return &m, nil
}

// post sends a JSON body and optionally decodes a JSON response into out.
func (c *APIClient) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		log.Error("Received non-OK HTTP status", "path", path, "status", resp.StatusCode, "body", string(respBody))
		return fmt.Errorf("received non-OK HTTP status: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *APIClient) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ArrowsyncClient/1.0")
	// A fresh ID per attempt lets the server logs tell a retry from a
	// duplicate submission.
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}
