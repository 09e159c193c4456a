package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/matches", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req CreateMatchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "solo", req.Kind)
		assert.True(t, req.ForceNew)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"match_id": "match-abc"}`)
	}))
	defer server.Close()

	client := APIClient{
		httpClient: server.Client(),
		BaseURL:    server.URL,
		apiKey:     "secret",
	}

	matchID, err := client.CreateMatch(context.Background(), CreateMatchRequest{
		Kind:     "solo",
		Date:     "2026-08-29",
		MaxSets:  5,
		ForceNew: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "match-abc", matchID)
}

func TestSubmitSet_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing participant", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	client := APIClient{
		httpClient: server.Client(),
		BaseURL:    server.URL,
	}

	err := client.SubmitSet(context.Background(), SubmitSetRequest{
		MatchID:       "match-abc",
		ParticipantID: "p1",
		SetNumber:     1,
		Arrows:        []string{"10", "9", "X"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}

func TestFetchMatch(t *testing.T) {
	mockJSONResponse := `{
		"match_id": "match-abc",
		"kind": "solo",
		"participants": [
			{
				"participant_id": "p1",
				"position": 1,
				"name": "Asta Holm",
				"sets": [
					{ "set_number": 1, "arrows": ["10", "9", "X"] },
					{ "set_number": 2, "arrows": ["8", "8", "9"] }
				]
			},
			{ "participant_id": "p2", "position": 2, "name": "Mika Juhl", "sets": [] }
		]
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/matches/match-abc", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, mockJSONResponse)
	}))
	defer server.Close()

	client := APIClient{
		httpClient: server.Client(),
		BaseURL:    server.URL,
	}

	m, err := client.FetchMatch(context.Background(), "match-abc")
	require.NoError(t, err)
	assert.Equal(t, "match-abc", m.MatchID)
	require.Len(t, m.Participants, 2)
	assert.Equal(t, "Asta Holm", m.Participants[0].Name)
	require.Len(t, m.Participants[0].Sets, 2)
	assert.Equal(t, []string{"10", "9", "X"}, m.Participants[0].Sets[0].Arrows)
}

func TestFetchMatch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(50 * time.Millisecond)
	}))
	defer server.Close()

	client := APIClient{
		httpClient: server.Client(),
		BaseURL:    server.URL,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	_, err := client.FetchMatch(ctx, "match-abc")
	assert.Error(t, err)
}
