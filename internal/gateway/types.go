package gateway

// Seat positions are fixed across the wire contract: solo matches use
// 1 (side A) and 2 (side B); team matches use 1-3 for side A's archers
// and 4-6 for side B's.

// CreateMatchRequest asks the server for a new match row. ForceNew is set
// by "start new match" after a reset; otherwise the server may return an
// existing live match for the same (kind, date, event) tuple.
type CreateMatchRequest struct {
	Kind     string `json:"kind"` // "solo" or "team"
	Date     string `json:"date"` // YYYY-MM-DD
	Location string `json:"location,omitempty"`
	EventID  string `json:"event_id,omitempty"`
	MaxSets  int    `json:"max_sets"`
	ForceNew bool   `json:"force_new"`
}

type createMatchResponse struct {
	MatchID string `json:"match_id"`
}

// CreateTeamRequest registers one side's team row as the parent of its
// participants. Team matches only.
type CreateTeamRequest struct {
	MatchID    string `json:"match_id"`
	TeamNumber int    `json:"team_number"` // 1 = side A, 2 = side B
	Name       string `json:"name,omitempty"`
}

type createTeamResponse struct {
	TeamID string `json:"team_id"`
}

// CreateParticipantRequest registers one archer seat in a match.
type CreateParticipantRequest struct {
	MatchID      string `json:"match_id"`
	TeamID       string `json:"team_id,omitempty"`
	ArcherKey    string `json:"archer_key"`
	ArcherName   string `json:"archer_name"`
	School       string `json:"school,omitempty"`
	SeatPosition int    `json:"seat_position"`
}

type createParticipantResponse struct {
	ParticipantID string `json:"participant_id"`
}

// UpsertArcherRequest pushes a locally edited archer profile to the roster
// service. Keyed by the archer's local key so resubmission overwrites.
type UpsertArcherRequest struct {
	Key    string  `json:"key"`
	Name   string  `json:"name"`
	School string  `json:"school,omitempty"`
	Level  string  `json:"level,omitempty"`
	Gender string  `json:"gender,omitempty"`
	Rating float64 `json:"rating,omitempty"`
}

// SubmitSetRequest posts one participant's arrows for one set. Set numbers
// 1..N are regular sets; N+1 is the shoot-off. The server overwrites on
// (match, participant, set number), which is what makes queue replays safe.
type SubmitSetRequest struct {
	MatchID       string   `json:"match_id"`
	ParticipantID string   `json:"participant_id"`
	SetNumber     int      `json:"set_number"`
	Arrows        []string `json:"arrows"`
	SetTotal      int      `json:"set_total"`
	SetPoints     int      `json:"set_points"`
	RunningPoints int      `json:"running_points"`
	Tens          int      `json:"tens"`
	Xs            int      `json:"xs"`
}

// Match is the authoritative match state returned by FetchMatch, used only
// for session restore.
type Match struct {
	MatchID      string             `json:"match_id"`
	Kind         string             `json:"kind"`
	Participants []MatchParticipant `json:"participants"`
}

// MatchParticipant is one seat's server-side state.
type MatchParticipant struct {
	ParticipantID string         `json:"participant_id"`
	Position      int            `json:"position"`
	Name          string         `json:"name"`
	Sets          []SubmittedSet `json:"sets"`
}

// SubmittedSet is one previously submitted set for a participant.
type SubmittedSet struct {
	SetNumber int      `json:"set_number"`
	Arrows    []string `json:"arrows"`
}
