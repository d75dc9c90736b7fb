package api

import "github.com/duckworthlewis/dlc/pkg/dls"

// HealthResponse is the payload for GET /api/v1/health.
type HealthResponse struct {
	Status        string  `json:"status"`
	MatchCount    int     `json:"match_count"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// CategoryResponse is one entry of GET /api/v1/categories.
type CategoryResponse struct {
	Name string `json:"name"`
	G50  int    `json:"g50"`
}

// ResourceResponse is the payload for GET /api/v1/resources.
type ResourceResponse struct {
	Overs      dls.Overs `json:"overs"`
	Wickets    int       `json:"wickets"`
	Percentage float64   `json:"percentage"`
}

// MatchResponse is one match in GET /api/v1/matches and the body returned by
// every call that changes a match.
type MatchResponse struct {
	ID                   string            `json:"id"`
	Team1                string            `json:"team_1,omitempty"`
	Team2                string            `json:"team_2,omitempty"`
	StartingOvers        int               `json:"starting_overs"`
	Category             dls.Category      `json:"category"`
	G50                  int               `json:"g50"`
	Team1Score           *int              `json:"team_1_score,omitempty"`
	First                InningsResponse   `json:"first_innings"`
	Second               InningsResponse   `json:"second_innings"`
	SecondInningsStarted bool              `json:"second_innings_started"`
	Target               *dls.TargetResult `json:"target,omitempty"`
	Hints                []Hint            `json:"hints"`
	CreatedAt            string            `json:"created_at"` // RFC3339
	UpdatedAt            string            `json:"updated_at"` // RFC3339
}

// InningsResponse summarises one innings.
type InningsResponse struct {
	StartingOvers dls.Overs          `json:"starting_overs"`
	Allocation    dls.Overs          `json:"allocation"`
	OversUsed     dls.Overs          `json:"overs_used"`
	WicketsLost   int                `json:"wickets_lost"`
	Resources     float64            `json:"resources"`
	Interruptions []dls.Interruption `json:"interruptions"`
}

// BoardResponse is every live match at one instant. The WebSocket hub pushes
// it as the "board" event.
type BoardResponse struct {
	GeneratedAt string          `json:"generated_at"` // RFC3339
	Matches     []MatchResponse `json:"matches"`
}

// createMatchRequest is the body of POST /api/v1/matches. An empty category
// selects the server default; a zero G50 selects the category's.
type createMatchRequest struct {
	StartingOvers int    `json:"starting_overs"`
	Category      string `json:"category"`
	G50           int    `json:"g50"`
	Team1         string `json:"team_1"`
	Team2         string `json:"team_2"`
}

// interruptionRequest is the body of POST /api/v1/matches/{id}/interruptions.
type interruptionRequest struct {
	Innings        dls.InningsNumber `json:"innings"`
	Wickets        int               `json:"wickets"`
	OversCompleted dls.Overs         `json:"overs_completed"`
	OversRemoved   dls.Overs         `json:"overs_removed"`
}

// targetRequest is the body of POST /api/v1/matches/{id}/target.
type targetRequest struct {
	Team1Score *int `json:"team_1_score"`
}

// calculateRequest is the body of POST /api/v1/calculate. Team1Score, when
// set, overrides the snapshot's own team_1_score.
type calculateRequest struct {
	Match      dls.Snapshot `json:"match"`
	Team1Score *int         `json:"team_1_score"`
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
