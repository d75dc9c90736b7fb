package api

import (
	"time"

	"github.com/duckworthlewis/dlc/pkg/dls"
	"github.com/duckworthlewis/dlc/server/internal/store"
)

// BuildBoard returns every live match in st, stamped with now.
func BuildBoard(st *store.Store, now time.Time) BoardResponse {
	entries := st.List()
	out := make([]MatchResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToMatchResponse(e))
	}
	return BoardResponse{
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Matches:     out,
	}
}

// ToMatchResponse maps a store.Entry to its JSON representation.
func ToMatchResponse(e store.Entry) MatchResponse {
	snap := e.Match
	resp := MatchResponse{
		ID:            e.ID,
		Team1:         e.Team1,
		Team2:         e.Team2,
		StartingOvers: snap.StartingOvers,
		Category:      snap.Category,
		G50:           snap.G50,
		Team1Score:    snap.Team1Score,
		Target:        e.Target,
		CreatedAt:     e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     e.UpdatedAt.UTC().Format(time.RFC3339),
	}

	// Entries only ever hold snapshots taken from a live Match.
	m, err := dls.Restore(snap)
	if err != nil {
		resp.Hints = []Hint{{Key: "corrupt", Level: "critical", Title: "Unreadable match", Detail: err.Error()}}
		return resp
	}
	first, _ := m.Innings(dls.First)
	second, _ := m.Innings(dls.Second)
	resp.First = toInningsResponse(first)
	resp.Second = toInningsResponse(second)
	resp.SecondInningsStarted = m.SecondInningsStarted()
	resp.Hints = computeHints(m, e.Target, e.TargetErr)
	return resp
}

func toInningsResponse(in *dls.Innings) InningsResponse {
	var pct float64
	if r, err := in.ResourcesAvailable(nil); err == nil {
		pct = r.Percent()
	}
	return InningsResponse{
		StartingOvers: in.StartingOvers(),
		Allocation:    in.Allocation(),
		OversUsed:     in.OversUsed(),
		WicketsLost:   in.WicketsLost(),
		Resources:     pct,
		Interruptions: in.Interruptions(),
	}
}
