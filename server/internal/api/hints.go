package api

import (
	"fmt"
	"sort"

	"github.com/duckworthlewis/dlc/pkg/dls"
)

// minimumOversForResult is the shortest innings team 2 may face for a
// 50-over match to produce a result.
const minimumOversForResult = 20

// Hint is one human-readable note about a match's state. Clients show them
// beside the scorecard.
type Hint struct {
	// Key is a stable machine-readable identifier.
	Key string `json:"key"`
	// Level is "info" | "warning" | "critical".
	Level string `json:"level"`
	// Title is a short label.
	Title string `json:"title"`
	// Detail is the full explanation.
	Detail string `json:"detail"`
}

var levelRank = map[string]int{"critical": 0, "warning": 1, "info": 2}

// computeHints derives hints from a match and its last computed target.
// Hints are ordered: critical first, then warnings, then info.
func computeHints(m *dls.Match, target *dls.TargetResult, targetErr string) []Hint {
	hints := []Hint{}

	if targetErr != "" {
		hints = append(hints, Hint{
			Key:    "target_unavailable",
			Level:  "critical",
			Title:  "No target",
			Detail: targetErr,
		})
	}

	first, _ := m.Innings(dls.First)
	second, _ := m.Innings(dls.Second)

	if _, ok := m.Team1Score(); !ok {
		hints = append(hints, Hint{
			Key:    "awaiting_score",
			Level:  "info",
			Title:  "Awaiting first innings total",
			Detail: "Set team 1's final score to compute the revised target.",
		})
	}

	if first.OversRemoved() > 0 {
		hints = append(hints, Hint{
			Key:   "first_innings_reduced",
			Level: "info",
			Title: "First innings shortened",
			Detail: fmt.Sprintf("Stoppages removed %s overs; team 1 was allotted %s.",
				first.OversRemoved(), first.Allocation()),
		})
	}

	if first.WicketsLost() > dls.MaxWickets {
		hints = append(hints, Hint{
			Key:    "first_innings_all_out",
			Level:  "info",
			Title:  "Team 1 all out",
			Detail: "Team 1 used none of its remaining resources after the tenth wicket.",
		})
	}

	if m.StartingOvers() == dls.MaxOvers && second.Allocation().Whole() < minimumOversForResult {
		hints = append(hints, Hint{
			Key:   "below_result_minimum",
			Level: "warning",
			Title: "Below result minimum",
			Detail: fmt.Sprintf("Team 2 has %s overs; a 50-over match needs at least %d per side for a result.",
				second.Allocation(), minimumOversForResult),
		})
	}

	if target != nil && target.R2 > target.R1 {
		hints = append(hints, Hint{
			Key:   "g50_applied",
			Level: "info",
			Title: "G50 applied",
			Detail: fmt.Sprintf("Team 2 has more resources (%.1f%% vs %.1f%%); the extra is valued at G50 = %d.",
				target.R2, target.R1, target.G50),
		})
	}

	sort.SliceStable(hints, func(i, j int) bool {
		return levelRank[hints[i].Level] < levelRank[hints[j].Level]
	})
	return hints
}
