package dls

import (
	"fmt"
	"strings"
)

// InningsNumber selects the innings an event belongs to.
type InningsNumber int

const (
	First InningsNumber = iota + 1
	Second
)

func (n InningsNumber) String() string {
	switch n {
	case First:
		return "first"
	case Second:
		return "second"
	default:
		return fmt.Sprintf("innings(%d)", int(n))
	}
}

// ParseInnings accepts "first"/"1" and "second"/"2", ignoring case.
func ParseInnings(s string) (InningsNumber, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first", "1", "1st":
		return First, nil
	case "second", "2", "2nd":
		return Second, nil
	}
	return 0, fmt.Errorf("%w: unknown innings %q, want first or second", ErrInvalidInterruption, s)
}

// MarshalText implements encoding.TextMarshaler.
func (n InningsNumber) MarshalText() ([]byte, error) {
	if n != First && n != Second {
		return nil, fmt.Errorf("%w: unknown innings %d", ErrInvalidInterruption, int(n))
	}
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *InningsNumber) UnmarshalText(text []byte) error {
	v, err := ParseInnings(string(text))
	if err != nil {
		return err
	}
	*n = v
	return nil
}

// Match holds the setup and both innings of one match.
//
// The second innings starts from team 1's final allocation. It comes into
// existence with the first second-innings event; after that the first
// innings is closed to further events.
type Match struct {
	startingOvers int
	category      Category
	g50           int
	team1Score    *int

	first  *Innings
	second *Innings
}

// NewMatch starts a match of startingOvers per side in the given category.
func NewMatch(startingOvers int, category Category) (*Match, error) {
	if !category.valid() {
		return nil, fmt.Errorf("%w: unknown category %d", ErrInvalidMatchSetup, int(category))
	}
	return NewMatchG50(startingOvers, category, category.G50())
}

// NewMatchG50 starts a match with a custom G50 in place of the category's.
func NewMatchG50(startingOvers int, category Category, g50 int) (*Match, error) {
	if !category.valid() {
		return nil, fmt.Errorf("%w: unknown category %d", ErrInvalidMatchSetup, int(category))
	}
	if g50 <= 0 {
		return nil, fmt.Errorf("%w: G50 %d must be positive", ErrInvalidMatchSetup, g50)
	}
	first, err := NewInnings(startingOvers)
	if err != nil {
		return nil, err
	}
	return &Match{
		startingOvers: startingOvers,
		category:      category,
		g50:           g50,
		first:         first,
	}, nil
}

// StartingOvers returns the overs per side when the match began.
func (m *Match) StartingOvers() int { return m.startingOvers }

// Category returns the match category.
func (m *Match) Category() Category { return m.category }

// G50 returns the G50 constant in use for this match.
func (m *Match) G50() int { return m.g50 }

// SecondInningsStarted reports whether any second-innings event has been
// recorded.
func (m *Match) SecondInningsStarted() bool { return m.second != nil }

// Innings returns a copy of the requested innings. Before the second
// innings has started, Second returns the innings team 2 would begin with.
func (m *Match) Innings(n InningsNumber) (*Innings, error) {
	switch n {
	case First:
		return m.first.clone(), nil
	case Second:
		return m.secondInnings().clone(), nil
	}
	return nil, fmt.Errorf("%w: unknown innings %d", ErrInvalidInterruption, int(n))
}

// RecordInterruption records a stoppage in innings n. See
// Innings.RecordInterruption for the validation applied.
func (m *Match) RecordInterruption(n InningsNumber, wicketsLost int, oversCompleted, oversRemoved Overs) error {
	return m.update(n, func(in *Innings) error {
		return in.RecordInterruption(wicketsLost, oversCompleted, oversRemoved)
	})
}

// Advance records progress in innings n without a stoppage.
func (m *Match) Advance(n InningsNumber, oversCompleted Overs, wicketsLost int) error {
	return m.update(n, func(in *Innings) error {
		return in.Advance(oversCompleted, wicketsLost)
	})
}

func (m *Match) update(n InningsNumber, fn func(*Innings) error) error {
	switch n {
	case First:
		if m.second != nil {
			return fmt.Errorf("%w: the second innings is already under way", ErrInvalidInterruption)
		}
		return fn(m.first)
	case Second:
		in := m.secondInnings()
		if err := fn(in); err != nil {
			return err
		}
		m.second = in
		return nil
	}
	return fmt.Errorf("%w: unknown innings %d", ErrInvalidInterruption, int(n))
}

// secondInnings returns the live second innings, or a fresh one starting
// from team 1's final allocation.
func (m *Match) secondInnings() *Innings {
	if m.second != nil {
		return m.second
	}
	return newInnings(m.first.Allocation())
}

// SetTeam1Score records team 1's final total.
func (m *Match) SetTeam1Score(score int) error {
	if score < 0 {
		return fmt.Errorf("%w: team 1 score %d is negative", ErrInvalidScore, score)
	}
	m.team1Score = &score
	return nil
}

// Team1Score returns team 1's recorded total, if any.
func (m *Match) Team1Score() (int, bool) {
	if m.team1Score == nil {
		return 0, false
	}
	return *m.team1Score, true
}

// ComputeTarget returns team 2's revised target for a team 1 total of
// team1Score. It does not modify the match.
func (m *Match) ComputeTarget(team1Score int) (TargetResult, error) {
	return computeTarget(StandardEdition(), m.first, team1Score, m.secondInnings(), m.g50)
}

// Snapshot is the serialisable state of a Match. Overs are written in
// cricket notation and scores as integers, so a round trip is lossless.
type Snapshot struct {
	StartingOvers int              `json:"starting_overs"`
	Category      Category         `json:"category"`
	G50           int              `json:"g50"`
	Team1Score    *int             `json:"team_1_score,omitempty"`
	First         InningsSnapshot  `json:"first_innings"`
	Second        *InningsSnapshot `json:"second_innings,omitempty"`
}

// InningsSnapshot is the serialisable state of one Innings.
type InningsSnapshot struct {
	StartingOvers Overs          `json:"starting_overs"`
	OversUsed     Overs          `json:"overs_used"`
	WicketsLost   int            `json:"wickets_lost"`
	Interruptions []Interruption `json:"interruptions"`
}

// Snapshot returns the current state of m.
func (m *Match) Snapshot() Snapshot {
	s := Snapshot{
		StartingOvers: m.startingOvers,
		Category:      m.category,
		G50:           m.g50,
		First:         snapshotInnings(m.first),
	}
	if m.team1Score != nil {
		score := *m.team1Score
		s.Team1Score = &score
	}
	if m.second != nil {
		second := snapshotInnings(m.second)
		s.Second = &second
	}
	return s
}

func snapshotInnings(in *Innings) InningsSnapshot {
	return InningsSnapshot{
		StartingOvers: in.starting,
		OversUsed:     in.used,
		WicketsLost:   in.wickets,
		Interruptions: in.Interruptions(),
	}
}

// Restore rebuilds a Match from s, replaying every recorded event through
// the same validation as live recording. A zero G50 means the category's.
func Restore(s Snapshot) (*Match, error) {
	g50 := s.G50
	if g50 == 0 {
		g50 = s.Category.G50()
	}
	m, err := NewMatchG50(s.StartingOvers, s.Category, g50)
	if err != nil {
		return nil, err
	}
	if s.First.StartingOvers != 0 && s.First.StartingOvers != m.first.starting {
		return nil, fmt.Errorf("%w: first innings starts at %s, match at %d overs",
			ErrInvalidMatchSetup, s.First.StartingOvers, s.StartingOvers)
	}
	if err := replay(m, First, s.First); err != nil {
		return nil, err
	}
	if s.Second != nil {
		if s.Second.StartingOvers != m.first.Allocation() {
			return nil, fmt.Errorf("%w: second innings starts at %s, first innings allocation is %s",
				ErrInvalidMatchSetup, s.Second.StartingOvers, m.first.Allocation())
		}
		if err := replay(m, Second, *s.Second); err != nil {
			return nil, err
		}
	}
	if s.Team1Score != nil {
		if err := m.SetTeam1Score(*s.Team1Score); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func replay(m *Match, n InningsNumber, s InningsSnapshot) error {
	for i, it := range s.Interruptions {
		if err := m.RecordInterruption(n, it.WicketsLost, it.OversCompleted, it.OversRemoved); err != nil {
			return fmt.Errorf("%s innings interruption %d: %w", n, i+1, err)
		}
	}
	// Hand-written snapshots may leave progress out; the last stoppage
	// already set it.
	if s.OversUsed == 0 && s.WicketsLost == 0 && len(s.Interruptions) > 0 {
		return nil
	}
	if err := m.Advance(n, s.OversUsed, s.WicketsLost); err != nil {
		return fmt.Errorf("%s innings progress: %w", n, err)
	}
	return nil
}
