package dls

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

// newMatchT returns a fresh match and fails the test on error.
func newMatchT(t *testing.T, overs int, c Category) *Match {
	t.Helper()
	m, err := NewMatch(overs, c)
	if err != nil {
		t.Fatalf("NewMatch(%d, %s): %v", overs, c, err)
	}
	return m
}

func TestNewMatch_InvalidSetup(t *testing.T) {
	tests := []struct {
		name  string
		overs int
		c     Category
	}{
		{"zero overs", 0, FullMember},
		{"negative overs", -20, FullMember},
		{"more than fifty", 60, FullMember},
		{"unknown category", 50, Category(-1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewMatch(tc.overs, tc.c)
			if !errors.Is(err, ErrInvalidMatchSetup) {
				t.Errorf("err = %v, want ErrInvalidMatchSetup", err)
			}
			if Kind(err) != "InvalidMatchSetupError" {
				t.Errorf("Kind = %q", Kind(err))
			}
		})
	}
	if _, err := NewMatchG50(50, FullMember, -10); !errors.Is(err, ErrInvalidMatchSetup) {
		t.Errorf("negative G50 err = %v, want ErrInvalidMatchSetup", err)
	}
}

func TestMatch_FirstInningsInterruptionScenario(t *testing.T) {
	m := newMatchT(t, 50, FullMember)
	if err := m.RecordInterruption(First, 1, ov(t, "12"), ov(t, "10")); err != nil {
		t.Fatalf("RecordInterruption: %v", err)
	}

	got, err := m.ComputeTarget(250)
	if err != nil {
		t.Fatalf("ComputeTarget: %v", err)
	}
	if got.Target <= 251 {
		t.Errorf("Target = %d, want > 251", got.Target)
	}
	// R2 > R1: 250 + 245 * (89.3 - 86.8) / 100 = 256.125
	if got.Target != 257 {
		t.Errorf("Target = %d, want 257", got.Target)
	}
	if !almostEqual(got.Par, 256.125, 1e-9) {
		t.Errorf("Par = %v, want 256.125", got.Par)
	}
	if got.OversAllotted != 40 {
		t.Errorf("OversAllotted = %d, want 40", got.OversAllotted)
	}
}

func TestMatch_SecondInningsStartsFromFirstAllocation(t *testing.T) {
	m := newMatchT(t, 50, FullMember)
	if err := m.RecordInterruption(First, 5, ov(t, "30"), ov(t, "6.3")); err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := m.Innings(Second)
	if err != nil {
		t.Fatalf("Innings(Second): %v", err)
	}
	if got := second.StartingOvers().String(); got != "43.3" {
		t.Errorf("second innings starts at %s, want 43.3", got)
	}
	if m.SecondInningsStarted() {
		t.Error("SecondInningsStarted before any second-innings event")
	}

	if err := m.RecordInterruption(Second, 0, ov(t, "5"), ov(t, "3.3")); err != nil {
		t.Fatalf("second: %v", err)
	}
	res, err := m.ComputeTarget(230)
	if err != nil {
		t.Fatalf("ComputeTarget: %v", err)
	}
	if res.OversAllotted != 35 {
		t.Errorf("OversAllotted = %d, want 35", res.OversAllotted)
	}
	if res.OversRemaining.String() != "35" {
		t.Errorf("OversRemaining = %s, want 35", res.OversRemaining)
	}

	err = m.RecordInterruption(First, 6, ov(t, "35"), ov(t, "1"))
	if !errors.Is(err, ErrInvalidInterruption) {
		t.Errorf("first-innings event after second began: err = %v, want ErrInvalidInterruption", err)
	}
}

func TestMatch_FailedSecondInningsEventDoesNotStartIt(t *testing.T) {
	m := newMatchT(t, 50, FullMember)
	if err := m.RecordInterruption(Second, 0, ov(t, "10"), ov(t, "45")); !errors.Is(err, ErrInvalidInterruption) {
		t.Fatalf("err = %v, want ErrInvalidInterruption", err)
	}
	if m.SecondInningsStarted() {
		t.Error("a rejected event started the second innings")
	}
	if err := m.RecordInterruption(First, 0, ov(t, "10"), ov(t, "5")); err != nil {
		t.Errorf("first innings still open: %v", err)
	}
}

func TestMatch_UnknownInnings(t *testing.T) {
	m := newMatchT(t, 50, FullMember)
	if err := m.RecordInterruption(InningsNumber(3), 0, 0, 0); !errors.Is(err, ErrInvalidInterruption) {
		t.Errorf("err = %v, want ErrInvalidInterruption", err)
	}
	if _, err := m.Innings(InningsNumber(0)); !errors.Is(err, ErrInvalidInterruption) {
		t.Errorf("Innings(0) err = %v, want ErrInvalidInterruption", err)
	}
}

func TestMatch_InningsReturnsCopy(t *testing.T) {
	m := newMatchT(t, 50, FullMember)
	in, _ := m.Innings(First)
	if err := in.RecordInterruption(0, 0, ov(t, "20")); err != nil {
		t.Fatalf("RecordInterruption on copy: %v", err)
	}
	again, _ := m.Innings(First)
	if again.Allocation() != WholeOvers(50) {
		t.Errorf("match allocation = %s after editing a copy, want 50", again.Allocation())
	}
}

func TestMatch_Team1Score(t *testing.T) {
	m := newMatchT(t, 50, FullMember)
	if _, ok := m.Team1Score(); ok {
		t.Error("Team1Score set on a new match")
	}
	if err := m.SetTeam1Score(-4); !errors.Is(err, ErrInvalidScore) {
		t.Errorf("err = %v, want ErrInvalidScore", err)
	}
	if err := m.SetTeam1Score(244); err != nil {
		t.Fatalf("SetTeam1Score: %v", err)
	}
	if got, ok := m.Team1Score(); !ok || got != 244 {
		t.Errorf("Team1Score = %d, %v", got, ok)
	}
}

// --- snapshots ---

func TestSnapshot_RoundTrip(t *testing.T) {
	m := newMatchT(t, 50, WomensInternational)
	steps := []func() error{
		func() error { return m.RecordInterruption(First, 2, ov(t, "18.4"), ov(t, "4.2")) },
		func() error { return m.Advance(First, ov(t, "45.4"), 8) },
		func() error { return m.RecordInterruption(Second, 1, ov(t, "9.1"), ov(t, "2.5")) },
		func() error { return m.Advance(Second, ov(t, "11"), 2) },
		func() error { return m.SetTeam1Score(201) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	data, err := json.Marshal(m.Snapshot())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	restored, err := Restore(snap)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}

	if !reflect.DeepEqual(restored.Snapshot(), m.Snapshot()) {
		t.Errorf("snapshot changed:\n got %+v\nwant %+v", restored.Snapshot(), m.Snapshot())
	}
	want, _ := m.ComputeTarget(201)
	got, err := restored.ComputeTarget(201)
	if err != nil || got != want {
		t.Errorf("restored target = %+v, %v; want %+v", got, err, want)
	}
}

func TestRestore_HandWritten(t *testing.T) {
	raw := `{
		"starting_overs": 50,
		"category": "ICCFullMember",
		"first_innings": {"interruptions": []},
		"second_innings": {
			"starting_overs": "50",
			"interruptions": [
				{"wickets_lost": 1, "overs_completed": 12, "overs_removed": "10"},
				{"wickets_lost": 3, "overs_completed": "22", "overs_removed": 2},
				{"wickets_lost": 6, "overs_completed": "30.2", "overs_removed": "7.4"}
			]
		}
	}`
	var snap Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	m, err := Restore(snap)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if m.G50() != 245 {
		t.Errorf("G50 = %d, want 245 from category", m.G50())
	}
	got, err := m.ComputeTarget(250)
	if err != nil {
		t.Fatalf("ComputeTarget: %v", err)
	}
	if got.Target != 160 {
		t.Errorf("Target = %d, want 160", got.Target)
	}
}

func TestRestore_Invalid(t *testing.T) {
	base := func() Snapshot {
		return Snapshot{StartingOvers: 50, Category: FullMember}
	}

	bad := base()
	bad.First.Interruptions = []Interruption{{WicketsLost: 2, OversCompleted: WholeOvers(10), OversRemoved: WholeOvers(41)}}
	if _, err := Restore(bad); !errors.Is(err, ErrInvalidInterruption) {
		t.Errorf("impossible interruption: err = %v, want ErrInvalidInterruption", err)
	}

	mismatch := base()
	mismatch.Second = &InningsSnapshot{StartingOvers: WholeOvers(45)}
	if _, err := Restore(mismatch); !errors.Is(err, ErrInvalidMatchSetup) {
		t.Errorf("second innings start mismatch: err = %v, want ErrInvalidMatchSetup", err)
	}

	noOvers := base()
	noOvers.StartingOvers = 0
	if _, err := Restore(noOvers); !errors.Is(err, ErrInvalidMatchSetup) {
		t.Errorf("zero overs: err = %v, want ErrInvalidMatchSetup", err)
	}
}

func TestParseInnings(t *testing.T) {
	for in, want := range map[string]InningsNumber{"first": First, "1": First, "Second": Second, "2nd": Second} {
		got, err := ParseInnings(in)
		if err != nil || got != want {
			t.Errorf("ParseInnings(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseInnings("third"); !errors.Is(err, ErrInvalidInterruption) {
		t.Errorf("ParseInnings(third) err = %v", err)
	}
}
