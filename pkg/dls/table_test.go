package dls

import (
	"errors"
	"math"
	"testing"
)

// almostEqual returns true if a and b are within epsilon of each other.
func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

// ov parses cricket notation and fails the test on error.
func ov(t *testing.T, s string) Overs {
	t.Helper()
	o, err := ParseOvers(s)
	if err != nil {
		t.Fatalf("ParseOvers(%q): %v", s, err)
	}
	return o
}

// --- published values ---

func TestPercentage_PublishedValues(t *testing.T) {
	tests := []struct {
		overs   string
		wickets int
		want    float64
	}{
		{"50", 0, 100.0},
		{"50", 9, 4.7},
		{"40", 0, 89.3},
		{"38", 1, 82.0},
		{"28", 1, 68.8},
		{"30", 3, 61.6},
		{"20", 3, 49.1},
		{"18", 3, 45.9},
		{"16", 3, 42.3},
		{"45", 0, 95.0},
		{"35", 0, 82.7},
		{"1", 9, 2.0},
	}

	table := StandardEdition()
	for _, tc := range tests {
		got, err := table.Percentage(ov(t, tc.overs), tc.wickets)
		if err != nil {
			t.Fatalf("Percentage(%s, %d): %v", tc.overs, tc.wickets, err)
		}
		if !almostEqual(got, tc.want, 1e-9) {
			t.Errorf("Percentage(%s, %d) = %.4f, want %.1f", tc.overs, tc.wickets, got, tc.want)
		}
	}
}

func TestPercentage_ZeroOversIsZero(t *testing.T) {
	table := StandardEdition()
	for w := 0; w <= MaxWickets; w++ {
		got, err := table.Percentage(0, w)
		if err != nil {
			t.Fatalf("Percentage(0, %d): %v", w, err)
		}
		if got != 0 {
			t.Errorf("Percentage(0, %d) = %v, want 0", w, got)
		}
	}
}

// --- interpolation ---

// Nine down keeps the published column rather than reading as zero; only
// the tenth wicket ends the innings.
func TestPercentage_NineDownKeepsPublishedColumn(t *testing.T) {
	table := StandardEdition()
	got, err := table.Percentage(WholeOvers(50), 9)
	if err != nil {
		t.Fatalf("Percentage(50, 9): %v", err)
	}
	if !almostEqual(got, 4.7, 1e-9) {
		t.Errorf("Percentage(50, 9) = %.2f, want 4.7", got)
	}
	for overs := 1; overs <= MaxOvers; overs++ {
		p, err := table.Percentage(WholeOvers(overs), 9)
		if err != nil {
			t.Fatalf("Percentage(%d, 9): %v", overs, err)
		}
		if p <= 0 || p > 4.7 {
			t.Errorf("Percentage(%d, 9) = %.2f, want in (0, 4.7]", overs, p)
		}
	}
}

func TestLookup_PartOverInterpolates(t *testing.T) {
	// 7.4 overs, 6 down: 18.2 + 4/6 * (19.9 - 18.2)
	got, err := StandardEdition().Lookup(ov(t, "7.4"), 6)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != 1160 {
		t.Errorf("Lookup(7.4, 6) = %d units, want 1160", got)
	}
	if !almostEqual(got.Percent(), 18.2+4.0/6*1.7, 1e-9) {
		t.Errorf("Percent = %.6f", got.Percent())
	}
}

func TestLookup_PartOverBetweenNeighbours(t *testing.T) {
	table := StandardEdition()
	for balls := 1; balls < BallsPerOver; balls++ {
		o, _ := NewOvers(24, balls)
		lo, _ := table.Lookup(WholeOvers(24), 2)
		hi, _ := table.Lookup(WholeOvers(25), 2)
		got, err := table.Lookup(o, 2)
		if err != nil {
			t.Fatalf("Lookup(%s, 2): %v", o, err)
		}
		if got <= lo || got >= hi {
			t.Errorf("Lookup(%s, 2) = %d, want strictly between %d and %d", o, got, lo, hi)
		}
	}
}

func TestLookup_AboveFiftyClamps(t *testing.T) {
	table := StandardEdition()
	got, err := table.Lookup(WholeOvers(60), 0)
	if err != nil {
		t.Fatalf("Lookup(60, 0): %v", err)
	}
	if got != FullResource {
		t.Errorf("Lookup(60, 0) = %v, want %v", got, FullResource)
	}
}

// --- domain ---

func TestLookup_OutOfRange(t *testing.T) {
	table := StandardEdition()
	tests := []struct {
		name    string
		overs   Overs
		wickets int
	}{
		{"ten wickets", WholeOvers(20), 10},
		{"negative wickets", WholeOvers(20), -1},
		{"negative overs", WholeOvers(-1), 0},
		{"negative part over", Overs(-1), 3},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := table.Percentage(tc.overs, tc.wickets)
			if !errors.Is(err, ErrOutOfRange) {
				t.Errorf("err = %v, want ErrOutOfRange", err)
			}
			if Kind(err) != "OutOfRangeError" {
				t.Errorf("Kind = %q, want OutOfRangeError", Kind(err))
			}
		})
	}
}

// --- shape ---

func TestTable_MonotonicInWickets(t *testing.T) {
	table := StandardEdition()
	for balls := 0; balls <= WholeOvers(MaxOvers).Balls(); balls++ {
		prev, _ := table.Lookup(Overs(balls), 0)
		for w := 1; w <= MaxWickets; w++ {
			got, _ := table.Lookup(Overs(balls), w)
			if got > prev {
				t.Fatalf("R(%s, %d) = %v exceeds R(%s, %d) = %v", Overs(balls), w, got, Overs(balls), w-1, prev)
			}
			prev = got
		}
	}
}

func TestTable_MonotonicInOvers(t *testing.T) {
	table := StandardEdition()
	for w := 0; w <= MaxWickets; w++ {
		prev, _ := table.Lookup(0, w)
		for balls := 1; balls <= WholeOvers(MaxOvers).Balls(); balls++ {
			got, _ := table.Lookup(Overs(balls), w)
			if got < prev {
				t.Fatalf("R(%s, %d) = %v below R(%s, %d) = %v", Overs(balls), w, got, Overs(balls-1), w, prev)
			}
			prev = got
		}
	}
}

func TestResource_String(t *testing.T) {
	if got := Resource(5208).String(); got != "86.8%" {
		t.Errorf("String = %q, want 86.8%%", got)
	}
}
