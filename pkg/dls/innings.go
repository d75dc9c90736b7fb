package dls

import "fmt"

// Interruption is one recorded stoppage. It is immutable once recorded.
type Interruption struct {
	// WicketsLost is the number of wickets down when play stopped.
	WicketsLost int `json:"wickets_lost"`

	// OversCompleted is how far into the innings play had reached.
	OversCompleted Overs `json:"overs_completed"`

	// OversRemoved is how many overs the stoppage cut from the allocation.
	OversRemoved Overs `json:"overs_removed"`

	// OversLeft is the allocation still to be bowled at the stoppage, before
	// OversRemoved was deducted. Derived when the interruption is recorded.
	OversLeft Overs `json:"overs_left"`
}

// Innings tracks one team's batting innings: its starting overs, the overs
// removed by stoppages, and how far play has progressed.
//
// Innings only ever moves forward. Recording an event that would move overs
// or wickets backwards, or bowl past the allocation, fails and leaves the
// state untouched. Innings is not safe for concurrent mutation.
type Innings struct {
	starting      Overs
	removed       Overs
	used          Overs
	wickets       int
	interruptions []Interruption
}

// NewInnings returns an innings of startingOvers whole overs (1..50).
func NewInnings(startingOvers int) (*Innings, error) {
	if startingOvers <= 0 || startingOvers > MaxOvers {
		return nil, fmt.Errorf("%w: starting overs %d not in [1, %d]", ErrInvalidMatchSetup, startingOvers, MaxOvers)
	}
	return newInnings(WholeOvers(startingOvers)), nil
}

// newInnings allows a part-over start, which team 2 inherits when team 1's
// allocation was cut mid-over.
func newInnings(starting Overs) *Innings {
	return &Innings{starting: starting}
}

// StartingOvers returns the overs available when the first ball was bowled.
func (in *Innings) StartingOvers() Overs { return in.starting }

// Allocation returns the starting overs less everything removed so far.
func (in *Innings) Allocation() Overs { return in.starting - in.removed }

// OversRemoved returns the total overs removed by all stoppages.
func (in *Innings) OversRemoved() Overs { return in.removed }

// OversUsed returns the overs bowled at the latest measurement.
func (in *Innings) OversUsed() Overs { return in.used }

// WicketsLost returns the wickets down at the latest measurement.
func (in *Innings) WicketsLost() int { return in.wickets }

// Interruptions returns a copy of the recorded stoppages in arrival order.
func (in *Innings) Interruptions() []Interruption {
	out := make([]Interruption, len(in.interruptions))
	copy(out, in.interruptions)
	return out
}

// CurrentOversRemaining returns starting - used - removed, floored at zero.
func (in *Innings) CurrentOversRemaining() Overs {
	return in.Allocation().Sub(in.used)
}

// RecordInterruption records a stoppage with wicketsLost down after
// oversCompleted overs, which cut oversRemoved from the allocation.
func (in *Innings) RecordInterruption(wicketsLost int, oversCompleted, oversRemoved Overs) error {
	if wicketsLost < 0 || wicketsLost > MaxWickets {
		return fmt.Errorf("%w: wickets lost %d not in [0, %d]", ErrInvalidInterruption, wicketsLost, MaxWickets)
	}
	if err := in.checkProgress(oversCompleted, wicketsLost); err != nil {
		return err
	}
	if oversRemoved < 0 {
		return fmt.Errorf("%w: negative overs removed %s", ErrInvalidInterruption, oversRemoved)
	}
	left := in.Allocation() - oversCompleted
	if oversRemoved > left {
		return fmt.Errorf("%w: cannot remove %s overs with %s left", ErrInvalidInterruption, oversRemoved, left)
	}

	in.interruptions = append(in.interruptions, Interruption{
		WicketsLost:    wicketsLost,
		OversCompleted: oversCompleted,
		OversRemoved:   oversRemoved,
		OversLeft:      left,
	})
	in.removed += oversRemoved
	in.used = oversCompleted
	in.wickets = wicketsLost
	return nil
}

// Advance moves the innings forward to oversCompleted with wicketsLost down,
// without a stoppage. Ten wickets means the side is all out.
func (in *Innings) Advance(oversCompleted Overs, wicketsLost int) error {
	if wicketsLost < 0 || wicketsLost > MaxWickets+1 {
		return fmt.Errorf("%w: wickets lost %d not in [0, %d]", ErrInvalidInterruption, wicketsLost, MaxWickets+1)
	}
	if err := in.checkProgress(oversCompleted, wicketsLost); err != nil {
		return err
	}
	in.used = oversCompleted
	in.wickets = wicketsLost
	return nil
}

// RecordWicket records the fall of one more wicket at the current position.
func (in *Innings) RecordWicket() error {
	return in.Advance(in.used, in.wickets+1)
}

func (in *Innings) checkProgress(oversCompleted Overs, wicketsLost int) error {
	if wicketsLost < in.wickets {
		return fmt.Errorf("%w: wickets lost %d is below the %d already recorded", ErrInvalidInterruption, wicketsLost, in.wickets)
	}
	if oversCompleted < in.used {
		return fmt.Errorf("%w: overs completed %s is before the %s already bowled", ErrInvalidInterruption, oversCompleted, in.used)
	}
	if oversCompleted > in.Allocation() {
		return fmt.Errorf("%w: overs completed %s exceeds the %s allocated", ErrInvalidInterruption, oversCompleted, in.Allocation())
	}
	return nil
}

// ResourcesRemaining returns the resource percentage left at the latest
// measurement. An all-out side has none. A nil table means StandardEdition.
func (in *Innings) ResourcesRemaining(t *Table) (float64, error) {
	if in.wickets > MaxWickets {
		return 0, nil
	}
	return tableOrStandard(t).Percentage(in.CurrentOversRemaining(), in.wickets)
}

// ResourcesAvailable returns the resources the side had for its whole
// innings: R(starting, 0) less R(left, w) - R(left - removed, w) for every
// stoppage.
func (in *Innings) ResourcesAvailable(t *Table) (Resource, error) {
	t = tableOrStandard(t)
	total, err := t.Lookup(in.starting, 0)
	if err != nil {
		return 0, err
	}
	for _, it := range in.interruptions {
		before, err := t.Lookup(it.OversLeft, it.WicketsLost)
		if err != nil {
			return 0, err
		}
		after, err := t.Lookup(it.OversLeft-it.OversRemoved, it.WicketsLost)
		if err != nil {
			return 0, err
		}
		total -= before - after
	}
	return total, nil
}

func (in *Innings) clone() *Innings {
	cp := *in
	cp.interruptions = in.Interruptions()
	return &cp
}

func tableOrStandard(t *Table) *Table {
	if t == nil {
		return StandardEdition()
	}
	return t
}
