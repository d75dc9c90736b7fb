package dls

import "fmt"

// TargetResult is the revised target for team 2.
type TargetResult struct {
	// Target is the score team 2 must reach to win. Target-1 ties.
	Target int `json:"target"`

	// Par is team 1's score scaled to team 2's resources, before rounding.
	Par float64 `json:"par"`

	// R1 and R2 are the resource percentages available to each side.
	R1 float64 `json:"r1"`
	R2 float64 `json:"r2"`

	// G50 is the constant used when R2 > R1.
	G50 int `json:"g50"`

	// OversAllotted is OversRemaining rounded down to whole overs.
	OversAllotted int `json:"overs_allotted"`

	// OversRemaining is what team 2 has left to bowl right now, exactly.
	OversRemaining Overs `json:"overs_remaining"`
}

// ComputeTarget returns team 2's revised target given both innings and team
// 1's final score, using the category's G50 and the Standard Edition table.
// It reads but never modifies team1 and team2.
func ComputeTarget(team1 *Innings, team1Score int, team2 *Innings, category Category) (TargetResult, error) {
	if !category.valid() {
		return TargetResult{}, fmt.Errorf("%w: unknown category %d", ErrInvalidMatchSetup, int(category))
	}
	return ComputeTargetG50(team1, team1Score, team2, category.G50())
}

// ComputeTargetG50 is ComputeTarget with an explicit G50 constant, for
// competitions that publish their own average score.
func ComputeTargetG50(team1 *Innings, team1Score int, team2 *Innings, g50 int) (TargetResult, error) {
	return computeTarget(StandardEdition(), team1, team1Score, team2, g50)
}

func computeTarget(t *Table, team1 *Innings, score int, team2 *Innings, g50 int) (TargetResult, error) {
	if team1 == nil || team2 == nil {
		return TargetResult{}, fmt.Errorf("%w: both innings are required", ErrInvalidMatchSetup)
	}
	if g50 <= 0 {
		return TargetResult{}, fmt.Errorf("%w: G50 %d must be positive", ErrInvalidMatchSetup, g50)
	}
	if score < 0 {
		return TargetResult{}, fmt.Errorf("%w: team 1 score %d is negative", ErrInvalidScore, score)
	}

	r1, err := team1.ResourcesAvailable(t)
	if err != nil {
		return TargetResult{}, fmt.Errorf("team 1 resources: %w", err)
	}
	r2, err := team2.ResourcesAvailable(t)
	if err != nil {
		return TargetResult{}, fmt.Errorf("team 2 resources: %w", err)
	}
	if err := checkResource("R1", r1); err != nil {
		return TargetResult{}, err
	}
	if err := checkResource("R2", r2); err != nil {
		return TargetResult{}, err
	}

	// par = num / den, kept exact until the final floor.
	var num, den int64
	s := int64(score)
	switch {
	case r2 == r1:
		num, den = s, 1
	case r2 < r1:
		num, den = s*int64(r2), int64(r1)
	default:
		num, den = s*int64(FullResource)+int64(g50)*int64(r2-r1), int64(FullResource)
	}

	return TargetResult{
		Target:         int(num/den) + 1,
		Par:            float64(num) / float64(den),
		R1:             r1.Percent(),
		R2:             r2.Percent(),
		G50:            g50,
		OversAllotted:  team2.CurrentOversRemaining().Whole(),
		OversRemaining: team2.CurrentOversRemaining(),
	}, nil
}

func checkResource(name string, r Resource) error {
	if r <= 0 || r > FullResource {
		return fmt.Errorf("%w: %s = %s not in (0, 100]", ErrInvalidResource, name, r)
	}
	return nil
}
