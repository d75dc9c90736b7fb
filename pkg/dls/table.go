package dls

import "fmt"

// MaxWickets is the highest wickets-lost column in the table. Ten wickets
// ends the innings.
const MaxWickets = 9

// resourceUnit is the number of Resource units in one percentage point.
// The table is published to 0.1% and part-overs interpolate in sixths, so
// 1/60 of a percent keeps every lookup exact.
const resourceUnit = 60

// Resource is a share of a full 50-over innings, in sixtieths of a
// percentage point.
type Resource int64

// FullResource is 100%: 50 overs and all ten wickets in hand.
const FullResource Resource = 100 * resourceUnit

// Percent returns r as a percentage, e.g. 86.8.
func (r Resource) Percent() float64 {
	return float64(r) / resourceUnit
}

func (r Resource) String() string {
	return fmt.Sprintf("%.1f%%", r.Percent())
}

// Table is an immutable resource table indexed by whole overs remaining
// (0..50) and wickets lost (0..9). Values are tenths of a percent.
type Table struct {
	rows [MaxOvers + 1][MaxWickets + 1]int16
}

// StandardEdition returns the published Duckworth-Lewis Standard Edition
// table. The returned value is shared and must not be modified.
func StandardEdition() *Table {
	return &standardEdition
}

// Lookup returns the resources remaining with oversRemaining to bowl and
// wicketsLost down. Part-overs interpolate linearly between the two
// neighbouring whole-over rows; anything above 50 overs reads as 50.
func (t *Table) Lookup(oversRemaining Overs, wicketsLost int) (Resource, error) {
	if wicketsLost < 0 || wicketsLost > MaxWickets {
		return 0, fmt.Errorf("%w: wickets lost %d not in [0, %d]", ErrOutOfRange, wicketsLost, MaxWickets)
	}
	if oversRemaining < 0 {
		return 0, fmt.Errorf("%w: negative overs remaining %s", ErrOutOfRange, oversRemaining)
	}
	if oversRemaining > WholeOvers(MaxOvers) {
		oversRemaining = WholeOvers(MaxOvers)
	}

	whole := oversRemaining.Whole()
	balls := oversRemaining.Balls() % BallsPerOver
	lo := Resource(t.rows[whole][wicketsLost])
	if balls == 0 {
		return lo * BallsPerOver, nil
	}
	hi := Resource(t.rows[whole+1][wicketsLost])
	return lo*Resource(BallsPerOver-balls) + hi*Resource(balls), nil
}

// Percentage is Lookup expressed as a percentage in [0, 100].
func (t *Table) Percentage(oversRemaining Overs, wicketsLost int) (float64, error) {
	r, err := t.Lookup(oversRemaining, wicketsLost)
	if err != nil {
		return 0, err
	}
	return r.Percent(), nil
}

// standardEdition rows are overs remaining 0..50; columns are wickets lost 0..9.
var standardEdition = Table{rows: [MaxOvers + 1][MaxWickets + 1]int16{
	{0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	{36, 36, 36, 36, 36, 35, 35, 34, 29, 20},
	{72, 71, 71, 70, 70, 68, 66, 62, 49, 30},
	{106, 105, 104, 103, 102, 99, 95, 87, 65, 37},
	{139, 138, 137, 135, 132, 127, 120, 107, 77, 42},
	{172, 170, 168, 165, 161, 154, 143, 125, 87, 44},
	{203, 201, 198, 194, 188, 178, 164, 139, 95, 45},
	{234, 231, 227, 222, 214, 201, 182, 152, 101, 46},
	{264, 260, 255, 248, 238, 223, 199, 162, 105, 46},
	{293, 289, 282, 274, 261, 242, 214, 171, 109, 47},
	{321, 316, 308, 298, 283, 261, 228, 179, 112, 47},
	{349, 342, 334, 321, 304, 278, 240, 185, 114, 47},
	{376, 368, 358, 343, 323, 294, 251, 190, 115, 47},
	{402, 393, 381, 365, 342, 308, 261, 195, 116, 47},
	{427, 417, 404, 385, 359, 322, 270, 199, 117, 47},
	{452, 441, 426, 405, 376, 335, 278, 202, 118, 47},
	{476, 463, 447, 423, 391, 347, 285, 205, 118, 47},
	{499, 485, 467, 441, 406, 358, 292, 207, 118, 47},
	{522, 507, 486, 459, 420, 368, 298, 209, 118, 47},
	{544, 528, 505, 475, 434, 377, 303, 211, 119, 47},
	{566, 548, 524, 491, 446, 386, 308, 212, 119, 47},
	{587, 567, 541, 506, 458, 394, 312, 213, 119, 47},
	{607, 586, 558, 520, 470, 402, 316, 214, 119, 47},
	{627, 604, 574, 534, 480, 409, 320, 215, 119, 47},
	{646, 622, 590, 547, 490, 416, 323, 216, 119, 47},
	{665, 639, 605, 560, 500, 422, 326, 216, 119, 47},
	{683, 656, 620, 572, 509, 428, 328, 217, 119, 47},
	{701, 672, 634, 584, 518, 433, 330, 217, 119, 47},
	{718, 688, 648, 595, 526, 438, 332, 218, 119, 47},
	{735, 703, 661, 605, 534, 442, 334, 218, 119, 47},
	{751, 718, 673, 616, 541, 447, 336, 218, 119, 47},
	{767, 732, 686, 625, 548, 451, 337, 219, 119, 47},
	{783, 746, 698, 635, 554, 454, 339, 219, 119, 47},
	{798, 759, 709, 644, 560, 458, 340, 219, 119, 47},
	{813, 772, 720, 652, 566, 461, 341, 219, 119, 47},
	{827, 785, 730, 660, 572, 464, 342, 219, 119, 47},
	{841, 797, 741, 668, 577, 466, 343, 219, 119, 47},
	{854, 809, 750, 676, 582, 469, 344, 219, 119, 47},
	{867, 820, 760, 683, 587, 471, 345, 219, 119, 47},
	{880, 831, 769, 690, 591, 474, 345, 220, 119, 47},
	{893, 842, 778, 696, 595, 476, 346, 220, 119, 47},
	{905, 853, 787, 703, 599, 478, 346, 220, 119, 47},
	{917, 863, 795, 709, 603, 479, 347, 220, 119, 47},
	{928, 873, 803, 714, 607, 481, 347, 220, 119, 47},
	{939, 882, 810, 720, 610, 483, 348, 220, 119, 47},
	{950, 891, 818, 725, 613, 484, 348, 220, 119, 47},
	{961, 900, 825, 730, 616, 485, 348, 220, 119, 47},
	{971, 909, 832, 735, 619, 486, 349, 220, 119, 47},
	{981, 917, 838, 740, 622, 488, 349, 220, 119, 47},
	{991, 926, 845, 744, 625, 489, 349, 220, 119, 47},
	{1000, 934, 851, 749, 627, 490, 349, 220, 119, 47},
}}
