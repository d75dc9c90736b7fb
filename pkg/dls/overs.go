package dls

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// BallsPerOver is the number of legal deliveries in one over.
const BallsPerOver = 6

// MaxOvers is the longest innings the Standard Edition table covers.
const MaxOvers = 50

// Overs is a count of legal deliveries. It is written in cricket notation,
// so 37.3 means 37 overs and 3 balls (37.5 overs as a decimal).
//
// Overs is exact; it never passes through floating point.
type Overs int

// WholeOvers returns n complete overs.
func WholeOvers(n int) Overs {
	return Overs(n * BallsPerOver)
}

// NewOvers returns overs.balls, rejecting negative values and balls >= 6.
func NewOvers(overs, balls int) (Overs, error) {
	if overs < 0 {
		return 0, fmt.Errorf("%w: negative overs %d", ErrInvalidOvers, overs)
	}
	if balls < 0 || balls >= BallsPerOver {
		return 0, fmt.Errorf("%w: %d balls, an over has %d", ErrInvalidOvers, balls, BallsPerOver)
	}
	return Overs(overs*BallsPerOver + balls), nil
}

// ParseOvers parses cricket notation such as "40", "37.3" or "7.4".
func ParseOvers(s string) (Overs, error) {
	s = strings.TrimSpace(s)
	whole, part, hasPart := strings.Cut(s, ".")
	if whole == "" || (hasPart && part == "") {
		return 0, fmt.Errorf("%w: %q is not in overs.balls format", ErrInvalidOvers, s)
	}
	if !isDigits(whole) || !isDigits(part) {
		return 0, fmt.Errorf("%w: %q is not numeric", ErrInvalidOvers, s)
	}
	if len(part) > 1 {
		return 0, fmt.Errorf("%w: %q has too many balls", ErrInvalidOvers, s)
	}

	overs, err := strconv.Atoi(whole)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidOvers, s, err)
	}
	var balls int
	if hasPart {
		balls = int(part[0] - '0')
	}
	if balls >= BallsPerOver {
		return 0, fmt.Errorf("%w: %q has too many balls", ErrInvalidOvers, s)
	}
	return Overs(overs*BallsPerOver + balls), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Balls returns the total number of deliveries.
func (o Overs) Balls() int { return int(o) }

// Whole returns the number of complete overs, rounding down.
func (o Overs) Whole() int { return int(o) / BallsPerOver }

// Decimal returns o as fractional overs, e.g. 37.3 -> 37.5.
// Use it for display only.
func (o Overs) Decimal() float64 { return float64(o) / BallsPerOver }

// Sub returns o - x, saturating at zero.
func (o Overs) Sub(x Overs) Overs {
	if x >= o {
		return 0
	}
	return o - x
}

// String renders o in cricket notation.
func (o Overs) String() string {
	if o < 0 {
		return "-" + (-o).String()
	}
	balls := int(o) % BallsPerOver
	if balls == 0 {
		return strconv.Itoa(o.Whole())
	}
	return strconv.Itoa(o.Whole()) + "." + strconv.Itoa(balls)
}

// MarshalText implements encoding.TextMarshaler.
func (o Overs) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Overs) UnmarshalText(text []byte) error {
	v, err := ParseOvers(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// UnmarshalJSON accepts both "37.3" and the bare number 37.3. The raw token
// text is parsed, so a number is never rounded through float64.
func (o *Overs) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return o.UnmarshalText([]byte(s))
	}
	return o.UnmarshalText(b)
}
