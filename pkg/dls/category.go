package dls

import (
	"fmt"
	"strings"
)

// Category is the highest grade the two teams in a match are eligible to
// play. It selects the G50 constant used when team 2 has more resources
// than team 1.
type Category int

const (
	FullMember Category = iota
	FirstClass
	U19International
	U15International
	WomensInternational
	Associate
)

// G50 constants from the Standard Edition.
const (
	G50FullMember = 245
	G50Other      = 200
)

var categoryNames = [...]string{
	FullMember:          "full-member",
	FirstClass:          "first-class",
	U19International:    "u19-international",
	U15International:    "u15-international",
	WomensInternational: "womens-international",
	Associate:           "associate",
}

// Categories returns every category in declaration order.
func Categories() []Category {
	out := make([]Category, len(categoryNames))
	for i := range categoryNames {
		out[i] = Category(i)
	}
	return out
}

// G50 returns the average score of an uninterrupted 50-over innings at this
// level.
func (c Category) G50() int {
	switch c {
	case FullMember, FirstClass:
		return G50FullMember
	default:
		return G50Other
	}
}

func (c Category) valid() bool {
	return c >= 0 && int(c) < len(categoryNames)
}

func (c Category) String() string {
	if !c.valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseCategory accepts the kebab-case names returned by String, ignoring
// case, underscores and hyphens ("FullMember", "full_member", "ICCFullMember"
// and "full-member" are all FullMember).
func ParseCategory(s string) (Category, error) {
	key := normalizeCategory(s)
	key = strings.TrimPrefix(key, "icc")
	for i, name := range categoryNames {
		if normalizeCategory(name) == key {
			return Category(i), nil
		}
	}
	if key == "associatemember" {
		return Associate, nil
	}
	return 0, fmt.Errorf("%w: unknown category %q", ErrInvalidMatchSetup, s)
}

func normalizeCategory(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.valid() {
		return nil, fmt.Errorf("%w: unknown category %d", ErrInvalidMatchSetup, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	v, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
