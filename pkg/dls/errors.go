package dls

import "errors"

// Sentinel errors returned (wrapped with context) by the public operations.
// Use errors.Is to test for a kind.
var (
	ErrInvalidMatchSetup   = errors.New("invalid match setup")
	ErrInvalidInterruption = errors.New("invalid interruption")
	ErrOutOfRange          = errors.New("resource lookup out of range")
	ErrInvalidScore        = errors.New("invalid score")
	ErrInvalidResource     = errors.New("invalid resource percentage")
	ErrInvalidOvers        = errors.New("invalid overs")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrInvalidMatchSetup, "InvalidMatchSetupError"},
	{ErrInvalidInterruption, "InvalidInterruptionError"},
	{ErrOutOfRange, "OutOfRangeError"},
	{ErrInvalidScore, "InvalidScoreError"},
	{ErrInvalidResource, "InvalidResourceError"},
	{ErrInvalidOvers, "InvalidOversError"},
}

// Kind returns the taxonomy name of err, e.g. "InvalidInterruptionError".
// It returns "" for nil and for errors that did not originate in this package.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}
