package rules

import "fmt"

// ConfigurationError reports an invalid match configuration. It is
// returned before any turn runs; a match that starts never sees one.
type ConfigurationError struct {
	Reason string
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("rules: invalid configuration: %s", e.Reason)
}

// InvariantViolation reports a structurally invalid frame coming out of
// the turn pipeline. It signals an engine bug, not a bad input, and ends
// the match with an error status.
type InvariantViolation struct {
	Turn   int32
	Reason string
}

func (e InvariantViolation) Error() string {
	return fmt.Sprintf("rules: invariant violated on turn %d: %s", e.Turn, e.Reason)
}
