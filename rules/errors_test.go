package rules

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigurationErrorMessage(t *testing.T) {
	var err error = ConfigurationError{Reason: "at least one snake is required"}
	require.Equal(t, "rules: invalid configuration: at least one snake is required", err.Error())
}

func TestInvariantViolationMessage(t *testing.T) {
	var err error = InvariantViolation{Turn: 7, Reason: "duplicate food at (1,2)"}
	require.Equal(t, "rules: invariant violated on turn 7: duplicate food at (1,2)", err.Error())
}
