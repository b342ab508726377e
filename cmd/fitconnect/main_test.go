package main

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatKg(t *testing.T) {
	tests := []struct {
		kg       float64
		expected string
	}{
		{80.5, "80.5"},
		{80, "80"},
		{80.123, "80.123"},
		{0.5, "0.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatKg(tt.kg))
	}
}

func TestRootHasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"withings", "strava", "history", "setup"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestWithingsRejectsZeroDays(t *testing.T) {
	old := withingsDays
	defer func() { withingsDays = old }()

	withingsDays = 0
	err := withingsCmd.RunE(withingsCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--days")
}

func TestPromptEnvVarsKeepsExistingOnEmptyAnswer(t *testing.T) {
	reader := bufio.NewReader(strings.NewReader("new-id\n\n"))

	vars, err := promptEnvVars(reader, []string{"A_CLIENT_ID", "A_CLIENT_SECRET"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"A_CLIENT_ID": "new-id"}, vars)
}
