package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewStatsCommand(t *testing.T) {
	cmd := newStatsCommand()

	assert.Equal(t, "stats", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	yearFlag := cmd.Flags().Lookup("year")
	assert.NotNil(t, yearFlag)
	assert.Equal(t, "0", yearFlag.DefValue)

	monthFlag := cmd.Flags().Lookup("month")
	assert.NotNil(t, monthFlag)
	assert.Equal(t, "0", monthFlag.DefValue)

	assert.NotNil(t, cmd.Flags().Lookup("pdf"))
}

func TestNewStatsCommand_MonthWithoutYear(t *testing.T) {
	cmd := newStatsCommand()
	cmd.SetArgs([]string{"--month", "3"})

	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "--month requires --year")
}

func TestNewStatsCommand_InvalidMonth(t *testing.T) {
	cmd := newStatsCommand()
	cmd.SetArgs([]string{"--year", "2025", "--month", "13"})

	err := cmd.Execute()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "--month must be between 1 and 12")
}

func TestNewReviewCommand(t *testing.T) {
	cmd := newReviewCommand()

	assert.Equal(t, "review", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	modeFlag := cmd.Flags().Lookup("mode")
	assert.NotNil(t, modeFlag)
	assert.Equal(t, "due", modeFlag.DefValue)
}

func TestNewWordCommand(t *testing.T) {
	cmd := newWordCommand()

	assert.Equal(t, "word", cmd.Use)
	assert.True(t, cmd.HasSubCommands())

	subcommands := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		subcommands[sub.Name()] = true
	}
	for _, name := range []string{"add", "list", "import", "export", "pregen"} {
		assert.True(t, subcommands[name], "missing subcommand %s", name)
	}
}
