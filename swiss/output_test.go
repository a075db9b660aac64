/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package swiss

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputsBeforeFirstRound(t *testing.T) {
	tour, err := New(Settings{GameMode: BestOfTwo}, testEntries(4))
	require.NoError(t, err)

	assert.Contains(t, BuildPairingsOutput(tour), "No pairings yet")
	assert.Equal(t, "Cannot determine standings before the first round",
		BuildStandingsOutput(tour))
	assert.Equal(t, "No statistics before the first round",
		BuildStatisticsOutput(tour))
	assert.Equal(t, "No rounds played yet", BuildHistoryOutput(tour))
}

func TestOutputsAfterRound(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	tour, err := New(Settings{GameMode: BestOfTwo, WithHandicaps: true},
		testEntries(3), WithRand(rng))
	require.NoError(t, err)
	_, err = tour.GenerateNextRound()
	require.NoError(t, err)

	pairings := BuildPairingsOutput(tour)
	assert.True(t, strings.HasPrefix(pairings, "Round 1 of 3 pairings"))
	assert.Contains(t, pairings, "Offset")
	assert.Contains(t, pairings, "BYE")
	assert.Contains(t, pairings, "2 : 0")

	finishRound(t, tour, rng)

	standings := BuildStandingsOutput(tour)
	assert.Contains(t, standings, "Standings after Round 1")
	lines := strings.Split(strings.TrimSpace(standings), "\n")
	// title, blank, header and one line per real player
	require.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[2], "Place  Name"))
	assert.NotContains(t, standings, ByeName)

	stats := BuildStatisticsOutput(tour)
	assert.Contains(t, stats, "*")
	assert.Contains(t, stats, "Avg+")

	history := BuildHistoryOutput(tour)
	assert.Contains(t, history, "Round 1")
	assert.Contains(t, history, "11 : ")
}

func TestWriteTableAlignsColumns(t *testing.T) {
	var sb strings.Builder
	writeTable(&sb, []string{"A", "Name"}, [][]string{
		{"1.", "Jürgen"},
		{"10.", "Bo"},
	})

	assert.Equal(t, "A    Name\n1.   Jürgen\n10.  Bo\n", sb.String())
}
